package domain

import "github.com/google/uuid"

// OrderID and TradeID are opaque, engine-assigned identifiers. Reuse within
// a process lifetime is forbidden; both are backed by RFC 4122 v4 UUIDs.
type OrderID = uuid.UUID
type TradeID = uuid.UUID

// NewOrderID assigns a fresh order identifier. Only the engine coordinator
// calls this, at acceptance time.
func NewOrderID() OrderID {
	return uuid.New()
}

// NewTradeID assigns a fresh trade identifier, one per emitted Fill.
func NewTradeID() TradeID {
	return uuid.New()
}

// ParseOrderID parses a uuid-string crossing the request boundary
// (GetOrder/CancelOrder). Malformed input maps to ErrInvalidFormat.
func ParseOrderID(s string) (OrderID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return OrderID{}, ErrInvalidFormat
	}
	return id, nil
}
