package matching

import "github.com/satyam455/cex/domain"

// Request/reply envelopes are the boundary types a transport layer
// produces and consumes. Prices and quantities cross as decimal strings to
// preserve precision; the engine parses them into domain.Decimal, rejecting
// malformed input with ErrInvalidFormat before any balance or book mutation
// occurs. JSON tags let a transport layer marshal these directly even
// though building that transport is out of scope here.

// CreateOrderRequest places a new limit, good-till-cancel order.
type CreateOrderRequest struct {
	UserID   string `json:"user_id"`
	Market   string `json:"market"`
	Side     string `json:"side"` // "Buy" | "Sell"
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// CreateOrderReply is returned on successful acceptance.
type CreateOrderReply struct {
	Status  string         `json:"status"` // "accepted"
	OrderID domain.OrderID `json:"order_id"`
}

// GetOrderRequest fetches a full order snapshot by id.
type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}

// OrderSnapshot mirrors domain.Order with decimal fields rendered as
// strings for the wire.
type OrderSnapshot struct {
	OrderID        domain.OrderID `json:"order_id"`
	UserID         string         `json:"user_id"`
	Market         string         `json:"market"`
	Side           string         `json:"side"`
	Price          string         `json:"price"`
	Quantity       string         `json:"quantity"`
	FilledQuantity string         `json:"filled_quantity"`
	Timestamp      int64          `json:"timestamp"`
}

// CancelOrderRequest cancels a resting order. UserID must match the
// order's owner.
type CancelOrderRequest struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// CancelOrderReply confirms the cancellation.
type CancelOrderReply struct {
	Status  string         `json:"status"` // "canceled"
	OrderID domain.OrderID `json:"order_id"`
}

// GetDepthRequest requests the aggregated depth snapshot for a market.
type GetDepthRequest struct {
	Market string `json:"market"`
}

// DepthLevel is one (price, aggregate open quantity) row of a snapshot.
type DepthLevel struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// DepthReply is bids in descending price order and asks in ascending price
// order.
type DepthReply struct {
	Bids []DepthLevel `json:"bids"`
	Asks []DepthLevel `json:"asks"`
}

func toOrderSnapshot(o domain.Order) OrderSnapshot {
	return OrderSnapshot{
		OrderID:        o.OrderID,
		UserID:         o.UserID,
		Market:         o.Market,
		Side:           o.Side.String(),
		Price:          o.Price.String(),
		Quantity:       o.Quantity.String(),
		FilledQuantity: o.FilledQuantity.String(),
		Timestamp:      o.Timestamp,
	}
}

func parseSide(s string) (domain.Side, error) {
	switch s {
	case "Buy":
		return domain.SideBuy, nil
	case "Sell":
		return domain.SideSell, nil
	default:
		return 0, domain.ErrInvalidFormat
	}
}
