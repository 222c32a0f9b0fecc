package domain

import "time"

// Side is the direction of an order: Buy (bid) or Sell (ask).
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideBuy {
		return "Buy"
	}
	return "Sell"
}

// Opposite returns the side that can cross against s.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Order is a resting or in-flight limit order. Quantity is the original
// size requested at acceptance; FilledQuantity advances monotonically as
// fills are applied and never exceeds Quantity.
type Order struct {
	OrderID        OrderID
	UserID         string
	Market         string // trading pair key, e.g. "TAN_KAN"
	Side           Side
	Price          Decimal
	Quantity       Decimal
	FilledQuantity Decimal
	Timestamp      int64 // millisecond epoch, assigned at acceptance; tie-breaker
	Canceled       bool
	listElement    any // opaque handle into the order book's FIFO queue, set by orderbook.Insert
}

// NewOrder constructs an order at acceptance time. FilledQuantity starts at
// zero; Timestamp is stamped here with time.Now() (tests that need a
// controlled clock construct Order values directly).
func NewOrder(id OrderID, userID, market string, side Side, price, quantity Decimal) *Order {
	return &Order{
		OrderID:        id,
		UserID:         userID,
		Market:         market,
		Side:           side,
		Price:          price,
		Quantity:       quantity,
		FilledQuantity: Zero,
		Timestamp:      time.Now().UnixMilli(),
	}
}

// RemainingQuantity is quantity minus filled quantity; it is never negative.
func (o *Order) RemainingQuantity() Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.FilledQuantity.GreaterThanOrEqual(o.Quantity)
}

// IsOpen reports whether the order is still eligible to rest in the book:
// not fully filled and not canceled.
func (o *Order) IsOpen() bool {
	return !o.Canceled && !o.IsFilled()
}

// Fill advances FilledQuantity by qty. Callers (the matcher) are
// responsible for ensuring qty never pushes FilledQuantity past Quantity.
func (o *Order) Fill(qty Decimal) {
	o.FilledQuantity = o.FilledQuantity.Add(qty)
}

// ListElement / SetListElement give the order book O(1) removal: the book
// stashes its container/list.Element here when the order is inserted, and
// reads it back on Remove instead of doing a linear scan.
func (o *Order) ListElement() any     { return o.listElement }
func (o *Order) SetListElement(e any) { o.listElement = e }

// Snapshot returns a defensive copy safe to hand to a caller outside the
// engine's serialized mailbox goroutine (GetOrder replies are immutable
// copies).
func (o *Order) Snapshot() Order {
	cp := *o
	cp.listElement = nil
	return cp
}
