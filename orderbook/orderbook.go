// Package orderbook implements the per-market limit order book: two
// price-indexed FIFO queues (bids, asks) with insertion, removal and
// iteration in matching order.
//
// A balanced ordered map keyed by price gives O(log L) level lookup where L
// is the number of distinct price levels, plus a FIFO queue per level for
// O(1) amortized push/pop. The ordered map is github.com/emirpasic/gods/v2's
// red-black tree, keyed directly by arbitrary-precision domain.Decimal — see
// DESIGN.md.
package orderbook

import (
	"container/list"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"github.com/satyam455/cex/domain"
)

// priceLevel groups every resting order at one price point. Orders is the
// FIFO spine that enforces time priority within the level.
type priceLevel struct {
	price  domain.Decimal
	orders *list.List // of *domain.Order
}

// PriceLevelSnapshot is one row of a depth snapshot: a price and the
// aggregate open (unfilled) quantity resting at that price.
type PriceLevelSnapshot struct {
	Price    domain.Decimal
	Quantity domain.Decimal
}

// OrderBook is the two-sided book for one market. Every order stored in it
// is open (not canceled, not fully filled); empty price levels are never
// retained.
type OrderBook struct {
	bids *rbt.Tree[domain.Decimal, *priceLevel] // descending: best bid first
	asks *rbt.Tree[domain.Decimal, *priceLevel] // ascending: best ask first
}

// New returns an empty order book.
func New() *OrderBook {
	return &OrderBook{
		bids: rbt.NewWith[domain.Decimal, *priceLevel](descendingDecimal),
		asks: rbt.NewWith[domain.Decimal, *priceLevel](ascendingDecimal),
	}
}

func ascendingDecimal(a, b domain.Decimal) int  { return a.Cmp(b) }
func descendingDecimal(a, b domain.Decimal) int { return b.Cmp(a) }

func (b *OrderBook) sideTree(side domain.Side) *rbt.Tree[domain.Decimal, *priceLevel] {
	if side == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

// Insert appends order to the FIFO at order.Price on its side, creating the
// level if absent. Precondition: order.FilledQuantity < order.Quantity.
func (b *OrderBook) Insert(order *domain.Order) {
	tree := b.sideTree(order.Side)

	level, found := tree.Get(order.Price)
	if !found {
		level = &priceLevel{price: order.Price, orders: list.New()}
		tree.Put(order.Price, level)
	}

	elem := level.orders.PushBack(order)
	order.SetListElement(elem)
}

// Remove drops order from its side's book at the given price. Idempotent:
// if the order (or its level) is already absent, this is a no-op. Removal
// is O(1) once the level is found, via the list.Element the order cached
// on Insert — no linear scan of the level's queue is needed.
func (b *OrderBook) Remove(order *domain.Order) {
	tree := b.sideTree(order.Side)

	level, found := tree.Get(order.Price)
	if !found {
		return
	}

	if elem, ok := order.ListElement().(*list.Element); ok && elem != nil {
		level.orders.Remove(elem)
		order.SetListElement(nil)
	}

	if level.orders.Len() == 0 {
		tree.Remove(order.Price)
	}
}

// IterateForMatch calls visit for every resting order on the side opposite
// takerSide, in matching order: price levels best-first, and within a
// level, FIFO (oldest first). visit returns false to stop the walk early
// (used by the matcher once the taker is fully filled).
func (b *OrderBook) IterateForMatch(takerSide domain.Side, visit func(level domain.Decimal, order *domain.Order) bool) {
	tree := b.sideTree(takerSide.Opposite())

	it := tree.Iterator()
	for it.Next() {
		level := it.Value()
		// The matcher may mark orders for removal but must not mutate the
		// book structure mid-iteration: collect, then mutate after the walk
		// completes.
		for e := level.orders.Front(); e != nil; e = e.Next() {
			order := e.Value.(*domain.Order)
			if !visit(level.price, order) {
				return
			}
		}
	}
}

// BestBid returns the best (highest) resting bid price and true, or the
// zero Decimal and false if the bid side is empty.
func (b *OrderBook) BestBid() (domain.Decimal, bool) {
	return bestPrice(b.bids)
}

// BestAsk returns the best (lowest) resting ask price and true, or the
// zero Decimal and false if the ask side is empty.
func (b *OrderBook) BestAsk() (domain.Decimal, bool) {
	return bestPrice(b.asks)
}

func bestPrice(tree *rbt.Tree[domain.Decimal, *priceLevel]) (domain.Decimal, bool) {
	it := tree.Iterator()
	if !it.Next() {
		return domain.Decimal{}, false
	}
	return it.Key(), true
}

// Snapshot returns the aggregated depth of both sides: bids in descending
// price order, asks in ascending price order. The aggregate at each level
// is the sum of (quantity - filled_quantity) over that level's queue.
func (b *OrderBook) Snapshot() (bids, asks []PriceLevelSnapshot) {
	return snapshotSide(b.bids), snapshotSide(b.asks)
}

func snapshotSide(tree *rbt.Tree[domain.Decimal, *priceLevel]) []PriceLevelSnapshot {
	out := make([]PriceLevelSnapshot, 0, tree.Size())

	it := tree.Iterator()
	for it.Next() {
		level := it.Value()
		total := domain.Zero
		for e := level.orders.Front(); e != nil; e = e.Next() {
			order := e.Value.(*domain.Order)
			total = total.Add(order.RemainingQuantity())
		}
		out = append(out, PriceLevelSnapshot{Price: level.price, Quantity: total})
	}
	return out
}
