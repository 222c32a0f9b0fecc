package matching

import (
	"time"

	"github.com/satyam455/cex/domain"
	"github.com/satyam455/cex/orderbook"
)

// match walks the opposite side of book against taker under price-time
// priority, walking resting orders from the best price outward:
//
//  1. iterate the opposite side in matching order (asks ascending for a
//     Buy taker, bids descending for a Sell taker);
//  2. stop at the first non-crossing level;
//  3. within a crossing level, consume makers FIFO, emitting a Fill per
//     match and advancing both sides' FilledQuantity;
//  4. collect fully-filled makers and remove them from the book (and the
//     caller's order index) only after the walk completes — never mutate
//     the book structure while iterating it;
//  5. if the taker has residue, the caller inserts it into its own side;
//  6. return the ordered fills.
//
// Trades always execute at the maker's resting price (taker.Price never
// appears in a Fill). Self-trading is permitted; no prevention is applied.
func match(book *orderbook.OrderBook, taker *domain.Order) (fills []domain.Fill, filledMakers []*domain.Order) {
	crosses := func(levelPrice domain.Decimal) bool {
		if taker.Side == domain.SideBuy {
			return levelPrice.LessThanOrEqual(taker.Price)
		}
		return levelPrice.GreaterThanOrEqual(taker.Price)
	}

	book.IterateForMatch(taker.Side, func(level domain.Decimal, maker *domain.Order) bool {
		if !crosses(level) {
			return false // first non-crossing level: stop the walk entirely
		}
		if taker.IsFilled() {
			return false
		}

		tradeQty := domain.Min(taker.RemainingQuantity(), maker.RemainingQuantity())

		taker.Fill(tradeQty)
		maker.Fill(tradeQty)

		fills = append(fills, domain.Fill{
			TradeID:      domain.NewTradeID(),
			Price:        maker.Price,
			Quantity:     tradeQty,
			MakerOrderID: maker.OrderID,
			TakerOrderID: taker.OrderID,
			Timestamp:    time.Now().UnixMilli(),
		})

		if maker.IsFilled() {
			filledMakers = append(filledMakers, maker)
		}

		return true
	})

	// Two-phase shape: the walk above only reads the book and advances
	// FilledQuantity; removal happens here, after iteration, so a maker
	// drained mid-level never invalidates the FIFO we're still walking.
	for _, maker := range filledMakers {
		book.Remove(maker)
	}

	return fills, filledMakers
}
