// Package matching implements the matching algorithm and the engine
// coordinator: the single-threaded actor that serializes every mutation,
// dispatches by market, and owns the order index.
package matching

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/satyam455/cex/balance"
	"github.com/satyam455/cex/domain"
	"github.com/satyam455/cex/market"
	"github.com/satyam455/cex/orderbook"
	"github.com/satyam455/cex/token"
)

// defaultMailboxCapacity bounds the request queue before trySubmit starts
// returning ErrMailboxFull.
const defaultMailboxCapacity = 4096

// Engine is the sole mutator of every market's book and of the balance
// ledger. All mutating operations are delivered through a FIFO mailbox and
// handled one at a time to completion on a single goroutine (Run); there is
// no lock discipline anywhere above the mailbox because there is no
// sharing across goroutines past that point.
type Engine struct {
	Tokens   *token.Registry
	Markets  *market.Registry
	Balances *balance.Ledger

	orders map[domain.OrderID]*domain.Order

	mailbox *mailbox
	corrIDs *correlationIDGenerator
	log     zerolog.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithMailboxCapacity overrides the default bounded mailbox size.
func WithMailboxCapacity(capacity int) Option {
	return func(e *Engine) { e.mailbox = newMailbox(capacity) }
}

// WithLogger overrides the engine's zerolog logger (default: stderr,
// info level).
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New constructs an Engine with fresh, empty token/market registries and
// balance ledger.
func New(opts ...Option) *Engine {
	e := &Engine{
		Tokens:   token.NewRegistry(),
		Markets:  market.NewRegistry(),
		Balances: balance.NewLedger(),
		orders:   make(map[domain.OrderID]*domain.Order),
		mailbox:  newMailbox(defaultMailboxCapacity),
		corrIDs:  newCorrelationIDGenerator("req"),
		log:      zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Str("component", "engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drains the mailbox until ctx is canceled. Call it in its own
// goroutine; every CreateOrder/CancelOrder/GetOrder/GetDepth call below
// blocks its caller only until its turn in the mailbox, not until Run
// exits.
func (e *Engine) Run(ctx context.Context) {
	e.mailbox.run(ctx)
}

// Stop closes the mailbox; further calls into the engine return
// ErrMailboxClosed.
func (e *Engine) Stop() {
	e.mailbox.close()
}

// call submits fn to the mailbox and blocks until it has run, returning
// whatever fn returned. This is how every public Engine method gets its
// work serialized through the single-threaded actor without exposing
// channels to callers.
func call[T any](e *Engine, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	submitErr := e.mailbox.trySubmit(func() {
		v, err := fn()
		done <- result{val: v, err: err}
	})
	if submitErr != nil {
		var zero T
		return zero, submitErr
	}

	r := <-done
	return r.val, r.err
}

// CreateOrder validates, reserves funds, matches, settles fills and
// (if residue remains) rests the order, run to completion inside the
// mailbox.
func (e *Engine) CreateOrder(req CreateOrderRequest) (CreateOrderReply, error) {
	return call(e, func() (CreateOrderReply, error) {
		corrID := e.corrIDs.Next()

		side, err := parseSide(req.Side)
		if err != nil {
			return CreateOrderReply{}, domain.ErrInvalidFormat
		}
		price, err := domain.ParseDecimal(req.Price)
		if err != nil {
			return CreateOrderReply{}, domain.ErrInvalidFormat
		}
		quantity, err := domain.ParseDecimal(req.Quantity)
		if err != nil {
			return CreateOrderReply{}, domain.ErrInvalidFormat
		}
		if price.LessThanOrEqual(domain.Zero) {
			return CreateOrderReply{}, ErrInvalidPrice
		}
		if quantity.LessThanOrEqual(domain.Zero) {
			return CreateOrderReply{}, ErrInvalidQuantity
		}

		m, ok := e.Markets.Get(req.Market)
		if !ok {
			return CreateOrderReply{}, ErrMarketNotFound
		}
		if !m.IsActive {
			return CreateOrderReply{}, ErrMarketInactive
		}

		reserveToken, reserveAmount := reservation(m.Pair, side, price, quantity)
		if err := e.Balances.Debit(req.UserID, reserveToken, reserveAmount); err != nil {
			return CreateOrderReply{}, err
		}

		orderID := domain.NewOrderID()
		taker := domain.NewOrder(orderID, req.UserID, req.Market, side, price, quantity)

		fills, filledMakers := match(m.Book, taker)
		for _, f := range fills {
			e.settleFill(m.Pair, side, price, f, taker)
			e.log.Info().
				Str("corr_id", corrID).
				Str("op", "CreateOrder").
				Str("market", req.Market).
				Str("trade_id", f.TradeID.String()).
				Str("price", f.Price.String()).
				Str("quantity", f.Quantity.String()).
				Msg("fill")
		}
		for _, maker := range filledMakers {
			delete(e.orders, maker.OrderID)
		}

		if taker.IsOpen() {
			m.Book.Insert(taker)
		}
		e.orders[orderID] = taker

		e.log.Info().
			Str("corr_id", corrID).
			Str("op", "CreateOrder").
			Str("market", req.Market).
			Str("order_id", orderID.String()).
			Int("fills", len(fills)).
			Msg("order accepted")

		return CreateOrderReply{Status: "accepted", OrderID: orderID}, nil
	})
}

// reservation computes the token and amount debited at order entry:
// quote·price for a Buy, base quantity for a Sell.
func reservation(pair token.TradingPair, side domain.Side, price, quantity domain.Decimal) (tok string, amount domain.Decimal) {
	if side == domain.SideBuy {
		return pair.Quote, quantity.Mul(price)
	}
	return pair.Base, quantity
}

// settleFill performs the dual credits for one fill and, for a buy taker
// that reserved at a price above the maker's resting price, refunds the
// price-improvement surplus to the taker.
func (e *Engine) settleFill(pair token.TradingPair, takerSide domain.Side, takerPrice domain.Decimal, f domain.Fill, taker *domain.Order) {
	if takerSide == domain.SideBuy {
		// taker is buyer, maker is seller.
		e.Balances.Credit(taker.UserID, pair.Base, f.Quantity)
		// maker's user id is looked up via the order index; see creditMakerQuote.
		e.creditMakerQuote(f.MakerOrderID, pair.Quote, f.Quantity.Mul(f.Price))

		if takerPrice.GreaterThan(f.Price) {
			surplus := f.Quantity.Mul(takerPrice.Sub(f.Price))
			e.Balances.Credit(taker.UserID, pair.Quote, surplus)
		}
		return
	}

	// taker is seller, maker is buyer.
	e.creditMakerBase(f.MakerOrderID, pair.Base, f.Quantity)
	e.Balances.Credit(taker.UserID, pair.Quote, f.Quantity.Mul(f.Price))
}

func (e *Engine) creditMakerQuote(makerID domain.OrderID, quoteToken string, amount domain.Decimal) {
	if maker, ok := e.orders[makerID]; ok {
		e.Balances.Credit(maker.UserID, quoteToken, amount)
	}
}

func (e *Engine) creditMakerBase(makerID domain.OrderID, baseToken string, amount domain.Decimal) {
	if maker, ok := e.orders[makerID]; ok {
		e.Balances.Credit(maker.UserID, baseToken, amount)
	}
}

// GetOrder returns a full, immutable snapshot of a tracked order.
func (e *Engine) GetOrder(req GetOrderRequest) (OrderSnapshot, error) {
	return call(e, func() (OrderSnapshot, error) {
		id, err := domain.ParseOrderID(req.OrderID)
		if err != nil {
			return OrderSnapshot{}, domain.ErrInvalidFormat
		}
		order, ok := e.orders[id]
		if !ok {
			return OrderSnapshot{}, ErrOrderNotFound
		}
		return toOrderSnapshot(order.Snapshot()), nil
	})
}

// CancelOrder removes a resting order from its book, refunds the unfilled
// remainder, and deletes it from the index. Canceling an already-removed
// order returns ErrOrderNotFound — not a double refund.
func (e *Engine) CancelOrder(req CancelOrderRequest) (CancelOrderReply, error) {
	return call(e, func() (CancelOrderReply, error) {
		id, err := domain.ParseOrderID(req.OrderID)
		if err != nil {
			return CancelOrderReply{}, domain.ErrInvalidFormat
		}

		order, ok := e.orders[id]
		if !ok {
			return CancelOrderReply{}, ErrOrderNotFound
		}
		if order.UserID != req.UserID {
			return CancelOrderReply{}, ErrNotAuthorized
		}

		m, ok := e.Markets.Get(order.Market)
		if ok {
			m.Book.Remove(order)
		}

		order.Canceled = true
		delete(e.orders, id)

		if ok {
			refundToken, refundAmount := reservation(m.Pair, order.Side, order.Price, order.RemainingQuantity())
			e.Balances.Credit(order.UserID, refundToken, refundAmount)
		}

		e.log.Info().
			Str("op", "CancelOrder").
			Str("order_id", id.String()).
			Msg("order canceled")

		return CancelOrderReply{Status: "canceled", OrderID: id}, nil
	})
}

// GetDepth returns a consistent, read-only depth snapshot for a market.
// Because it is routed through the same mailbox as every mutation, it can
// never observe a mid-match book.
func (e *Engine) GetDepth(req GetDepthRequest) (DepthReply, error) {
	return call(e, func() (DepthReply, error) {
		m, ok := e.Markets.Get(req.Market)
		if !ok {
			return DepthReply{}, ErrMarketNotFound
		}

		bids, asks := m.Book.Snapshot()
		return DepthReply{Bids: toDepthLevels(bids), Asks: toDepthLevels(asks)}, nil
	})
}

func toDepthLevels(levels []orderbook.PriceLevelSnapshot) []DepthLevel {
	out := make([]DepthLevel, len(levels))
	for i, l := range levels {
		out[i] = DepthLevel{Price: l.Price.String(), Quantity: l.Quantity.String()}
	}
	return out
}
