package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyam455/cex/domain"
	"github.com/satyam455/cex/token"
)

// newTestEngine returns a running engine with one active TAN_KAN market and
// stops the mailbox loop when the test ends.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e := New()
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)
	t.Cleanup(cancel)

	pair := token.NewTradingPair("TAN", "KAN")
	_, err := e.Markets.Create(pair)
	require.NoError(t, err)

	return e
}

func fund(t *testing.T, e *Engine, user, tok, amount string) {
	t.Helper()
	e.Balances.Initialize(user, tok, mustDecimal(t, amount))
}

func mustDecimal(t *testing.T, s string) domain.Decimal {
	t.Helper()
	d, err := domain.ParseDecimal(s)
	require.NoError(t, err)
	return d
}

func createOrder(t *testing.T, e *Engine, user, side, price, qty string) CreateOrderReply {
	t.Helper()
	reply, err := e.CreateOrder(CreateOrderRequest{
		UserID:   user,
		Market:   "TAN_KAN",
		Side:     side,
		Price:    price,
		Quantity: qty,
	})
	require.NoError(t, err)
	return reply
}

// S1. Simple cross: alice's resting buy is fully consumed by bob's sell at
// the same price.
func TestScenarioS1SimpleCross(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "alice", "KAN", "50")
	fund(t, e, "bob", "TAN", "10")

	aliceOrder := createOrder(t, e, "alice", "Buy", "5", "10")
	bobOrder := createOrder(t, e, "bob", "Sell", "5", "10")

	// alice's order rested as a maker and was fully filled by bob's cross,
	// so it is removed from the book and from the engine's order index.
	_, err := e.GetOrder(GetOrderRequest{OrderID: aliceOrder.OrderID.String()})
	assert.ErrorIs(t, err, ErrOrderNotFound, "alice's fully filled maker order should be removed from the index")
	// bob was the taker; taker orders are never removed from the index on
	// a fill, only on explicit cancellation.
	bobSnap, err := e.GetOrder(GetOrderRequest{OrderID: bobOrder.OrderID.String()})
	require.NoError(t, err)
	assert.Equal(t, bobSnap.Quantity, bobSnap.FilledQuantity, "bob's order should be fully filled")

	assert.True(t, e.Balances.Get("bob", "KAN").Equal(mustDecimal(t, "50")))
	assert.True(t, e.Balances.Get("alice", "TAN").Equal(mustDecimal(t, "10")))

	depth, err := e.GetDepth(GetDepthRequest{Market: "TAN_KAN"})
	require.NoError(t, err)
	assert.Empty(t, depth.Bids)
	assert.Empty(t, depth.Asks)
}

// S2. Partial fill, residue posts.
func TestScenarioS2PartialFillResiduePosts(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "m", "TAN", "4")
	fund(t, e, "alice", "KAN", "100")

	createOrder(t, e, "m", "Sell", "10", "4")
	aliceOrder := createOrder(t, e, "alice", "Buy", "10", "10")

	snap, err := e.GetOrder(GetOrderRequest{OrderID: aliceOrder.OrderID.String()})
	require.NoError(t, err)
	assert.Equal(t, "4", snap.FilledQuantity)
	assert.Equal(t, "10", snap.Quantity)

	depth, err := e.GetDepth(GetDepthRequest{Market: "TAN_KAN"})
	require.NoError(t, err)
	require.Len(t, depth.Bids, 1)
	assert.Equal(t, "10", depth.Bids[0].Price)
	assert.Equal(t, "6", depth.Bids[0].Quantity)
}

// S3. Price improvement: the taker is refunded the surplus between its
// limit price and the maker's resting price.
func TestScenarioS3PriceImprovement(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "m", "TAN", "5")
	fund(t, e, "alice", "KAN", "60")

	createOrder(t, e, "m", "Sell", "8", "5")
	createOrder(t, e, "alice", "Buy", "12", "5")

	assert.True(t, e.Balances.Get("alice", "TAN").Equal(mustDecimal(t, "5")))
	// Reserved 60, spent 40 net (5@8), refunded 20 surplus back to KAN.
	assert.True(t, e.Balances.Get("alice", "KAN").Equal(mustDecimal(t, "20")))
	assert.True(t, e.Balances.Get("m", "KAN").Equal(mustDecimal(t, "40")))
}

// S4. Walk multiple levels, FIFO within a level.
func TestScenarioS4MultiLevelFIFOWalk(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "m1", "TAN", "3")
	fund(t, e, "m2", "TAN", "2")
	fund(t, e, "m3", "TAN", "4")
	fund(t, e, "alice", "KAN", "1000")

	m1 := createOrder(t, e, "m1", "Sell", "10", "3")
	m2 := createOrder(t, e, "m2", "Sell", "10", "2")
	m3 := createOrder(t, e, "m3", "Sell", "11", "4")

	createOrder(t, e, "alice", "Buy", "11", "7")

	// m1 and m2 were fully filled makers: removed from the book and from
	// the engine's order index.
	_, err := e.GetOrder(GetOrderRequest{OrderID: m1.OrderID.String()})
	assert.ErrorIs(t, err, ErrOrderNotFound, "m1 should be removed from the index once fully filled")
	_, err = e.GetOrder(GetOrderRequest{OrderID: m2.OrderID.String()})
	assert.ErrorIs(t, err, ErrOrderNotFound, "m2 should be removed from the index once fully filled")

	m3Snap, err := e.GetOrder(GetOrderRequest{OrderID: m3.OrderID.String()})
	require.NoError(t, err)
	assert.Equal(t, "2", m3Snap.FilledQuantity)

	depth, err := e.GetDepth(GetDepthRequest{Market: "TAN_KAN"})
	require.NoError(t, err)
	require.Len(t, depth.Asks, 1)
	assert.Equal(t, "11", depth.Asks[0].Price)
	assert.Equal(t, "2", depth.Asks[0].Quantity)
}

// S5. Cancel refunds the unfilled reservation and the order becomes
// unreachable.
func TestScenarioS5CancelRefunds(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "alice", "KAN", "50")

	order := createOrder(t, e, "alice", "Buy", "5", "10")

	reply, err := e.CancelOrder(CancelOrderRequest{OrderID: order.OrderID.String(), UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "canceled", reply.Status)

	assert.True(t, e.Balances.Get("alice", "KAN").Equal(mustDecimal(t, "50")))

	_, err = e.GetOrder(GetOrderRequest{OrderID: order.OrderID.String()})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	depth, err := e.GetDepth(GetDepthRequest{Market: "TAN_KAN"})
	require.NoError(t, err)
	assert.Empty(t, depth.Bids)
}

// S6. Unauthorized cancel leaves the order untouched.
func TestScenarioS6UnauthorizedCancel(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "alice", "KAN", "50")

	order := createOrder(t, e, "alice", "Buy", "5", "10")

	_, err := e.CancelOrder(CancelOrderRequest{OrderID: order.OrderID.String(), UserID: "bob"})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	snap, err := e.GetOrder(GetOrderRequest{OrderID: order.OrderID.String()})
	require.NoError(t, err)
	assert.Equal(t, "0", snap.FilledQuantity)
}

// Property 7 (idempotent cancel): canceling an already-removed order
// returns OrderNotFound, never a second refund.
func TestPropertyCancelIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "alice", "KAN", "50")

	order := createOrder(t, e, "alice", "Buy", "5", "10")

	_, err := e.CancelOrder(CancelOrderRequest{OrderID: order.OrderID.String(), UserID: "alice"})
	require.NoError(t, err)

	balanceAfterFirstCancel := e.Balances.Get("alice", "KAN")

	_, err = e.CancelOrder(CancelOrderRequest{OrderID: order.OrderID.String(), UserID: "alice"})
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.True(t, e.Balances.Get("alice", "KAN").Equal(balanceAfterFirstCancel), "second cancel must not refund again")
}

// Property 4 (every fill prices at the maker's resting price): across a
// multi-level walk, every accepted fill settles at the maker's own price,
// never the taker's limit.
func TestPropertyFillsPriceAtMakerLevel(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "m1", "TAN", "3")
	fund(t, e, "m2", "TAN", "4")
	fund(t, e, "alice", "KAN", "1000")

	createOrder(t, e, "m1", "Sell", "10", "3")
	createOrder(t, e, "m2", "Sell", "11", "4")
	createOrder(t, e, "alice", "Buy", "11", "7")

	// m1 (price 10) must be paid at 10, not alice's limit of 11: m1's net
	// credit is exactly 3*10 = 30.
	assert.True(t, e.Balances.Get("m1", "KAN").Equal(mustDecimal(t, "30")))
	// m2 (price 11) settles at 11 with no improvement owed to alice, since
	// alice's limit equals the maker price at that level.
	assert.True(t, e.Balances.Get("m2", "KAN").Equal(mustDecimal(t, "44")))
}

// Property 5 (fill quantity bound) and property 6 (monotone
// filled_quantity): the resting maker's filled quantity advances by exactly
// the trade size and never exceeds its original quantity.
func TestPropertyFilledQuantityMonotoneAndBounded(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "m", "TAN", "10")
	fund(t, e, "alice", "KAN", "1000")
	fund(t, e, "bob", "KAN", "1000")

	maker := createOrder(t, e, "m", "Sell", "10", "10")

	createOrder(t, e, "alice", "Buy", "10", "3")
	snapAfterFirst, err := e.GetOrder(GetOrderRequest{OrderID: maker.OrderID.String()})
	require.NoError(t, err)
	assert.Equal(t, "3", snapAfterFirst.FilledQuantity)

	createOrder(t, e, "bob", "Buy", "10", "4")
	snapAfterSecond, err := e.GetOrder(GetOrderRequest{OrderID: maker.OrderID.String()})
	require.NoError(t, err)
	assert.Equal(t, "7", snapAfterSecond.FilledQuantity)
}

// Entry-path validation rejects non-positive price/quantity before any
// balance mutation, and malformed market references are refused cleanly.
func TestCreateOrderRejectsInvalidInput(t *testing.T) {
	e := newTestEngine(t)
	fund(t, e, "alice", "KAN", "50")

	_, err := e.CreateOrder(CreateOrderRequest{UserID: "alice", Market: "TAN_KAN", Side: "Buy", Price: "0", Quantity: "1"})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = e.CreateOrder(CreateOrderRequest{UserID: "alice", Market: "TAN_KAN", Side: "Buy", Price: "1", Quantity: "0"})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = e.CreateOrder(CreateOrderRequest{UserID: "alice", Market: "NOPE_NOPE", Side: "Buy", Price: "1", Quantity: "1"})
	assert.ErrorIs(t, err, ErrMarketNotFound)

	// Balance must be untouched by the rejected attempts.
	assert.True(t, e.Balances.Get("alice", "KAN").Equal(mustDecimal(t, "50")))
}

func TestCreateOrderRejectsInsufficientFunds(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.CreateOrder(CreateOrderRequest{UserID: "alice", Market: "TAN_KAN", Side: "Buy", Price: "5", Quantity: "10"})
	assert.Error(t, err)
}

func TestCreateOrderRejectsInactiveMarket(t *testing.T) {
	e := newTestEngine(t)
	e.Markets.SetActive("TAN_KAN", false)
	fund(t, e, "alice", "KAN", "50")

	_, err := e.CreateOrder(CreateOrderRequest{UserID: "alice", Market: "TAN_KAN", Side: "Buy", Price: "5", Quantity: "1"})
	assert.ErrorIs(t, err, ErrMarketInactive)
}
