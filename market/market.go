// Package market bundles a trading pair with its order book and an
// active/inactive flag, and keeps the registry of every market the engine
// knows about.
package market

import (
	"errors"
	"sync"

	"github.com/satyam455/cex/orderbook"
	"github.com/satyam455/cex/token"
)

// ErrAlreadyExists is returned by Registry.Create when the pair's key is
// already in use.
var ErrAlreadyExists = errors.New("market already exists")

// Market is one tradable pair. IsActive = false causes the engine to reject
// new orders for it (MarketInactive) while cancels and depth reads proceed
// unchanged; activation/deactivation is an administrative action, never
// automatic.
type Market struct {
	Pair     token.TradingPair
	Book     *orderbook.OrderBook
	IsActive bool
}

// Registry is the process-wide market catalog, keyed by pair key
// ("{base}_{quote}").
type Registry struct {
	mu      sync.RWMutex
	markets map[string]*Market
}

// NewRegistry returns an empty market registry.
func NewRegistry() *Registry {
	return &Registry{markets: make(map[string]*Market)}
}

// Create registers a new, active market for pair. Fails with
// ErrAlreadyExists if the pair's key is already registered.
func (r *Registry) Create(pair token.TradingPair) (*Market, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.markets[pair.Key]; exists {
		return nil, ErrAlreadyExists
	}

	m := &Market{Pair: pair, Book: orderbook.New(), IsActive: true}
	r.markets[pair.Key] = m
	return m, nil
}

// Get looks up a market by key. The bool is false if absent.
func (r *Registry) Get(key string) (*Market, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.markets[key]
	return m, ok
}

// SetActive flips a market's trading status. Used by administrative
// activation/deactivation; the core never calls this on its own.
func (r *Registry) SetActive(key string, active bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.markets[key]
	if !ok {
		return false
	}
	m.IsActive = active
	return true
}

// Keys lists every registered market key, for admin/reporting use.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.markets))
	for k := range r.markets {
		keys = append(keys, k)
	}
	return keys
}
