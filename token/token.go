// Package token implements the token and trading-pair registry: canonical
// token metadata and the (base, quote) pair identity that gives every
// market its key.
package token

import (
	"errors"
	"sync"

	"github.com/satyam455/cex/domain"
)

// ErrAlreadyExists is returned by CreateToken when the symbol is already
// registered.
var ErrAlreadyExists = errors.New("token already exists")

// Token is registry metadata for one fungible token. Decimals and
// TotalSupply are informational only: matching never consults them.
type Token struct {
	Symbol        string
	Name          string
	Decimals      uint8
	TotalSupply   domain.Decimal
	MintAuthority *string // optional; restored from original_source, metadata only
}

// TradingPair identifies one market by its base and quote token symbols.
// Key is the canonical "{base}_{quote}" form used everywhere a market is
// addressed by string (request envelopes, log fields, depth snapshots).
type TradingPair struct {
	Base  string
	Quote string
	Key   string
}

// NewTradingPair builds the pair and its deterministic key.
func NewTradingPair(base, quote string) TradingPair {
	return TradingPair{Base: base, Quote: quote, Key: base + "_" + quote}
}

// Registry is the process-wide token catalog. Safe for concurrent use:
// GetToken may be called from a reporting path outside the engine's
// serialized mailbox even though CreateToken is an administrative,
// out-of-band operation.
type Registry struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

// NewRegistry returns an empty token registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[string]Token)}
}

// CreateToken registers a new token. Fails with ErrAlreadyExists if the
// symbol is already present.
func (r *Registry) CreateToken(symbol, name string, decimals uint8, totalSupply domain.Decimal) (Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[symbol]; exists {
		return Token{}, ErrAlreadyExists
	}

	t := Token{
		Symbol:      symbol,
		Name:        name,
		Decimals:    decimals,
		TotalSupply: totalSupply,
	}
	r.tokens[symbol] = t
	return t, nil
}

// GetToken looks up a token by symbol. The bool is false if absent.
func (r *Registry) GetToken(symbol string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[symbol]
	return t, ok
}
