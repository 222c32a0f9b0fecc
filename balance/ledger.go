// Package balance implements the per-user, per-token balance ledger: a
// single debit/credit primitive pair. A "reservation" is just a debit whose
// matching credit is deferred to cancellation or fill settlement — the
// ledger itself has no notion of holds.
package balance

import (
	"errors"
	"sync"

	"github.com/satyam455/cex/domain"
)

// ErrInsufficientFunds is returned by Debit when the current balance is
// below the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger maps user -> token symbol -> balance. A balance is never negative.
//
// Guarded by a single mutex rather than per-user locks: the engine
// coordinator already serializes every mutating call through its own
// single-threaded mailbox, so the mutex here exists to make Ledger safe to
// exercise standalone in tests, not as the primary correctness mechanism.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]map[string]domain.Decimal
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]map[string]domain.Decimal)}
}

// Get returns the user's balance for token, or zero if absent.
func (l *Ledger) Get(user, token string) domain.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(user, token)
}

func (l *Ledger) get(user, token string) domain.Decimal {
	byToken, ok := l.balances[user]
	if !ok {
		return domain.Zero
	}
	bal, ok := byToken[token]
	if !ok {
		return domain.Zero
	}
	return bal
}

// HasAtLeast reports whether the user's balance for token is >= amount.
func (l *Ledger) HasAtLeast(user, token string, amount domain.Decimal) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(user, token).GreaterThanOrEqual(amount)
}

// Debit subtracts amount from the user's balance for token, failing with
// ErrInsufficientFunds (and leaving the balance untouched) if the current
// balance is below amount.
func (l *Ledger) Debit(user, token string, amount domain.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.get(user, token)
	if current.LessThan(amount) {
		return ErrInsufficientFunds
	}
	l.set(user, token, current.Sub(amount))
	return nil
}

// Credit adds amount to the user's balance for token. Never fails for a
// non-negative amount.
func (l *Ledger) Credit(user, token string, amount domain.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.set(user, token, l.get(user, token).Add(amount))
}

// Initialize sets a user's balance for token outright, used for bootstrap
// seeding (e.g. market-maker or demo balances). It does not accumulate.
func (l *Ledger) Initialize(user, token string, amount domain.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.set(user, token, amount)
}

func (l *Ledger) set(user, token string, amount domain.Decimal) {
	byToken, ok := l.balances[user]
	if !ok {
		byToken = make(map[string]domain.Decimal)
		l.balances[user] = byToken
	}
	byToken[token] = amount
}
