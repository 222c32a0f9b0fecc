// Package domain holds the primitives every other package in the engine
// builds on: the fixed-point Decimal type, order/trade identifiers, sides,
// orders and fills. Nothing here is exchange-specific; it is vocabulary.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Decimal is an arbitrary-precision fixed-point number. Every price,
// quantity and balance in the engine is one of these; floating point never
// appears on that path. shopspring/decimal backs it with a scaled big.Int,
// giving exact equality and ordering with no epsilon comparisons.
type Decimal = decimal.Decimal

// ErrInvalidFormat is returned when a decimal-string crossing the request
// boundary cannot be parsed.
var ErrInvalidFormat = errors.New("invalid decimal format")

// Zero is the additive identity, handy for comparisons and zero-values.
var Zero = decimal.Zero

// Min returns the smaller of a and b.
func Min(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ParseDecimal parses a decimal string as it arrives from a request
// envelope (see matching/requests.go). Malformed input is reported as
// ErrInvalidFormat rather than the underlying parser error so callers can
// match on a single sentinel.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, ErrInvalidFormat
	}
	return d, nil
}
