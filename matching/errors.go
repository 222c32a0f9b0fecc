package matching

import (
	"errors"

	"github.com/satyam455/cex/balance"
	"github.com/satyam455/cex/domain"
)

var (
	errInvalidFormat     = domain.ErrInvalidFormat
	errInsufficientFunds = balance.ErrInsufficientFunds
)

// Error kinds surfaced by the engine coordinator. Each is a sentinel so
// callers can match with errors.Is; none of them leave the engine in a
// partially-mutated state — any reservation taken on the entry path is
// refunded before an error reply is returned.
var (
	ErrInvalidPrice    = errors.New("invalid price: must be > 0")
	ErrInvalidQuantity = errors.New("invalid quantity: must be > 0")
	ErrMarketNotFound  = errors.New("market not found")
	ErrMarketInactive  = errors.New("market inactive")
	ErrOrderNotFound   = errors.New("order not found")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrMailboxFull     = errors.New("mailbox full")
	ErrMailboxClosed   = errors.New("mailbox closed")
)

// HTTPStatus maps a core error to the status code an HTTP collaborator
// should reply with. The engine itself never calls this; it exists as the
// single source of truth for that mapping so a transport layer doesn't have
// to re-derive it.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return 200
	case errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, errInvalidFormat):
		return 400
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrMarketNotFound):
		return 404
	case errors.Is(err, ErrNotAuthorized):
		return 403
	case errors.Is(err, ErrMarketInactive),
		errors.Is(err, errInsufficientFunds):
		return 409
	case errors.Is(err, ErrMailboxFull), errors.Is(err, ErrMailboxClosed):
		return 500
	default:
		return 500
	}
}
