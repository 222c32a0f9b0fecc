package matching

import (
	"errors"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 200},
		{"invalid price", ErrInvalidPrice, 400},
		{"invalid quantity", ErrInvalidQuantity, 400},
		{"invalid format", errInvalidFormat, 400},
		{"order not found", ErrOrderNotFound, 404},
		{"market not found", ErrMarketNotFound, 404},
		{"not authorized", ErrNotAuthorized, 403},
		{"market inactive", ErrMarketInactive, 409},
		{"insufficient funds", errInsufficientFunds, 409},
		{"mailbox full", ErrMailboxFull, 500},
		{"mailbox closed", ErrMailboxClosed, 500},
		{"unknown", errors.New("boom"), 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
