package token

import (
	"errors"
	"testing"

	"github.com/satyam455/cex/domain"
)

func dec(t *testing.T, s string) domain.Decimal {
	t.Helper()
	d, err := domain.ParseDecimal(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNewTradingPairKey(t *testing.T) {
	p := NewTradingPair("TAN", "KAN")
	if p.Key != "TAN_KAN" {
		t.Fatalf("expected key TAN_KAN, got %s", p.Key)
	}
}

func TestCreateTokenRejectsDuplicateSymbol(t *testing.T) {
	r := NewRegistry()
	if _, err := r.CreateToken("TAN", "Tangerine", 6, dec(t, "1000")); err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	_, err := r.CreateToken("TAN", "Tangerine Duplicate", 6, dec(t, "1"))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetTokenUnknownSymbol(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.GetToken("NOPE"); ok {
		t.Fatal("expected GetToken to report absent for an unknown symbol")
	}
}
