package market

import (
	"errors"
	"testing"

	"github.com/satyam455/cex/token"
)

func TestCreateMarketDefaultsActive(t *testing.T) {
	r := NewRegistry()
	m, err := r.Create(token.NewTradingPair("TAN", "KAN"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !m.IsActive {
		t.Fatal("expected a newly created market to be active")
	}
}

func TestCreateMarketRejectsDuplicateKey(t *testing.T) {
	r := NewRegistry()
	pair := token.NewTradingPair("TAN", "KAN")
	if _, err := r.Create(pair); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := r.Create(pair)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSetActiveUnknownKeyReturnsFalse(t *testing.T) {
	r := NewRegistry()
	if r.SetActive("NOPE_NOPE", false) {
		t.Fatal("expected SetActive to report false for an unknown market")
	}
}

func TestKeysListsEveryMarket(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(token.NewTradingPair("TAN", "KAN")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.Create(token.NewTradingPair("ADI", "TAN")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := r.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(keys), keys)
	}
}
