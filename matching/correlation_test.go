package matching

import "testing"

func TestCorrelationIDGeneratorProducesDistinctSequentialIDs(t *testing.T) {
	g := newCorrelationIDGenerator("req")

	first := g.Next()
	second := g.Next()

	if first == second {
		t.Fatal("expected successive ids to differ")
	}
	if first != "req1" || second != "req2" {
		t.Fatalf("expected req1, req2; got %s, %s", first, second)
	}
}
