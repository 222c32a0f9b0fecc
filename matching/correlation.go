package matching

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// correlationIDGenerator stamps a short, monotonically increasing id onto
// each CreateOrder the engine processes so the handful of log lines one
// CreateOrder produces (one line per fill + acceptance) can be grepped
// together.
//
// Trade identity is a UUID minted by domain.NewTradeID; this generator
// mints something lighter-weight for log correlation only.
type correlationIDGenerator struct {
	prefix      string
	counter     uint64
	builderPool sync.Pool
}

func newCorrelationIDGenerator(prefix string) *correlationIDGenerator {
	g := &correlationIDGenerator{prefix: prefix}
	g.builderPool = sync.Pool{
		New: func() any {
			b := &strings.Builder{}
			b.Grow(24)
			return b
		},
	}
	return g
}

// Next returns the next id, e.g. "req1", "req2", ...
func (g *correlationIDGenerator) Next() string {
	count := atomic.AddUint64(&g.counter, 1)

	b := g.builderPool.Get().(*strings.Builder)
	defer func() {
		b.Reset()
		g.builderPool.Put(b)
	}()

	b.WriteString(g.prefix)
	b.WriteString(strconv.FormatUint(count, 10))
	return b.String()
}
