// Command demo boots a single engine instance, seeds it with demo tokens,
// trading pairs and market-maker balances, and runs a few orders through it
// end to end. It is a walkthrough, not a server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/satyam455/cex/config"
	"github.com/satyam455/cex/domain"
	"github.com/satyam455/cex/matching"
	"github.com/satyam455/cex/token"
)

// seedPair is one demo trading pair and the market-maker liquidity it starts
// with, mirroring the reference implementation's bootstrap: 10k TAN against
// 50k KAN, 5k ADI against 10k TAN, and so on.
type seedPair struct {
	base, quote           string
	baseSupply            string
	quoteSupply           string
	makerBase, makerQuote string
}

var seedPairs = []seedPair{
	{"TAN", "KAN", "10000000", "50000000", "10000", "50000"},
	{"ADI", "TAN", "5000000", "10000000", "5000", "10000"},
	{"PRA", "KAN", "3000000", "9000000", "3000", "9000"},
	{"RAC", "SAT", "2000000", "8000000", "2000", "8000"},
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	var logOut io.Writer = os.Stderr
	if cfg.Logging.Pretty {
		logOut = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	logger := zerolog.New(logOut).Level(level).With().Timestamp().Str("component", "engine").Logger()

	eng := matching.New(matching.WithMailboxCapacity(cfg.Mailbox.Capacity), matching.WithLogger(logger))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	if cfg.Seed.Enabled {
		bootstrap(eng, cfg.Seed.MarketMakerID)
	}

	fmt.Println("seeded markets:", eng.Markets.Keys())

	reply, err := eng.CreateOrder(matching.CreateOrderRequest{
		UserID:   cfg.Seed.MarketMakerID,
		Market:   "TAN_KAN",
		Side:     "Sell",
		Price:    "5",
		Quantity: "100",
	})
	must(err)
	fmt.Printf("resting sell order accepted: %s\n", reply.OrderID)

	eng.Balances.Initialize("trader-1", "KAN", mustDecimal("1000"))
	reply, err = eng.CreateOrder(matching.CreateOrderRequest{
		UserID:   "trader-1",
		Market:   "TAN_KAN",
		Side:     "Buy",
		Price:    "5",
		Quantity: "40",
	})
	must(err)
	fmt.Printf("crossing buy order accepted: %s\n", reply.OrderID)

	depth, err := eng.GetDepth(matching.GetDepthRequest{Market: "TAN_KAN"})
	must(err)
	fmt.Println("\nTAN_KAN depth after the cross:")
	for _, l := range depth.Asks {
		fmt.Printf("  ask %s @ %s\n", l.Quantity, l.Price)
	}
	for _, l := range depth.Bids {
		fmt.Printf("  bid %s @ %s\n", l.Quantity, l.Price)
	}

	fmt.Printf("\ntrader-1 TAN balance: %s\n", eng.Balances.Get("trader-1", "TAN").String())
	fmt.Printf("trader-1 KAN balance: %s\n", eng.Balances.Get("trader-1", "KAN").String())

	time.Sleep(10 * time.Millisecond) // let the log writer flush
}

func bootstrap(eng *matching.Engine, marketMakerID string) {
	for _, sp := range seedPairs {
		createToken(eng, sp.base, mustDecimal(sp.baseSupply))
		createToken(eng, sp.quote, mustDecimal(sp.quoteSupply))

		pair := token.NewTradingPair(sp.base, sp.quote)
		if _, err := eng.Markets.Create(pair); err != nil {
			panic(err)
		}
		eng.Markets.SetActive(pair.Key, true)

		eng.Balances.Credit(marketMakerID, sp.base, mustDecimal(sp.makerBase))
		eng.Balances.Credit(marketMakerID, sp.quote, mustDecimal(sp.makerQuote))
	}
}

func createToken(eng *matching.Engine, symbol string, supply domain.Decimal) {
	if _, err := eng.Tokens.CreateToken(symbol, symbol, 6, supply); err != nil && !errors.Is(err, token.ErrAlreadyExists) {
		panic(err)
	}
}

func mustDecimal(s string) domain.Decimal {
	d, err := domain.ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
