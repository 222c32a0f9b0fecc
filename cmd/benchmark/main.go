package main

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/satyam455/cex/config"
	"github.com/satyam455/cex/domain"
	"github.com/satyam455/cex/matching"
	"github.com/satyam455/cex/token"
)

const market = "TAN_KAN"

func main() {
	fmt.Println("=== matching engine throughput benchmark ===")

	cfg := config.Default()
	eng := matching.New(matching.WithMailboxCapacity(cfg.Mailbox.Capacity))

	ctx, cancel := context.WithCancel(context.Background())
	go eng.Run(ctx)
	defer cancel()

	seedMarket(eng)

	testDuration := 5 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 1
	if numWorkers < 1 {
		numWorkers = 1
	}

	var (
		orderCount  atomic.Int64
		rejectCount atomic.Int64
	)

	fmt.Printf("CPUs: %d, producers: %d, duration: %v\n\n", numCPU, numWorkers, testDuration)

	startTime := time.Now()
	stop := make(chan struct{})

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			userID := fmt.Sprintf("bench-user-%d", workerID)
			eng.Balances.Initialize(userID, "KAN", mustDecimal("1000000000"))
			eng.Balances.Initialize(userID, "TAN", mustDecimal("1000000000"))

			n := 0
			for {
				select {
				case <-stop:
					return
				default:
				}

				var side string
				price := 50000 + n%200
				if n%2 == 0 {
					side = "Buy"
				} else {
					side = "Sell"
				}

				_, err := eng.CreateOrder(matching.CreateOrderRequest{
					UserID:   userID,
					Market:   market,
					Side:     side,
					Price:    fmt.Sprintf("%d", price),
					Quantity: "1",
				})
				if err != nil {
					rejectCount.Add(1)
				} else {
					orderCount.Add(1)
				}
				n++
			}
		}(w)
	}

	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for range ticker.C {
			elapsed := time.Since(startTime)
			orders := orderCount.Load()
			qps := float64(orders) / elapsed.Seconds()
			fmt.Printf("[%.0fs] accepted: %d (%.0f/s) rejected: %d\n",
				elapsed.Seconds(), orders, qps, rejectCount.Load())
		}
	}()

	time.Sleep(testDuration)
	close(stop)
	ticker.Stop()

	elapsed := time.Since(startTime)
	totalOrders := orderCount.Load()
	qps := float64(totalOrders) / elapsed.Seconds()

	fmt.Println("\n=== results ===")
	fmt.Printf("duration:        %v\n", elapsed)
	fmt.Printf("accepted orders: %d\n", totalOrders)
	fmt.Printf("rejected orders: %d\n", rejectCount.Load())
	fmt.Printf("throughput:      %.0f orders/sec\n", qps)

	depth, err := eng.GetDepth(matching.GetDepthRequest{Market: market})
	if err != nil {
		fmt.Printf("depth snapshot failed: %v\n", err)
		return
	}
	fmt.Println("\nbid depth (top 5):")
	for i, l := range depth.Bids {
		if i >= 5 {
			break
		}
		fmt.Printf("  %d. price=%s qty=%s\n", i+1, l.Price, l.Quantity)
	}
	fmt.Println("ask depth (top 5):")
	for i, l := range depth.Asks {
		if i >= 5 {
			break
		}
		fmt.Printf("  %d. price=%s qty=%s\n", i+1, l.Price, l.Quantity)
	}
}

func seedMarket(eng *matching.Engine) {
	if _, err := eng.Tokens.CreateToken("TAN", "Tangerine", 6, mustDecimal("10000000000")); err != nil {
		panic(err)
	}
	if _, err := eng.Tokens.CreateToken("KAN", "Kandela", 6, mustDecimal("10000000000")); err != nil {
		panic(err)
	}
	pair := token.NewTradingPair("TAN", "KAN")
	if _, err := eng.Markets.Create(pair); err != nil {
		panic(err)
	}
	eng.Markets.SetActive(pair.Key, true)
}

func mustDecimal(s string) domain.Decimal {
	d, err := domain.ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}
