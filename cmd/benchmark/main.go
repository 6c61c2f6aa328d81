package main

import (
	"fmt"
	"math/rand"
	"time"

	"lob/pkg/lob"
)

const (
	numOrders = 1_000_000
	minPrice  = 10_000
	maxPrice  = 20_000
	minQty    = 1
	maxQty    = 100
)

func randomOrder(id int) lob.Order {
	side := lob.Buy
	if rand.Intn(2) == 0 {
		side = lob.Sell
	}
	price := lob.Price(minPrice + rand.Intn(maxPrice-minPrice))
	qty := uint64(rand.Intn(maxQty-minQty+1) + minQty)

	return lob.Order{
		ID:    lob.OrderID(id),
		Side:  side,
		Price: price,
		Qty:   qty,
		Type:  lob.Limit,
	}
}

func main() {
	rand.Seed(time.Now().UnixNano())

	cfg := lob.DefaultEngineConfig()
	cfg.RingSize = 1 << 16
	engine := lob.NewMatchingEngine(cfg, nil)

	totalTrades := 0
	totalQty := uint64(0)
	totalDropped := uint64(0)

	events := make([]lob.Event, 0, 1024)
	start := time.Now()
	for i := 1; i <= numOrders; i++ {
		engine.Submit(randomOrder(i))
		if i%4096 == 0 {
			events, _ = engine.PollEvents(events[:0])
			for _, ev := range events {
				if ev.Type == lob.EventTrade {
					totalTrades++
					totalQty += ev.Qty
				}
			}
		}
	}
	events, _ = engine.PollEvents(events[:0])
	for _, ev := range events {
		if ev.Type == lob.EventTrade {
			totalTrades++
			totalQty += ev.Qty
		}
	}
	totalDropped = engine.DroppedEvents()

	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("total orders     : %d\n", numOrders)
	fmt.Printf("total trades      : %d\n", totalTrades)
	fmt.Printf("total matched qty : %d\n", totalQty)
	fmt.Printf("dropped events    : %d\n", totalDropped)
	fmt.Printf("time taken        : %s\n", elapsed)
	fmt.Printf("orders/sec        : %.0f\n", float64(numOrders)/elapsed.Seconds())
}
