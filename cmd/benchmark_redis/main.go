package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lob/pkg/broadcast"
	"lob/pkg/lob"
)

func main() {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	stream := broadcast.NewStreamClient(client)

	const (
		totalOps = 10_000
		workers  = 10
	)
	opsPerWorker := totalOps / workers

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < opsPerWorker; i++ {
				msg := broadcast.ToEventMessage("BTC-USD", lob.Event{
					Type:    lob.EventTrade,
					TS:      uint64(time.Now().UnixNano()),
					TakerID: lob.OrderID(workerID*opsPerWorker + i),
					Price:   10000,
					Qty:     1,
				})
				if _, err := stream.PublishEvent(ctx, "BTC-USD", msg); err != nil {
					log.Printf("publish failed: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("published %d events in %s (%.0f events/sec)\n", totalOps, elapsed, float64(totalOps)/elapsed.Seconds())

	if err := stream.Trim(ctx, "BTC-USD", 10_000); err != nil {
		log.Printf("trim failed: %v", err)
	}
}
