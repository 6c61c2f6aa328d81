package benchmarkpool

import (
	"testing"

	"lob/pkg/lob"
)

// These benchmarks compare allocating a fresh lob.Order per submission
// against reusing values out of a simple slice-backed free list, the same shape of question
// this codebase asks about its hottest structs on the FIX ingestion path.

var orderPool = &poolOf[lob.Order]{}

type poolOf[T any] struct {
	items []*T
}

func (p *poolOf[T]) get() *T {
	if n := len(p.items); n > 0 {
		v := p.items[n-1]
		p.items = p.items[:n-1]
		return v
	}
	var zero T
	return &zero
}

func (p *poolOf[T]) put(v *T) {
	p.items = append(p.items, v)
}

func BenchmarkNewOrderAllocation(b *testing.B) {
	arr := make([]*lob.Order, 0, b.N)
	for i := 0; i < b.N; i++ {
		o := &lob.Order{ID: lob.OrderID(i), Side: lob.Buy, Price: 10000, Qty: 10, Type: lob.Limit}
		arr = append(arr, o)
		if len(arr) > 1024 {
			arr = arr[:0]
		}
	}
}

func BenchmarkPooledOrderReuse(b *testing.B) {
	arr := make([]*lob.Order, 0, b.N)
	for i := 0; i < b.N; i++ {
		o := orderPool.get()
		*o = lob.Order{ID: lob.OrderID(i), Side: lob.Buy, Price: 10000, Qty: 10, Type: lob.Limit}
		arr = append(arr, o)
		if len(arr) > 1024 {
			for _, v := range arr {
				orderPool.put(v)
			}
			arr = arr[:0]
		}
	}
}

func BenchmarkEngineSubmitThroughput(b *testing.B) {
	cfg := lob.DefaultEngineConfig()
	cfg.RingSize = 1 << 16
	engine := lob.NewMatchingEngine(cfg, lob.NewSimulatedTimeSource(0))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := lob.Buy
		if i%2 == 1 {
			side = lob.Sell
		}
		engine.Submit(lob.Order{ID: lob.OrderID(i + 1), Side: side, Price: lob.Price(10000 + i%50), Qty: 10, Type: lob.Limit})
	}
}
