package broadcast

import (
	"testing"

	"lob/pkg/lob"
	"lob/pkg/multisymbol"
)

func newTestConsumer(t *testing.T) (*OrderConsumer, *multisymbol.Registry) {
	t.Helper()
	cfg := lob.DefaultEngineConfig()
	cfg.RingSize = 64
	registry := multisymbol.NewRegistry(cfg, lob.NewSimulatedTimeSource(0))
	registry.AddSymbol("BTC-USD", nil)

	c := &OrderConsumer{registry: registry}
	return c, registry
}

func TestApplySubmitDispatchesToRegistry(t *testing.T) {
	c, registry := newTestConsumer(t)

	msg := `{"symbol":"BTC-USD","action":"ADD","order_id":1,"side":"BUY","price":10000,"qty":5,"order_type":"LIMIT"}`
	if !c.apply([]byte(msg)) {
		t.Fatalf("expected apply to succeed")
	}

	bestBid, bidQty, _, _, ok := registry.BestBidAsk("BTC-USD")
	if !ok || bestBid != 10000 || bidQty != 5 {
		t.Fatalf("expected resting bid 5@10000, got ok=%v %d@%d", ok, bidQty, bestBid)
	}
}

func TestApplyCancelDispatchesToRegistry(t *testing.T) {
	c, registry := newTestConsumer(t)
	registry.Submit("BTC-USD", lob.Order{ID: 1, Side: lob.Buy, Price: 100, Qty: 5, Type: lob.Limit})

	msg := `{"symbol":"BTC-USD","action":"CANCEL","order_id":1}`
	if !c.apply([]byte(msg)) {
		t.Fatalf("expected cancel to succeed")
	}
	engine, _ := registry.Engine("BTC-USD")
	if engine.TotalOrders() != 0 {
		t.Fatalf("expected order removed, got %d resting", engine.TotalOrders())
	}
}

func TestApplyUnknownActionFails(t *testing.T) {
	c, _ := newTestConsumer(t)
	if c.apply([]byte(`{"symbol":"BTC-USD","action":"NOPE"}`)) {
		t.Fatalf("expected unknown action to fail")
	}
}

func TestApplyMalformedJSONFails(t *testing.T) {
	c, _ := newTestConsumer(t)
	if c.apply([]byte(`not json`)) {
		t.Fatalf("expected malformed payload to fail")
	}
}
