package lob

import "testing"

func mustAdd(t *testing.T, b *LimitBook, order Order) []Event {
	trades, _, ok, reason := b.Add(order)
	if !ok {
		t.Fatalf("Add(%+v) rejected, reason=%d", order, reason)
	}
	return trades
}

func TestSimpleMatch(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 99, Qty: 10, Type: Limit})
	trades := mustAdd(t, b, Order{ID: 2, Side: Buy, Price: 100, Qty: 10, Type: Limit})

	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	trade := trades[0]
	if trade.TakerID != 2 || trade.MakerID != 1 {
		t.Errorf("incorrect order ids in trade: %+v", trade)
	}
	if trade.Qty != 10 || trade.Price != 99 {
		t.Errorf("incorrect qty/price: %+v", trade)
	}
}

func TestNoMatchDueToPrice(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 100, Qty: 10, Type: Limit})
	trades := mustAdd(t, b, Order{ID: 2, Side: Buy, Price: 98, Qty: 10, Type: Limit})

	if len(trades) != 0 {
		t.Fatalf("expected no match, got %d", len(trades))
	}
	if b.TotalOrders() != 2 {
		t.Fatalf("expected both orders resting, got %d", b.TotalOrders())
	}
}

func TestPartialMatch(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 100, Qty: 5, Type: Limit})
	trades := mustAdd(t, b, Order{ID: 2, Side: Buy, Price: 101, Qty: 10, Type: Limit})

	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Qty != 5 {
		t.Errorf("expected matched qty 5, got %d", trades[0].Qty)
	}

	bestBid, bidQty, _, _ := b.bestBidAsk()
	if bestBid != 101 || bidQty != 5 {
		t.Errorf("expected remaining resting bid 5@101, got %d@%d", bidQty, bestBid)
	}
}

func TestFIFOWithinPriceLevel(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 100, Qty: 5, Type: Limit})
	mustAdd(t, b, Order{ID: 2, Side: Sell, Price: 100, Qty: 5, Type: Limit})
	trades := mustAdd(t, b, Order{ID: 3, Side: Buy, Price: 100, Qty: 7, Type: Limit})

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].MakerID != 1 || trades[0].Qty != 5 {
		t.Errorf("first fill should exhaust the earlier resting order: %+v", trades[0])
	}
	if trades[1].MakerID != 2 || trades[1].Qty != 2 {
		t.Errorf("second fill should partially consume the later resting order: %+v", trades[1])
	}
}

func TestPriceImprovementOverTime(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 101, Qty: 5, Type: Limit})
	mustAdd(t, b, Order{ID: 2, Side: Sell, Price: 100, Qty: 5, Type: Limit})
	trades := mustAdd(t, b, Order{ID: 3, Side: Buy, Price: 101, Qty: 5, Type: Limit})

	if len(trades) != 1 || trades[0].MakerID != 2 {
		t.Fatalf("expected best-priced maker (id=2) to fill first, got %+v", trades)
	}
}

func TestMarketOrderSweepsRegardlessOfPrice(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 500, Qty: 3, Type: Limit})
	trades := mustAdd(t, b, Order{ID: 2, Side: Buy, Qty: 3, Type: Market})

	if len(trades) != 1 || trades[0].Price != 500 {
		t.Fatalf("market order should fill at resting price: %+v", trades)
	}
	if b.TotalOrders() != 0 {
		t.Fatalf("market order must never rest")
	}
}

func TestMarketOrderRemainderDiscardedWhenBookExhausted(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 500, Qty: 3, Type: Limit})
	trades := mustAdd(t, b, Order{ID: 2, Side: Buy, Qty: 10, Type: Market})

	if len(trades) != 1 || trades[0].Qty != 3 {
		t.Fatalf("expected partial fill of 3, got %+v", trades)
	}
	if b.TotalOrders() != 0 {
		t.Fatalf("market remainder must not rest, got %d resting orders", b.TotalOrders())
	}
}

func TestIOCRestsNothing(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 100, Qty: 3, Type: Limit})
	trades := mustAdd(t, b, Order{ID: 2, Side: Buy, Price: 100, Qty: 10, Type: IOC})

	if len(trades) != 1 || trades[0].Qty != 3 {
		t.Fatalf("expected partial IOC fill of 3, got %+v", trades)
	}
	if b.TotalOrders() != 0 {
		t.Fatalf("IOC remainder must never rest, got %d resting orders", b.TotalOrders())
	}
}

func TestFOKRejectedWhenInsufficientLiquidity(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 100, Qty: 3, Type: Limit})
	_, _, ok, reason := b.Add(Order{ID: 2, Side: Buy, Price: 100, Qty: 10, Type: FOK})

	if ok {
		t.Fatalf("expected FOK to be rejected")
	}
	if reason != ReasonFOKInsufficientLiquidity {
		t.Errorf("expected ReasonFOKInsufficientLiquidity, got %d", reason)
	}
	if b.TotalOrders() != 1 {
		t.Fatalf("rejected FOK must not mutate book state, got %d resting orders", b.TotalOrders())
	}
}

func TestFOKFillsInFullAcrossMultipleLevels(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 100, Qty: 3, Type: Limit})
	mustAdd(t, b, Order{ID: 2, Side: Sell, Price: 101, Qty: 7, Type: Limit})

	trades := mustAdd(t, b, Order{ID: 3, Side: Buy, Price: 101, Qty: 10, Type: FOK})
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades filling the FOK in full, got %d", len(trades))
	}
	if b.TotalOrders() != 0 {
		t.Fatalf("fully filled FOK must not rest, got %d resting orders", b.TotalOrders())
	}
}

func TestDuplicateOrderIDRejected(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Buy, Price: 100, Qty: 5, Type: Limit})
	_, _, ok, reason := b.Add(Order{ID: 1, Side: Buy, Price: 100, Qty: 5, Type: Limit})

	if ok {
		t.Fatalf("expected duplicate order id to be rejected")
	}
	if reason != ReasonDuplicateOrderID {
		t.Errorf("expected ReasonDuplicateOrderID, got %d", reason)
	}
}

func TestCancelRemovesRestingOrder(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))
	mustAdd(t, b, Order{ID: 1, Side: Buy, Price: 100, Qty: 10, Type: Limit})

	ev, ok := b.Cancel(1)
	if !ok {
		t.Fatalf("expected cancel success")
	}
	if ev.RemainingQty != 10 {
		t.Errorf("expected cancel to report remaining qty 10, got %d", ev.RemainingQty)
	}
	if b.TotalOrders() != 0 {
		t.Fatalf("order should be removed from the book")
	}
	if _, ok := b.Cancel(1); ok {
		t.Fatalf("cancelling an already-cancelled order must fail")
	}
}

func TestCancelUnknownOrderFails(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))
	if _, ok := b.Cancel(999); ok {
		t.Fatalf("expected cancel of unknown id to fail")
	}
}

func TestReplaceForfeitsTimePriority(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Buy, Price: 100, Qty: 5, Type: Limit})
	mustAdd(t, b, Order{ID: 2, Side: Buy, Price: 100, Qty: 5, Type: Limit})

	// id=1 replaces at the same price: it must forfeit its head-of-queue
	// position to id=2, which arrived second but was never replaced.
	_, _, ok, _ := b.Replace(1, 100, 5)
	if !ok {
		t.Fatalf("expected replace success")
	}

	trades := mustAdd(t, b, Order{ID: 3, Side: Sell, Price: 100, Qty: 5, Type: Limit})
	if len(trades) != 1 || trades[0].MakerID != 2 {
		t.Fatalf("expected id=2 to retain priority over replaced id=1, got %+v", trades)
	}
}

func TestReplaceCanImmediatelyCross(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 105, Qty: 5, Type: Limit})
	mustAdd(t, b, Order{ID: 2, Side: Buy, Price: 100, Qty: 5, Type: Limit})

	_, trades, ok, _ := b.Replace(2, 105, 5)
	if !ok {
		t.Fatalf("expected replace success")
	}
	if len(trades) != 1 || trades[0].Price != 105 {
		t.Fatalf("expected replaced order to cross at the new price, got %+v", trades)
	}
}

func TestReplaceUnknownOrderFails(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))
	_, _, ok, _ := b.Replace(999, 100, 5)
	if ok {
		t.Fatalf("expected replace of unknown id to fail")
	}
}

func TestEmptyLevelRemovedAfterFullFill(t *testing.T) {
	b := NewLimitBook(NewSimulatedTimeSource(0))

	mustAdd(t, b, Order{ID: 1, Side: Sell, Price: 100, Qty: 5, Type: Limit})
	mustAdd(t, b, Order{ID: 2, Side: Buy, Price: 100, Qty: 5, Type: Limit})

	bestBid, _, bestAsk, _ := b.bestBidAsk()
	if bestBid.Valid() || bestAsk.Valid() {
		t.Fatalf("fully-filled level should leave no trace in the book, got bid=%v ask=%v", bestBid, bestAsk)
	}
}
