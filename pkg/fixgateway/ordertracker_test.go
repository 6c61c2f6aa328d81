package fixgateway

import (
	"testing"

	"github.com/quickfixgo/quickfix"

	"lob/pkg/lob"
)

func TestOrderTrackerAddAndLookup(t *testing.T) {
	tr := newOrderTracker()
	sessionID := quickfix.SessionID{TargetCompID: "TARGET", SenderCompID: "SENDER"}

	tr.add(1, trackedOrder{sessionID: sessionID, clOrdID: "CL-1", symbol: "BTC-USD", side: lob.Buy})

	info, ok := tr.get(1)
	if !ok {
		t.Fatalf("expected order 1 to be tracked")
	}
	if info.clOrdID != "CL-1" || info.symbol != "BTC-USD" {
		t.Fatalf("unexpected tracked order: %+v", info)
	}

	id, ok := tr.byClOrdID("CL-1")
	if !ok || id != 1 {
		t.Fatalf("expected CL-1 to resolve to order 1, got %d ok=%v", id, ok)
	}
}

func TestOrderTrackerRemoveClearsBothIndexes(t *testing.T) {
	tr := newOrderTracker()
	sessionID := quickfix.SessionID{TargetCompID: "TARGET", SenderCompID: "SENDER"}
	tr.add(7, trackedOrder{sessionID: sessionID, clOrdID: "CL-7", symbol: "ETH-USD", side: lob.Sell})

	tr.remove(7)

	if _, ok := tr.get(7); ok {
		t.Fatalf("expected order 7 to be gone after remove")
	}
	if _, ok := tr.byClOrdID("CL-7"); ok {
		t.Fatalf("expected CL-7 to be gone after remove")
	}
}

func TestOrderTrackerUpdateClOrdIDRekeysLookup(t *testing.T) {
	tr := newOrderTracker()
	sessionID := quickfix.SessionID{TargetCompID: "TARGET", SenderCompID: "SENDER"}
	tr.add(3, trackedOrder{sessionID: sessionID, clOrdID: "CL-3", symbol: "BTC-USD", side: lob.Buy})

	tr.updateClOrdID(3, "CL-3-R1")

	if _, ok := tr.byClOrdID("CL-3"); ok {
		t.Fatalf("expected old ClOrdID CL-3 to no longer resolve")
	}
	id, ok := tr.byClOrdID("CL-3-R1")
	if !ok || id != 3 {
		t.Fatalf("expected CL-3-R1 to resolve to order 3, got %d ok=%v", id, ok)
	}
	info, ok := tr.get(3)
	if !ok || info.clOrdID != "CL-3-R1" {
		t.Fatalf("expected tracked order to carry updated clOrdID, got %+v", info)
	}
}

func TestOrderTrackerUnknownLookupsFail(t *testing.T) {
	tr := newOrderTracker()
	if _, ok := tr.get(999); ok {
		t.Fatalf("expected unknown order ID to miss")
	}
	if _, ok := tr.byClOrdID("nope"); ok {
		t.Fatalf("expected unknown ClOrdID to miss")
	}
}
