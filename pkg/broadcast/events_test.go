package broadcast

import (
	"testing"

	"lob/pkg/lob"
)

func TestToEventMessageTradeMapsFields(t *testing.T) {
	ev := lob.Event{Type: lob.EventTrade, TS: 42}
	msg := ToEventMessage("BTC-USD", ev)

	if msg.Symbol != "BTC-USD" {
		t.Errorf("expected symbol BTC-USD, got %s", msg.Symbol)
	}
	if msg.Type != "TRADE" {
		t.Errorf("expected type TRADE, got %s", msg.Type)
	}
	if msg.TS != 42 {
		t.Errorf("expected ts 42, got %d", msg.TS)
	}
}

func TestToEventMessageCoversEveryEventType(t *testing.T) {
	types := []lob.EventType{
		lob.EventTrade, lob.EventAccept, lob.EventReject,
		lob.EventCancel, lob.EventReplace, lob.EventBookTop,
	}
	for _, et := range types {
		msg := ToEventMessage("SYM", lob.Event{Type: et})
		if msg.Type == "" {
			t.Errorf("event type %d has no wire representation", et)
		}
	}
}
