package broadcast

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	c1 := NewClient(hub, &websocket.Conn{}, 4)
	c2 := NewClient(hub, &websocket.Conn{}, 4)
	hub.Register(c1)
	hub.Register(c2)

	if err := hub.Broadcast(EventMessage{Symbol: "BTC-USD", Type: "TRADE"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			if len(msg) == 0 {
				t.Fatalf("expected non-empty marshalled message")
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("client did not receive broadcast")
		}
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, &websocket.Conn{}, 4)
	hub.Register(c)
	hub.Unregister(c)

	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatalf("expected send channel to be closed")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("send channel was not closed")
	}

	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unregister, got %d", hub.ClientCount())
	}
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, &websocket.Conn{}, 4)
	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c) // must not panic on double-close
}

func TestHubSkipsFullClientBuffer(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, &websocket.Conn{}, 1)
	hub.Register(c)

	if err := hub.Broadcast(EventMessage{Type: "TRADE"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Buffer is now full (size 1); a second broadcast must not block.
	done := make(chan struct{})
	go func() {
		hub.Broadcast(EventMessage{Type: "TRADE"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("broadcast blocked on a full client buffer")
	}
}
