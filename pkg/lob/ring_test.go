package lob

import "testing"

func TestRingPushPopOrder(t *testing.T) {
	r := newEventRing(4)

	for i := uint64(0); i < 3; i++ {
		if !r.push(acceptEvent(OrderID(i), i)) {
			t.Fatalf("push %d should succeed", i)
		}
	}

	for i := uint64(0); i < 3; i++ {
		ev, ok := r.pop()
		if !ok {
			t.Fatalf("pop %d should succeed", i)
		}
		if ev.OrderID != OrderID(i) {
			t.Errorf("expected FIFO order, got id=%d at position %d", ev.OrderID, i)
		}
	}

	if _, ok := r.pop(); ok {
		t.Fatalf("pop on empty ring should fail")
	}
}

func TestRingCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	r := newEventRing(10)
	if r.capacity() != 16 {
		t.Fatalf("expected capacity 16, got %d", r.capacity())
	}
}

func TestRingDropsOnOverflow(t *testing.T) {
	r := newEventRing(2) // usable capacity 1: one slot always reserved

	if !r.push(acceptEvent(1, 0)) {
		t.Fatalf("first push should succeed")
	}
	if r.push(acceptEvent(2, 0)) {
		t.Fatalf("push into a full ring should fail")
	}
}

func TestRingDrainIntoEmptyIsNoop(t *testing.T) {
	r := newEventRing(4)
	out, drained := r.drainInto(nil)
	if drained || len(out) != 0 {
		t.Fatalf("draining an empty ring must report nothing drained")
	}
}

func TestRingDrainIntoGathersEverything(t *testing.T) {
	r := newEventRing(8)
	r.push(acceptEvent(1, 0))
	r.push(acceptEvent(2, 0))

	out, drained := r.drainInto(nil)
	if !drained || len(out) != 2 {
		t.Fatalf("expected 2 drained events, got %d (drained=%v)", len(out), drained)
	}
}
