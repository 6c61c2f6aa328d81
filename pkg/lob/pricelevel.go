package lob

import "github.com/gammazero/deque"

// priceLevel is a FIFO queue of resting orders at one price. totalQty is
// the sole authoritative aggregate and is kept in sync with every mutation
// rather than recomputed by scanning the queue.
type priceLevel struct {
	price    Price
	orders   deque.Deque[*bookOrder]
	totalQty uint64
}

func newPriceLevel(price Price) *priceLevel {
	return &priceLevel{price: price}
}

// addOrder appends to the tail (time priority = arrival order).
func (l *priceLevel) addOrder(o *bookOrder) {
	l.orders.PushBack(o)
	l.totalQty += o.remainingQty
}

// front returns the head order without removing it, or nil if empty.
func (l *priceLevel) front() *bookOrder {
	if l.orders.Len() == 0 {
		return nil
	}
	return l.orders.Front()
}

// popFront removes and returns the head order.
func (l *priceLevel) popFront() *bookOrder {
	if l.orders.Len() == 0 {
		return nil
	}
	o := l.orders.PopFront()
	l.totalQty -= o.remainingQty
	return o
}

// updateFrontQty sets the head order's remaining quantity, keeping
// totalQty in sync. Used after a partial fill of the maker.
func (l *priceLevel) updateFrontQty(newQty uint64) {
	if l.orders.Len() == 0 {
		return
	}
	front := l.orders.Front()
	l.totalQty = l.totalQty - front.remainingQty + newQty
	front.remainingQty = newQty
}

// removeByID finds and removes an order anywhere in the level (not just the
// head) via linear scan, returning the removed quantity. This is O(k) in
// the level's size; deliberate, since non-head cancels are rare relative to
// head fills under price-time priority.
func (l *priceLevel) removeByID(id OrderID) (removedQty uint64, ok bool) {
	n := l.orders.Len()
	for i := 0; i < n; i++ {
		o := l.orders.At(i)
		if o.order.ID == id {
			l.orders.Remove(i)
			l.totalQty -= o.remainingQty
			return o.remainingQty, true
		}
	}
	return 0, false
}

// findByID locates an order without removing it (used by replace).
func (l *priceLevel) findByID(id OrderID) *bookOrder {
	n := l.orders.Len()
	for i := 0; i < n; i++ {
		if o := l.orders.At(i); o.order.ID == id {
			return o
		}
	}
	return nil
}

func (l *priceLevel) empty() bool {
	return l.orders.Len() == 0
}

func (l *priceLevel) size() int {
	return l.orders.Len()
}
