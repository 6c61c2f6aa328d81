package fixgateway

import (
	"sync"

	"github.com/quickfixgo/quickfix"

	"lob/pkg/lob"
)

// trackedOrder remembers what a FIX session needs to build execution
// reports for an order the engine now knows only by lob.OrderID: the
// originating ClOrdID/session, and the symbol (to find the right engine
// and tick size again).
type trackedOrder struct {
	sessionID quickfix.SessionID
	clOrdID   string
	symbol    string
	side      lob.Side
}

// orderTracker maps lob.OrderID to the FIX session state needed to route
// an execution report back to its origin. One tracker is shared across
// every symbol; entries are removed when the order is cancelled or
// rejected. Entries for orders that are fully filled, or that never rest
// (IOC, FOK, Market), are not removed.
type orderTracker struct {
	mu      sync.RWMutex
	byOrder map[lob.OrderID]trackedOrder
	byClOrd map[string]lob.OrderID
}

func newOrderTracker() *orderTracker {
	return &orderTracker{
		byOrder: make(map[lob.OrderID]trackedOrder),
		byClOrd: make(map[string]lob.OrderID),
	}
}

func (t *orderTracker) add(id lob.OrderID, info trackedOrder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byOrder[id] = info
	t.byClOrd[info.clOrdID] = id
}

// byClOrdID resolves a ClOrdID back to the lob.OrderID it was assigned at
// admission, for cancel/replace requests that only carry OrigClOrdID.
func (t *orderTracker) byClOrdID(clOrdID string) (lob.OrderID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byClOrd[clOrdID]
	return id, ok
}

// updateClOrdID re-keys an order after a cancel/replace accepts a new
// ClOrdID, so later reports and cancel/replace chains resolve against the
// replace's own ClOrdID instead of the one it superseded.
func (t *orderTracker) updateClOrdID(id lob.OrderID, newClOrdID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	info, ok := t.byOrder[id]
	if !ok {
		return
	}
	delete(t.byClOrd, info.clOrdID)
	info.clOrdID = newClOrdID
	t.byOrder[id] = info
	t.byClOrd[newClOrdID] = id
}

func (t *orderTracker) get(id lob.OrderID) (trackedOrder, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	info, ok := t.byOrder[id]
	return info, ok
}

func (t *orderTracker) remove(id lob.OrderID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if info, ok := t.byOrder[id]; ok {
		delete(t.byClOrd, info.clOrdID)
	}
	delete(t.byOrder, id)
}
