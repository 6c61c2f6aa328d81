package lob

// MatchingEngine is the facade that sequences LimitBook operations with
// event emission: it validates nothing itself (the book does), invokes the
// book, and writes Accept/Reject, Trade, Cancel, Replace and BookTop events
// into the ring in the fixed order spec §5 requires. Callers drain the ring
// with PollEvents.
//
// A MatchingEngine is single-threaded: Submit/Cancel/Replace must all be
// called from the same goroutine (or externally serialized). PollEvents may
// run concurrently with them from a different goroutine — that is the one
// concurrency the event ring is built for.
type MatchingEngine struct {
	config     EngineConfig
	timeSource TimeSource
	book       *LimitBook
	ring       *eventRing
	dropped    uint64
}

// NewMatchingEngine constructs an engine. If timeSource is nil, a
// SimulatedTimeSource starting at zero is used.
func NewMatchingEngine(config EngineConfig, timeSource TimeSource) *MatchingEngine {
	if timeSource == nil {
		timeSource = NewSimulatedTimeSource(0)
	}
	return &MatchingEngine{
		config:     config,
		timeSource: timeSource,
		book:       NewLimitBook(timeSource),
		ring:       newEventRing(config.RingSize),
	}
}

// Submit admits order into the book. On success it emits Accept, then every
// Trade in maker-priority order, then one BookTop. On failure it emits a
// single Reject carrying the reason.
func (e *MatchingEngine) Submit(order Order) bool {
	trades, top, ok, reason := e.book.Add(order)
	now := e.timeSource.NowNanos()

	if !ok {
		e.emit(rejectEvent(order.ID, now, reason))
		return false
	}

	e.emit(acceptEvent(order.ID, now))
	for _, t := range trades {
		e.emit(t)
	}
	e.emit(top)
	return true
}

// Cancel removes a resting order. On success it emits the Cancel event and
// a refreshed BookTop.
func (e *MatchingEngine) Cancel(id OrderID) bool {
	ev, ok := e.book.Cancel(id)
	if !ok {
		return false
	}
	e.emit(ev)
	e.emit(e.book.bookTop())
	return true
}

// Replace atomically cancels and resubmits id at newPrice/newQty, forfeiting
// time priority. On success it emits Replace, then any resulting Trades,
// then a refreshed BookTop.
func (e *MatchingEngine) Replace(id OrderID, newPrice Price, newQty uint64) bool {
	ev, trades, ok, _ := e.book.Replace(id, newPrice, newQty)
	if !ok {
		return false
	}
	e.emit(ev)
	for _, t := range trades {
		e.emit(t)
	}
	e.emit(e.book.bookTop())
	return true
}

// PollEvents drains every currently-available event into out (which may be
// nil; it grows as needed) and returns the drained slice plus whether
// anything was produced. Draining an empty ring is a no-op that leaves
// engine state unchanged.
func (e *MatchingEngine) PollEvents(out []Event) ([]Event, bool) {
	return e.ring.drainInto(out)
}

// BestBidAsk returns the current top of book.
func (e *MatchingEngine) BestBidAsk() (bestBid Price, bidQty uint64, bestAsk Price, askQty uint64) {
	return e.book.bestBidAsk()
}

// TotalOrders returns the number of resting orders.
func (e *MatchingEngine) TotalOrders() int {
	return e.book.TotalOrders()
}

// Config returns the engine's immutable construction-time configuration.
func (e *MatchingEngine) Config() EngineConfig {
	return e.config
}

// DroppedEvents returns the number of events silently dropped because the
// ring was full at push time. See spec §7/§9: the core's policy is to drop
// rather than block the producer; this counter lets a caller build a
// lossy-but-flagged policy on top without the core taking a position on
// back-pressure.
func (e *MatchingEngine) DroppedEvents() uint64 {
	return e.dropped
}

func (e *MatchingEngine) emit(ev Event) {
	if !e.ring.push(ev) {
		e.dropped++
	}
}
