package lob

import "github.com/google/btree"

const btreeDegree = 32

// orderLocation is what order_index maps an OrderID to: enough to find the
// level that holds it in O(1) without scanning both sides.
type orderLocation struct {
	side  Side
	price Price
}

// LimitBook is the price-time-priority order book for a single symbol: two
// price-ordered sides of priceLevels plus an order_index for O(log n)
// cancel/replace lookup. It owns no concurrency primitives — it is used by
// exactly one MatchingEngine on exactly one goroutine.
type LimitBook struct {
	timeSource TimeSource

	bids    *btree.BTreeG[*priceLevel] // descending: Min() = best bid
	asks    *btree.BTreeG[*priceLevel] // ascending: Min() = best ask
	bidByPx map[Price]*priceLevel
	askByPx map[Price]*priceLevel

	orderIndex map[OrderID]orderLocation
}

// NewLimitBook constructs an empty book. timeSource is injected so every
// emitted event's timestamp is reproducible under simulation.
func NewLimitBook(timeSource TimeSource) *LimitBook {
	return &LimitBook{
		timeSource: timeSource,
		bids:       btree.NewG(btreeDegree, func(a, b *priceLevel) bool { return a.price > b.price }),
		asks:       btree.NewG(btreeDegree, func(a, b *priceLevel) bool { return a.price < b.price }),
		bidByPx:    make(map[Price]*priceLevel),
		askByPx:    make(map[Price]*priceLevel),
		orderIndex: make(map[OrderID]orderLocation),
	}
}

func (b *LimitBook) levelsFor(side Side) (*btree.BTreeG[*priceLevel], map[Price]*priceLevel) {
	if side == Buy {
		return b.bids, b.bidByPx
	}
	return b.asks, b.askByPx
}

// TotalOrders returns the number of resting orders across both sides.
func (b *LimitBook) TotalOrders() int {
	return len(b.orderIndex)
}

// Add admits order into the book: duplicate check, FOK preflight, matching,
// and (for Limit orders with remaining quantity) resting. Returns the
// trades produced, in maker-priority order, and the resulting book top.
// A false return means the order was rejected outright: no trades, no
// state change, and reason identifies why.
func (b *LimitBook) Add(order Order) (trades []Event, top Event, ok bool, reason RejectReason) {
	if _, exists := b.orderIndex[order.ID]; exists {
		return nil, Event{}, false, ReasonDuplicateOrderID
	}

	working := order

	if working.isFOK() {
		if !b.fokCanFill(working) {
			return nil, Event{}, false, ReasonFOKInsufficientLiquidity
		}
	}

	if working.isMarket() || working.isIOC() || working.isFOK() || (working.isLimit() && b.wouldCross(working)) {
		trades = b.matchOrder(&working)
	}

	switch {
	case working.isLimit() && working.Qty > 0:
		b.addRestingOrder(working)
	default:
		// Market/IOC/FOK never rest; any remainder is discarded.
	}

	top = b.bookTop()
	return trades, top, true, ReasonGeneric
}

// fokCanFill walks the opposite side, best-first, accumulating liquidity
// at prices acceptable to order's limit price (asks at or below it for a
// buy, bids at or above it for a sell). Matches spec §4.3 step 2.
func (b *LimitBook) fokCanFill(order Order) bool {
	var available uint64
	tree, _ := b.levelsFor(order.Side.Opposite())

	acceptable := func(levelPrice Price) bool {
		if order.Side == Buy {
			return levelPrice <= order.Price
		}
		return levelPrice >= order.Price
	}

	tree.Ascend(func(level *priceLevel) bool {
		if !acceptable(level.price) {
			return false
		}
		available += level.totalQty
		return available < order.Qty
	})

	return available >= order.Qty
}

// wouldCross reports whether a Limit order at order.Price would immediately
// match against the best opposite price. Market orders always cross, which
// is why this is only called for Limit orders.
func (b *LimitBook) wouldCross(order Order) bool {
	bestOpposite := b.bestPrice(order.Side.Opposite())
	if !bestOpposite.Valid() {
		return false
	}
	if order.Side == Buy {
		return order.Price >= bestOpposite
	}
	return order.Price <= bestOpposite
}

func (b *LimitBook) bestPrice(side Side) Price {
	tree, _ := b.levelsFor(side)
	best, ok := tree.Min()
	if !ok {
		return InvalidPrice
	}
	return best.price
}

// matchOrder walks the opposite side best-first, filling order against
// resting makers in strict price-then-time priority until order is
// exhausted, the opposite side is empty, or (for Limit orders only) the
// best opposite price no longer crosses; Market, IOC and FOK orders are not
// stopped by their price here. Fully-filled makers are
// popped from their level and removed from order_index; partially-filled
// makers have their level's head quantity updated in place.
func (b *LimitBook) matchOrder(order *Order) []Event {
	var trades []Event
	oppSide := order.Side.Opposite()
	tree, byPx := b.levelsFor(oppSide)

	for order.Qty > 0 {
		level, ok := tree.Min()
		if !ok {
			break
		}
		if order.isLimit() {
			if order.Side == Buy && level.price > order.Price {
				break
			}
			if order.Side == Sell && level.price < order.Price {
				break
			}
		}

		maker := level.front()
		if maker == nil {
			break // defensive; totalQty/empty() invariant should prevent this
		}

		fillQty := min(order.Qty, maker.remainingQty)
		ts := b.timeSource.NowNanos()
		trades = append(trades, tradeEvent(order.ID, maker.order.ID, level.price, fillQty, ts))

		order.Qty -= fillQty
		makerRemaining := maker.remainingQty - fillQty

		if makerRemaining == 0 {
			level.popFront()
			delete(b.orderIndex, maker.order.ID)
			if level.empty() {
				tree.Delete(level)
				delete(byPx, level.price)
			}
		} else {
			level.updateFrontQty(makerRemaining)
		}
	}

	return trades
}

func (b *LimitBook) addRestingOrder(order Order) {
	tree, byPx := b.levelsFor(order.Side)
	level, ok := byPx[order.Price]
	if !ok {
		level = newPriceLevel(order.Price)
		byPx[order.Price] = level
		tree.ReplaceOrInsert(level)
	}
	level.addOrder(newBookOrder(order))
	b.orderIndex[order.ID] = orderLocation{side: order.Side, price: order.Price}
}

// Cancel removes a resting order by ID. Never reorders any other resting
// order's priority.
func (b *LimitBook) Cancel(id OrderID) (ev Event, ok bool) {
	loc, exists := b.orderIndex[id]
	if !exists {
		return Event{}, false
	}

	tree, byPx := b.levelsFor(loc.side)
	level := byPx[loc.price]

	var removedQty uint64
	if level != nil {
		removedQty, _ = level.removeByID(id)
		if level.empty() {
			tree.Delete(level)
			delete(byPx, loc.price)
		}
	}
	delete(b.orderIndex, id)

	return cancelEvent(id, removedQty, b.timeSource.NowNanos()), true
}

// Replace is atomic cancel + resubmit: the replaced order forfeits time
// priority and is placed at the tail of its new price level (even when
// newPrice equals the old price), using a fresh timestamp and the original
// order's side. It may immediately match if the new price crosses.
func (b *LimitBook) Replace(id OrderID, newPrice Price, newQty uint64) (ev Event, trades []Event, ok bool, resubmitLost bool) {
	loc, exists := b.orderIndex[id]
	if !exists {
		return Event{}, nil, false, false
	}

	_, byPx := b.levelsFor(loc.side)
	level := byPx[loc.price]
	if level == nil {
		return Event{}, nil, false, false
	}
	book := level.findByID(id)
	if book == nil {
		return Event{}, nil, false, false
	}

	side := book.order.Side

	if _, cancelOK := b.Cancel(id); !cancelOK {
		return Event{}, nil, false, false
	}

	ts := b.timeSource.NowNanos()
	newOrder := Order{
		ID:    id,
		Side:  side,
		Price: newPrice,
		Qty:   newQty,
		TS:    ts,
		Type:  Limit,
	}

	newTrades, _, addOK, _ := b.Add(newOrder)
	if !addOK {
		// The original is already gone; this should be unreachable since
		// the duplicate-id check that could fail Add was just cleared by
		// Cancel. Documented as "forfeit on replace failure" in spec §4.6.
		return Event{}, nil, false, true
	}

	return replaceEvent(id, newPrice, newQty, ts), newTrades, true, false
}

// bestBidAsk returns the current best prices and aggregated quantities,
// using InvalidPrice where a side is empty.
func (b *LimitBook) bestBidAsk() (bestBid Price, bidQty uint64, bestAsk Price, askQty uint64) {
	bestBid, bestAsk = InvalidPrice, InvalidPrice
	if lvl, ok := b.bids.Min(); ok {
		bestBid, bidQty = lvl.price, lvl.totalQty
	}
	if lvl, ok := b.asks.Min(); ok {
		bestAsk, askQty = lvl.price, lvl.totalQty
	}
	return
}

func (b *LimitBook) bookTop() Event {
	bestBid, bidQty, bestAsk, askQty := b.bestBidAsk()
	return bookTopEvent(bestBid, bidQty, bestAsk, askQty, b.timeSource.NowNanos())
}
