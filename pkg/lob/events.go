package lob

// EventType tags which variant an Event carries. The ring stores Event by
// value (a tagged union in a fixed-size struct) rather than boxing each
// variant, so pushes never allocate.
type EventType uint8

const (
	EventTrade EventType = iota
	EventAccept
	EventReject
	EventCancel
	EventReplace
	EventBookTop
)

// RejectReason disambiguates why an admission failed. spec §9 flags the
// reference implementation as collapsing every rejection to a single
// generic code; this is the recommended refinement.
type RejectReason uint32

const (
	ReasonGeneric RejectReason = iota
	ReasonDuplicateOrderID
	ReasonFOKInsufficientLiquidity
	ReasonInvalidOrder
)

// Event is a single in-place sum type over the six engine event variants.
// Only the fields relevant to Type are meaningful; the rest are zero.
type Event struct {
	Type EventType
	TS   uint64

	// Trade
	TakerID OrderID
	MakerID OrderID
	Price   Price
	Qty     uint64

	// Accept / Reject / Cancel / Replace share OrderID
	OrderID OrderID

	// Reject
	Reason RejectReason

	// Cancel
	RemainingQty uint64

	// Replace
	NewPrice Price
	NewQty   uint64

	// BookTop
	BestBid Price
	BidQty  uint64
	BestAsk Price
	AskQty  uint64
}

func tradeEvent(taker, maker OrderID, price Price, qty uint64, ts uint64) Event {
	return Event{Type: EventTrade, TS: ts, TakerID: taker, MakerID: maker, Price: price, Qty: qty}
}

func acceptEvent(id OrderID, ts uint64) Event {
	return Event{Type: EventAccept, TS: ts, OrderID: id}
}

func rejectEvent(id OrderID, ts uint64, reason RejectReason) Event {
	return Event{Type: EventReject, TS: ts, OrderID: id, Reason: reason}
}

func cancelEvent(id OrderID, remaining uint64, ts uint64) Event {
	return Event{Type: EventCancel, TS: ts, OrderID: id, RemainingQty: remaining}
}

func replaceEvent(id OrderID, newPrice Price, newQty uint64, ts uint64) Event {
	return Event{Type: EventReplace, TS: ts, OrderID: id, NewPrice: newPrice, NewQty: newQty}
}

func bookTopEvent(bestBid Price, bidQty uint64, bestAsk Price, askQty uint64, ts uint64) Event {
	return Event{
		Type: EventBookTop, TS: ts,
		BestBid: bestBid, BidQty: bidQty,
		BestAsk: bestAsk, AskQty: askQty,
	}
}
