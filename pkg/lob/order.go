package lob

// OrderID is a non-zero, venue-unique order identifier.
type OrderID uint64

// OrderType selects the matching policy applied at admission.
type OrderType uint8

const (
	// Limit rests on the book if not fully filled.
	Limit OrderType = iota
	// Market sweeps the opposite side regardless of price; never rests.
	Market
	// IOC (Immediate-Or-Cancel) matches what it can at admission, discards the rest.
	IOC
	// FOK (Fill-Or-Kill) matches in full immediately or is rejected with no state change.
	FOK
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "LIMIT"
	case Market:
		return "MARKET"
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	default:
		return "UNKNOWN"
	}
}

// PegType is an optional extension (see spec §9): the matching algorithm
// never reads it. Driver packages may recompute Price from it on every
// BookTop change; the core does not.
type PegType uint8

const (
	PegNone PegType = iota
	PegMid
	PegBestBid
	PegBestAsk
)

// Order is a caller's submission. Price is ignored for Market orders.
//
// DisplayQty, RefreshQty, PegType and PegOffset are the iceberg/pegged
// extensions spec §9 documents as optional: the matching algorithm never
// matches on them. They exist so driver packages (FIX, CSV) have somewhere
// to round-trip them.
type Order struct {
	ID   OrderID
	Side Side
	// Price is ignored for Market orders.
	Price Price
	Qty   uint64
	// TS is the submission timestamp; informational only, never read by the
	// matching algorithm (which uses the injected TimeSource for event
	// timestamps).
	TS   uint64
	Type OrderType

	DisplayQty Price // unused by core matching; optional extension field
	RefreshQty uint64
	PegType    PegType
	PegOffset  int64
}

func (o Order) isMarket() bool { return o.Type == Market }
func (o Order) isLimit() bool  { return o.Type == Limit }
func (o Order) isIOC() bool    { return o.Type == IOC }
func (o Order) isFOK() bool    { return o.Type == FOK }

// bookOrder is a resting order: the original admission plus the quantity
// still unfilled. It lives inside exactly one priceLevel for its lifetime.
type bookOrder struct {
	order        Order
	remainingQty uint64
}

func newBookOrder(o Order) *bookOrder {
	return &bookOrder{order: o, remainingQty: o.Qty}
}
