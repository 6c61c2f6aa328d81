package broadcast

import "lob/pkg/lob"

// EventMessage is the wire representation of one lob.Event, tagged with
// the symbol it belongs to since downstream consumers fan in from every
// symbol's stream.
type EventMessage struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
	TS     uint64 `json:"ts"`

	TakerID      lob.OrderID `json:"taker_id,omitempty"`
	MakerID      lob.OrderID `json:"maker_id,omitempty"`
	OrderID      lob.OrderID `json:"order_id,omitempty"`
	Price        lob.Price   `json:"price,omitempty"`
	Qty          uint64      `json:"qty,omitempty"`
	Reason       uint32      `json:"reason,omitempty"`
	RemainingQty uint64      `json:"remaining_qty,omitempty"`
	NewPrice     lob.Price   `json:"new_price,omitempty"`
	NewQty       uint64      `json:"new_qty,omitempty"`
	BestBid      lob.Price   `json:"best_bid,omitempty"`
	BidQty       uint64      `json:"bid_qty,omitempty"`
	BestAsk      lob.Price   `json:"best_ask,omitempty"`
	AskQty       uint64      `json:"ask_qty,omitempty"`
}

var eventTypeNames = map[lob.EventType]string{
	lob.EventTrade:   "TRADE",
	lob.EventAccept:  "ACCEPT",
	lob.EventReject:  "REJECT",
	lob.EventCancel:  "CANCEL",
	lob.EventReplace: "REPLACE",
	lob.EventBookTop: "BOOK_TOP",
}

// ToEventMessage translates an internal Event into its wire form for
// symbol.
func ToEventMessage(symbol string, ev lob.Event) EventMessage {
	return EventMessage{
		Symbol:       symbol,
		Type:         eventTypeNames[ev.Type],
		TS:           ev.TS,
		TakerID:      ev.TakerID,
		MakerID:      ev.MakerID,
		OrderID:      ev.OrderID,
		Price:        ev.Price,
		Qty:          ev.Qty,
		Reason:       uint32(ev.Reason),
		RemainingQty: ev.RemainingQty,
		NewPrice:     ev.NewPrice,
		NewQty:       ev.NewQty,
		BestBid:      ev.BestBid,
		BidQty:       ev.BidQty,
		BestAsk:      ev.BestAsk,
		AskQty:       ev.AskQty,
	}
}
