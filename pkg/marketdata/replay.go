// Package marketdata replays recorded order flow from CSV into a
// *lob.MatchingEngine. It is a thin driver: every message becomes exactly
// one Submit, Cancel, or Replace call, and the package has no opinion on
// book internals.
package marketdata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"lob/pkg/lob"
)

// Message is one parsed line of the CSV format
// timestamp,action,order_id,side,price,qty,order_type.
type Message struct {
	Timestamp uint64
	Action    string // ADD/SUBMIT, CANCEL, REPLACE
	OrderID   lob.OrderID
	Side      lob.Side
	Price     lob.Price
	Qty       uint64
	OrderType lob.OrderType
}

// Replay holds a loaded sequence of messages and replays them against one
// engine, in file order.
type Replay struct {
	engine   *lob.MatchingEngine
	tickSize decimal.Decimal
	messages []Message
}

// NewReplay constructs a replay driver bound to engine. tickSize is used
// to convert each line's decimal price into engine ticks.
func NewReplay(engine *lob.MatchingEngine, tickSize decimal.Decimal) *Replay {
	return &Replay{engine: engine, tickSize: tickSize}
}

// LoadFromCSV reads and parses filename, replacing any previously loaded
// messages. Returns an error if the file cannot be opened; malformed
// individual lines are skipped rather than failing the whole load.
func (r *Replay) LoadFromCSV(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("marketdata: open %s: %w", filename, err)
	}
	defer f.Close()
	return r.LoadFromReader(f)
}

// LoadFromReader is LoadFromCSV for an already-open stream.
func (r *Replay) LoadFromReader(in io.Reader) error {
	r.messages = r.messages[:0]

	scanner := bufio.NewScanner(in)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if strings.Contains(line, "timestamp") {
				continue // header line, not data
			}
		}
		msg, ok := r.parseLine(line)
		if !ok {
			continue
		}
		r.messages = append(r.messages, msg)
	}
	return scanner.Err()
}

func (r *Replay) parseLine(line string) (Message, bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return Message{}, false
	}

	fields := strings.Split(line, ",")
	if len(fields) < 7 {
		return Message{}, false
	}

	ts, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return Message{}, false
	}
	id, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return Message{}, false
	}
	priceDec, err := decimal.NewFromString(strings.TrimSpace(fields[4]))
	if err != nil {
		return Message{}, false
	}
	qty, err := strconv.ParseUint(strings.TrimSpace(fields[5]), 10, 64)
	if err != nil {
		return Message{}, false
	}

	return Message{
		Timestamp: ts,
		Action:    strings.TrimSpace(fields[1]),
		OrderID:   lob.OrderID(id),
		Side:      parseSide(strings.TrimSpace(fields[3])),
		Price:     lob.PriceFromDecimal(priceDec, r.tickSize),
		Qty:       qty,
		OrderType: parseOrderType(strings.TrimSpace(fields[6])),
	}, true
}

func parseSide(field string) lob.Side {
	switch field {
	case "BUY", "Buy", "B":
		return lob.Buy
	default:
		return lob.Sell
	}
}

func parseOrderType(field string) lob.OrderType {
	switch field {
	case "MARKET", "Market":
		return lob.Market
	case "IOC":
		return lob.IOC
	case "FOK":
		return lob.FOK
	default:
		return lob.Limit
	}
}

// MessageCount returns the number of currently loaded messages.
func (r *Replay) MessageCount() int {
	return len(r.messages)
}

// ReplayAll submits every loaded message in order, draining the engine's
// events into outEvents after each one if outEvents is non-nil. Returns the number of messages that
// succeeded.
func (r *Replay) ReplayAll(outEvents *[]lob.Event) int {
	return r.replayWhile(func(Message) bool { return true }, outEvents)
}

// ReplayUntil submits every loaded message with Timestamp <= timestamp, in
// order, stopping at the first later message.
func (r *Replay) ReplayUntil(timestamp uint64, outEvents *[]lob.Event) int {
	return r.replayWhile(func(m Message) bool { return m.Timestamp <= timestamp }, outEvents)
}

func (r *Replay) replayWhile(keepGoing func(Message) bool, outEvents *[]lob.Event) int {
	processed := 0
	for _, msg := range r.messages {
		if !keepGoing(msg) {
			break
		}
		if r.replayMessage(msg) {
			processed++
		}
		if outEvents != nil {
			events, _ := r.engine.PollEvents(*outEvents)
			*outEvents = events
		}
	}
	return processed
}

func (r *Replay) replayMessage(msg Message) bool {
	switch msg.Action {
	case "ADD", "SUBMIT":
		return r.engine.Submit(lob.Order{
			ID:    msg.OrderID,
			Side:  msg.Side,
			Price: msg.Price,
			Qty:   msg.Qty,
			TS:    msg.Timestamp,
			Type:  msg.OrderType,
		})
	case "CANCEL":
		return r.engine.Cancel(msg.OrderID)
	case "REPLACE":
		return r.engine.Replace(msg.OrderID, msg.Price, msg.Qty)
	default:
		return false
	}
}

// Clear drops every loaded message.
func (r *Replay) Clear() {
	r.messages = nil
}
