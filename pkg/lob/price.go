// Package lob implements a deterministic, single-symbol limit order book
// matching engine: price-time priority on both sides of the book, four
// order-type policies (LIMIT, MARKET, IOC, FOK), cancel/replace, and an
// SPSC event ring that decouples emission from consumption.
package lob

import "github.com/shopspring/decimal"

// Price is a signed number of ticks. Ticks avoid the comparison and
// accumulation hazards of floating-point prices; a tick size converts
// between ticks and a displayed decimal price.
type Price int64

// InvalidPrice is the sentinel for "no price" (empty side, market order).
const InvalidPrice Price = -1

// PriceFromDecimal converts a decimal price to ticks given a tick size,
// rounding to the nearest tick.
func PriceFromDecimal(price, tickSize decimal.Decimal) Price {
	ticks := price.DivRound(tickSize, 0).Round(0)
	return Price(ticks.IntPart())
}

// ToDecimal converts ticks back to a displayed decimal price.
func (p Price) ToDecimal(tickSize decimal.Decimal) decimal.Decimal {
	if p == InvalidPrice {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p)).Mul(tickSize)
}

// Valid reports whether p is a real price (not the sentinel).
func (p Price) Valid() bool {
	return p != InvalidPrice
}
