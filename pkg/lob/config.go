package lob

import "github.com/shopspring/decimal"

// EngineConfig is consumed once at construction; nothing here may change
// after NewMatchingEngine returns.
type EngineConfig struct {
	// MaxOrders is a capacity hint for pre-reserving internal storage; it
	// is not a hard limit enforced on the hot path.
	MaxOrders int
	// RingSize is the requested capacity of the event ring; rounded up to
	// the next power of two.
	RingSize int
	// TickSize is the minimum price increment, e.g. 0.01.
	TickSize decimal.Decimal
}

// DefaultEngineConfig mirrors the reference implementation's defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxOrders: 100_000,
		RingSize:  10_000,
		TickSize:  decimal.NewFromFloat(0.01),
	}
}
