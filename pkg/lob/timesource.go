package lob

import (
	"sync/atomic"
	"time"
)

// TimeSource is an abstract, injectable clock. The matching engine never
// reads a global clock on the hot path; every event timestamp comes from
// the TimeSource passed at construction, so a deterministic simulation can
// drive the engine with a fully reproducible notion of time.
type TimeSource interface {
	NowNanos() uint64
}

// SimulatedTimeSource is a manually-advanced clock for deterministic tests
// and backtests: time only moves when Advance or Set is called.
type SimulatedTimeSource struct {
	current atomic.Uint64
}

// NewSimulatedTimeSource returns a clock starting at initialNanos.
func NewSimulatedTimeSource(initialNanos uint64) *SimulatedTimeSource {
	s := &SimulatedTimeSource{}
	s.current.Store(initialNanos)
	return s
}

func (s *SimulatedTimeSource) NowNanos() uint64 {
	return s.current.Load()
}

// Advance moves the clock forward by deltaNanos.
func (s *SimulatedTimeSource) Advance(deltaNanos uint64) {
	s.current.Add(deltaNanos)
}

// Set pins the clock to an absolute value.
func (s *SimulatedTimeSource) Set(nanos uint64) {
	s.current.Store(nanos)
}

// RealTimeSource reports nanoseconds elapsed since construction using the
// monotonic clock.
type RealTimeSource struct {
	start time.Time
}

// NewRealTimeSource starts a monotonic clock at the current instant.
func NewRealTimeSource() *RealTimeSource {
	return &RealTimeSource{start: time.Now()}
}

func (r *RealTimeSource) NowNanos() uint64 {
	return uint64(time.Since(r.start).Nanoseconds())
}
