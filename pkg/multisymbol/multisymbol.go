// Package multisymbol fans a single default configuration out into one
// MatchingEngine per symbol, behind a name-keyed lock. Each engine is
// single-threaded internally; this package's only job is safe concurrent
// access to the map that holds them. Books never coordinate across
// symbols.
package multisymbol

import (
	"sync"

	"lob/pkg/lob"
)

// Registry owns one *lob.MatchingEngine per symbol.
type Registry struct {
	mu            sync.RWMutex
	defaultConfig lob.EngineConfig
	timeSource    lob.TimeSource
	engines       map[string]*lob.MatchingEngine
}

// NewRegistry constructs an empty registry. Every symbol added without an
// explicit config uses defaultConfig; timeSource is shared across all
// symbols so a simulation can drive every book from one clock. If
// timeSource is nil, each engine gets its own SimulatedTimeSource starting
// at zero (lob.NewMatchingEngine's default).
func NewRegistry(defaultConfig lob.EngineConfig, timeSource lob.TimeSource) *Registry {
	return &Registry{
		defaultConfig: defaultConfig,
		timeSource:    timeSource,
		engines:       make(map[string]*lob.MatchingEngine),
	}
}

// AddSymbol creates a fresh engine for symbol. Returns false if symbol
// already exists. customConfig, if non-nil, overrides the registry's
// default for this symbol only.
func (r *Registry) AddSymbol(symbol string, customConfig *lob.EngineConfig) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[symbol]; exists {
		return false
	}

	cfg := r.defaultConfig
	if customConfig != nil {
		cfg = *customConfig
	}
	r.engines[symbol] = lob.NewMatchingEngine(cfg, r.timeSource)
	return true
}

// RemoveSymbol drops symbol and its engine. Returns false if it did not
// exist. In-flight events for that symbol are discarded with it.
func (r *Registry) RemoveSymbol(symbol string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[symbol]; !exists {
		return false
	}
	delete(r.engines, symbol)
	return true
}

// GetOrCreate returns the engine for symbol, creating it with the
// registry's default config on first use. Safe for concurrent callers
// racing to create the same symbol.
func (r *Registry) GetOrCreate(symbol string) *lob.MatchingEngine {
	r.mu.RLock()
	engine, ok := r.engines[symbol]
	r.mu.RUnlock()
	if ok {
		return engine
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if engine, ok = r.engines[symbol]; ok {
		return engine
	}
	engine = lob.NewMatchingEngine(r.defaultConfig, r.timeSource)
	r.engines[symbol] = engine
	return engine
}

func (r *Registry) get(symbol string) (*lob.MatchingEngine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	engine, ok := r.engines[symbol]
	return engine, ok
}

// Submit forwards order to symbol's engine. Returns false if the symbol is
// unknown or the engine rejected the order.
func (r *Registry) Submit(symbol string, order lob.Order) bool {
	engine, ok := r.get(symbol)
	if !ok {
		return false
	}
	return engine.Submit(order)
}

// Cancel forwards a cancel to symbol's engine.
func (r *Registry) Cancel(symbol string, id lob.OrderID) bool {
	engine, ok := r.get(symbol)
	if !ok {
		return false
	}
	return engine.Cancel(id)
}

// Replace forwards a replace to symbol's engine.
func (r *Registry) Replace(symbol string, id lob.OrderID, newPrice lob.Price, newQty uint64) bool {
	engine, ok := r.get(symbol)
	if !ok {
		return false
	}
	return engine.Replace(id, newPrice, newQty)
}

// BestBidAsk reports symbol's top of book. ok is false if symbol is
// unknown.
func (r *Registry) BestBidAsk(symbol string) (bestBid lob.Price, bidQty uint64, bestAsk lob.Price, askQty uint64, ok bool) {
	engine, exists := r.get(symbol)
	if !exists {
		return lob.InvalidPrice, 0, lob.InvalidPrice, 0, false
	}
	bestBid, bidQty, bestAsk, askQty = engine.BestBidAsk()
	return bestBid, bidQty, bestAsk, askQty, true
}

// GetDepth reports symbol's depth snapshot. ok is false if symbol is
// unknown.
func (r *Registry) GetDepth(symbol string, maxLevels int) (snap lob.DepthSnapshot, ok bool) {
	engine, exists := r.get(symbol)
	if !exists {
		return lob.DepthSnapshot{}, false
	}
	return engine.GetDepth(maxLevels), true
}

// PollEvents drains symbol's ring. ok is false if symbol is unknown; it is
// unrelated to whether anything was drained.
func (r *Registry) PollEvents(symbol string, out []lob.Event) (events []lob.Event, drained, ok bool) {
	engine, exists := r.get(symbol)
	if !exists {
		return out, false, false
	}
	events, drained = engine.PollEvents(out)
	return events, drained, true
}

// Symbols returns every currently-registered symbol, in no particular
// order.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	symbols := make([]string, 0, len(r.engines))
	for s := range r.engines {
		symbols = append(symbols, s)
	}
	return symbols
}

// Engine exposes the underlying per-symbol engine for advanced operations
// that this facade does not wrap. ok is false if symbol is unknown.
func (r *Registry) Engine(symbol string) (*lob.MatchingEngine, bool) {
	return r.get(symbol)
}
