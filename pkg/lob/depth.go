package lob

import "github.com/google/btree"

// DepthLevel summarises one resting price level.
type DepthLevel struct {
	Price      Price
	TotalQty   uint64
	OrderCount int
}

// DepthSnapshot is a finite-level, read-only projection of the book, best
// price first on each side.
type DepthSnapshot struct {
	Bids []DepthLevel
	Asks []DepthLevel
	TS   uint64
}

// GetDepth returns up to maxLevels best levels per side. Traversal is
// best-first and stops at maxLevels or end-of-side, whichever comes first.
func (e *MatchingEngine) GetDepth(maxLevels int) DepthSnapshot {
	return e.book.depth(maxLevels, e.timeSource.NowNanos())
}

func (b *LimitBook) depth(maxLevels int, ts uint64) DepthSnapshot {
	snap := DepthSnapshot{TS: ts}
	if maxLevels <= 0 {
		return snap
	}

	snap.Bids = collectLevels(b.bids, maxLevels)
	snap.Asks = collectLevels(b.asks, maxLevels)
	return snap
}

func collectLevels(tree *btree.BTreeG[*priceLevel], maxLevels int) []DepthLevel {
	levels := make([]DepthLevel, 0, maxLevels)
	tree.Ascend(func(lvl *priceLevel) bool {
		if len(levels) >= maxLevels {
			return false
		}
		levels = append(levels, DepthLevel{
			Price:      lvl.price,
			TotalQty:   lvl.totalQty,
			OrderCount: lvl.size(),
		})
		return true
	})
	return levels
}
