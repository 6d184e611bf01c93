package utils

import (
	"sync"

	"live-analyser/src/models"
)

// -----------------------------------------------------------------------------
// SnapshotCache holds the latest score snapshot per symbol, plus a bounded
// history of weighted totals used for crossover detection. New websocket
// clients get their initial state from here.
// -----------------------------------------------------------------------------

type SnapshotCache struct {
	mu        sync.RWMutex
	latest    map[string]models.MScoreSnapshot
	history   map[string]*ScoreBuffer
	histDepth int
}

// -----------------------------------------------------------------------------

func NewSnapshotCache(historyDepth int) *SnapshotCache {
	if historyDepth <= 0 {
		historyDepth = 100
	}
	return &SnapshotCache{
		latest:    make(map[string]models.MScoreSnapshot),
		history:   make(map[string]*ScoreBuffer),
		histDepth: historyDepth,
	}
}

// -----------------------------------------------------------------------------

// Put stores a snapshot and appends its weighted total to the symbol history.
func (sc *SnapshotCache) Put(snapshot models.MScoreSnapshot) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.latest[snapshot.Symbol] = snapshot

	buf, ok := sc.history[snapshot.Symbol]
	if !ok {
		buf = NewScoreBuffer(sc.histDepth)
		sc.history[snapshot.Symbol] = buf
	}
	buf.Append(ScorePoint{Timestamp: snapshot.Timestamp, Score: snapshot.WeightedTotalScore})
}

// -----------------------------------------------------------------------------

// Seed preloads the score history for a symbol (oldest to newest) without
// touching the latest snapshot. Used at startup from persisted rows.
func (sc *SnapshotCache) Seed(symbol string, points []ScorePoint) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	buf, ok := sc.history[symbol]
	if !ok {
		buf = NewScoreBuffer(sc.histDepth)
		sc.history[symbol] = buf
	}
	for _, p := range points {
		buf.Append(p)
	}
}

// -----------------------------------------------------------------------------

// Latest returns the most recent snapshot for a symbol.
func (sc *SnapshotCache) Latest(symbol string) (models.MScoreSnapshot, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	s, ok := sc.latest[symbol]
	return s, ok
}

// -----------------------------------------------------------------------------

// All returns the latest snapshot for every symbol that has one.
func (sc *SnapshotCache) All() []models.MScoreSnapshot {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	result := make([]models.MScoreSnapshot, 0, len(sc.latest))
	for _, s := range sc.latest {
		result = append(result, s)
	}
	return result
}

// -----------------------------------------------------------------------------

// ScoreHistory returns the weighted totals for a symbol, oldest to newest.
func (sc *SnapshotCache) ScoreHistory(symbol string) []float64 {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	buf, ok := sc.history[symbol]
	if !ok {
		return []float64{}
	}
	return buf.Scores()
}

// -----------------------------------------------------------------------------

// SymbolCount returns the number of symbols with a cached snapshot.
func (sc *SnapshotCache) SymbolCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return len(sc.latest)
}
