package utils

import (
	"testing"

	"live-analyser/src/models"
)

func snap(symbol string, ts int64, score float64) models.MScoreSnapshot {
	return models.MScoreSnapshot{
		Symbol:             symbol,
		Timestamp:          ts,
		WeightedTotalScore: score,
		Classification:     models.ClassNeutral,
	}
}

// -----------------------------------------------------------------------------

func TestSnapshotCachePutAndLatest(t *testing.T) {
	sc := NewSnapshotCache(10)

	if _, ok := sc.Latest("AAPL"); ok {
		t.Fatal("empty cache should miss")
	}

	sc.Put(snap("AAPL", 100, 5))
	sc.Put(snap("AAPL", 200, 7))
	sc.Put(snap("MSFT", 100, -3))

	latest, ok := sc.Latest("AAPL")
	if !ok || latest.Timestamp != 200 {
		t.Fatalf("latest AAPL = %+v", latest)
	}

	if sc.SymbolCount() != 2 {
		t.Errorf("symbol count = %d, want 2", sc.SymbolCount())
	}
	if len(sc.All()) != 2 {
		t.Errorf("All() should return one snapshot per symbol")
	}
}

// -----------------------------------------------------------------------------

func TestSnapshotCacheHistory(t *testing.T) {
	sc := NewSnapshotCache(3)

	for i := 0; i < 5; i++ {
		sc.Put(snap("AAPL", int64(i), float64(i)))
	}

	history := sc.ScoreHistory("AAPL")
	if len(history) != 3 {
		t.Fatalf("history should cap at depth, got %d", len(history))
	}
	if history[0] != 2 || history[2] != 4 {
		t.Errorf("history = %v, want the newest three in order", history)
	}

	if len(sc.ScoreHistory("MSFT")) != 0 {
		t.Error("unknown symbol should have empty history")
	}
}

// -----------------------------------------------------------------------------

func TestSnapshotCacheSeed(t *testing.T) {
	sc := NewSnapshotCache(10)

	sc.Seed("AAPL", []ScorePoint{{1, 10}, {2, 20}, {3, 30}})

	// Seeding fills history without inventing a latest snapshot
	if _, ok := sc.Latest("AAPL"); ok {
		t.Fatal("seed must not set a latest snapshot")
	}

	history := sc.ScoreHistory("AAPL")
	if len(history) != 3 || history[2] != 30 {
		t.Fatalf("seeded history = %v", history)
	}

	// A live update continues the seeded series
	sc.Put(snap("AAPL", 4, 40))
	history = sc.ScoreHistory("AAPL")
	if len(history) != 4 || history[3] != 40 {
		t.Fatalf("history after put = %v", history)
	}
}
