package utils

import "testing"

func TestScoreBufferWraparound(t *testing.T) {
	sb := NewScoreBuffer(3)

	for i := 1; i <= 5; i++ {
		sb.Append(ScorePoint{Timestamp: int64(i), Score: float64(i * 10)})
	}

	if sb.Size() != 3 {
		t.Fatalf("size should cap at capacity, got %d", sb.Size())
	}

	// Oldest two were overwritten; order stays chronological
	scores := sb.Scores()
	want := []float64{30, 40, 50}
	for i, v := range want {
		if scores[i] != v {
			t.Fatalf("scores = %v, want %v", scores, want)
		}
	}

	latest, ok := sb.Latest()
	if !ok || latest.Timestamp != 5 {
		t.Errorf("latest should be the newest point, got %+v", latest)
	}
}

func TestScoreBufferEmptyAndClear(t *testing.T) {
	sb := NewScoreBuffer(4)

	if len(sb.Scores()) != 0 {
		t.Error("empty buffer should yield no scores")
	}
	if _, ok := sb.Latest(); ok {
		t.Error("empty buffer has no latest point")
	}

	sb.Append(ScorePoint{Timestamp: 1, Score: 1})
	sb.Clear()
	if sb.Size() != 0 {
		t.Errorf("clear should reset, size=%d", sb.Size())
	}
}

func TestScoreBufferDefaultCapacity(t *testing.T) {
	sb := NewScoreBuffer(0)
	sb.Append(ScorePoint{Timestamp: 1, Score: 1})
	if sb.Size() != 1 {
		t.Error("zero capacity should fall back to a sane default")
	}
}
