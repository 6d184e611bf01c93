package utils

// -----------------------------------------------------------------------------
// ScoreBuffer is a fixed-size circular buffer of weighted total scores.
// True ring buffer - no resizing allowed!
// -----------------------------------------------------------------------------

type ScorePoint struct {
	Timestamp int64
	Score     float64
}

type ScoreBuffer struct {
	data     []ScorePoint
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewScoreBuffer creates a new buffer with fixed capacity
func NewScoreBuffer(capacity int) *ScoreBuffer {
	if capacity <= 0 {
		capacity = 100 // Default reasonable size
	}

	return &ScoreBuffer{
		data:     make([]ScorePoint, capacity),
		capacity: capacity,
		index:    0,
		size:     0,
	}
}

// -----------------------------------------------------------------------------

// Append adds a score point
func (sb *ScoreBuffer) Append(point ScorePoint) {
	sb.data[sb.index] = point
	sb.index = (sb.index + 1) % sb.capacity

	// Update size (never exceeds capacity)
	if sb.size < sb.capacity {
		sb.size++
	}
}

// -----------------------------------------------------------------------------

// Scores returns all scores in insertion order (oldest to newest)
func (sb *ScoreBuffer) Scores() []float64 {
	if sb.size == 0 {
		return []float64{}
	}

	result := make([]float64, sb.size)

	// Calculate start index (oldest element)
	var startIdx int
	if sb.size == sb.capacity {
		startIdx = sb.index
	} else {
		startIdx = 0
	}

	for i := 0; i < sb.size; i++ {
		idx := (startIdx + i) % sb.capacity
		result[i] = sb.data[idx].Score
	}

	return result
}

// -----------------------------------------------------------------------------

// Latest returns the most recent point, if any
func (sb *ScoreBuffer) Latest() (ScorePoint, bool) {
	if sb.size == 0 {
		return ScorePoint{}, false
	}
	idx := (sb.index - 1 + sb.capacity) % sb.capacity
	return sb.data[idx], true
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (sb *ScoreBuffer) Size() int {
	return sb.size
}

// -----------------------------------------------------------------------------

// Clear resets the buffer
func (sb *ScoreBuffer) Clear() {
	sb.index = 0
	sb.size = 0
}
