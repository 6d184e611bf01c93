package analysis

import (
	"testing"

	"live-analyser/src/models"

	"github.com/stretchr/testify/assert"
)

var testWeights = map[string]float64{
	"1d": 0.35, "1h": 0.25, "15m": 0.20, "5m": 0.15, "1m": 0.05,
}

var testIntervals = []string{"1d", "1h", "15m", "5m", "1m"}

func intervalScore(interval string, avg, price float64) models.MIntervalScore {
	return models.MIntervalScore{Interval: interval, AvgScore: avg, CurrentPrice: price}
}

// -----------------------------------------------------------------------------

func TestAggregateWeightedTotal(t *testing.T) {
	agg := NewAggregator(testWeights, testIntervals)

	scores := map[string]models.MIntervalScore{
		"1d":  intervalScore("1d", -37.3, 101),
		"1h":  intervalScore("1h", -17.1, 102),
		"15m": intervalScore("15m", 10, 103),
		"5m":  intervalScore("5m", 5, 104),
		"1m":  intervalScore("1m", 0, 105),
	}

	snap := agg.Aggregate("AAPL", 1000, scores)

	assert.InDelta(t, -14.58, snap.WeightedTotalScore, 0.01)
	assert.Equal(t, models.ClassNeutral, snap.Classification)
	assert.Equal(t, "AAPL", snap.Symbol)
	// Shortest interval with a price wins
	assert.Equal(t, 105.0, snap.CurrentPrice)
}

// -----------------------------------------------------------------------------

func TestAggregateRenormalizesPartialWeights(t *testing.T) {
	agg := NewAggregator(testWeights, testIntervals)

	// Only the two slow intervals reported this cycle.
	scores := map[string]models.MIntervalScore{
		"1d": intervalScore("1d", -37.3, 100),
		"1h": intervalScore("1h", -17.1, 100),
	}

	snap := agg.Aggregate("MSFT", 1000, scores)

	// (-37.3*0.35 + -17.1*0.25) / 0.60
	assert.InDelta(t, -28.88, snap.WeightedTotalScore, 0.01)
	assert.Equal(t, models.ClassBearish, snap.Classification)
}

// -----------------------------------------------------------------------------

func TestAggregateNoData(t *testing.T) {
	agg := NewAggregator(testWeights, testIntervals)

	snap := agg.Aggregate("AAPL", 1000, map[string]models.MIntervalScore{})

	assert.Equal(t, models.ClassNoData, snap.Classification)
	assert.Zero(t, snap.WeightedTotalScore)
	assert.Zero(t, snap.CurrentPrice)
}

// -----------------------------------------------------------------------------

func TestAggregateZeroConfiguredWeights(t *testing.T) {
	agg := NewAggregator(map[string]float64{}, testIntervals)

	scores := map[string]models.MIntervalScore{
		"1d": intervalScore("1d", 80, 100),
	}
	snap := agg.Aggregate("AAPL", 1000, scores)

	// No weights configured: total stays 0, no division by zero.
	assert.Zero(t, snap.WeightedTotalScore)
	assert.Equal(t, models.ClassNeutral, snap.Classification)
}

// -----------------------------------------------------------------------------

func TestClassifyTiers(t *testing.T) {
	agg := NewAggregator(testWeights, testIntervals)

	cases := []struct {
		score float64
		want  string
	}{
		{75, models.ClassStrongBullish},
		{60.01, models.ClassStrongBullish},
		{60, models.ClassBullish},
		{20.01, models.ClassBullish},
		{20, models.ClassNeutral},
		{0, models.ClassNeutral},
		{-20, models.ClassNeutral},
		{-20.01, models.ClassBearish},
		{-60, models.ClassBearish},
		{-60.01, models.ClassStrongBearish},
		{-100, models.ClassStrongBearish},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, agg.Classify(tc.score), "score %v", tc.score)
	}
}
