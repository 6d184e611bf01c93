package analysis

import (
	"math"

	"live-analyser/src/models"
)

// -----------------------------------------------------------------------------
// Score Aggregator: combines per-interval average scores into one weighted
// master score and classification. Weights are re-normalized over the
// intervals actually present so partial data never understates the score.
// -----------------------------------------------------------------------------

// Default classification tier boundaries on the -100..+100 scale.
const (
	DefaultStrongThreshold = 60
	DefaultMildThreshold   = 20
)

type Aggregator struct {
	Weights   map[string]float64
	Intervals []string // configured order, shortest last
	Strong    float64
	Mild      float64
}

// -----------------------------------------------------------------------------

func NewAggregator(weights map[string]float64, intervals []string) *Aggregator {
	return &Aggregator{
		Weights:   weights,
		Intervals: intervals,
		Strong:    DefaultStrongThreshold,
		Mild:      DefaultMildThreshold,
	}
}

// -----------------------------------------------------------------------------

// Aggregate builds the cycle snapshot for a symbol. A symbol with no interval
// data gets a defined NO_DATA snapshot instead of a division by zero.
func (a *Aggregator) Aggregate(symbol string, timestamp int64, intervalScores map[string]models.MIntervalScore) *models.MScoreSnapshot {
	snapshot := &models.MScoreSnapshot{
		Symbol:    symbol,
		Timestamp: timestamp,
		Intervals: intervalScores,
	}

	if len(intervalScores) == 0 {
		snapshot.Classification = models.ClassNoData
		return snapshot
	}

	weightedTotal := 0.0
	totalWeight := 0.0
	for interval, score := range intervalScores {
		w := a.Weights[interval]
		weightedTotal += score.AvgScore * w
		totalWeight += w
	}

	finalScore := 0.0
	if totalWeight > 0 {
		finalScore = weightedTotal / totalWeight
	}

	snapshot.WeightedTotalScore = math.Round(finalScore*100) / 100
	snapshot.Classification = a.Classify(snapshot.WeightedTotalScore)
	snapshot.CurrentPrice = a.currentPrice(intervalScores)

	return snapshot
}

// -----------------------------------------------------------------------------

// Classify tiers a weighted score into the five labels.
func (a *Aggregator) Classify(score float64) string {
	switch {
	case score > a.Strong:
		return models.ClassStrongBullish
	case score > a.Mild:
		return models.ClassBullish
	case score >= -a.Mild:
		return models.ClassNeutral
	case score >= -a.Strong:
		return models.ClassBearish
	default:
		return models.ClassStrongBearish
	}
}

// -----------------------------------------------------------------------------

// currentPrice takes the price from the shortest interval that has data,
// walking the configured interval order backwards.
func (a *Aggregator) currentPrice(intervalScores map[string]models.MIntervalScore) float64 {
	for i := len(a.Intervals) - 1; i >= 0; i-- {
		if score, ok := intervalScores[a.Intervals[i]]; ok && score.CurrentPrice != 0 {
			return score.CurrentPrice
		}
	}
	return 0
}
