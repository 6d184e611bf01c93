package analysis

import "math"

// -----------------------------------------------------------------------------
// Score momentum: moving averages over the weighted-score history itself,
// used to detect turns in the aggregate signal.
// -----------------------------------------------------------------------------

const (
	FastScoreSMAPeriod = 9
	SlowScoreSMAPeriod = 21
)

// SMAOnScores returns the simple moving average of the last period values.
// ok is false when the history is shorter than the period.
func SMAOnScores(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return math.Round(sum/float64(period)*100) / 100, true
}

// -----------------------------------------------------------------------------

// Crossover signals on the weighted-score history.
const (
	CrossNone = ""
	CrossBuy  = "BUY"
	CrossSell = "SELL"
)

// DetectCrossover compares the fast and slow score SMAs now and one step
// back. A fast SMA crossing above the slow one is a BUY, crossing below a
// SELL, anything else no signal.
func DetectCrossover(history []float64, fastPeriod, slowPeriod int) string {
	longest := fastPeriod
	if slowPeriod > longest {
		longest = slowPeriod
	}
	if len(history) < longest+1 {
		return CrossNone
	}

	fastNow, ok1 := SMAOnScores(history, fastPeriod)
	slowNow, ok2 := SMAOnScores(history, slowPeriod)
	fastPrev, ok3 := SMAOnScores(history[:len(history)-1], fastPeriod)
	slowPrev, ok4 := SMAOnScores(history[:len(history)-1], slowPeriod)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return CrossNone
	}

	if fastPrev <= slowPrev && fastNow > slowNow {
		return CrossBuy
	}
	if fastPrev >= slowPrev && fastNow < slowNow {
		return CrossSell
	}
	return CrossNone
}
