package indicators

// -----------------------------------------------------------------------------
// Pivot-based support/resistance.
// -----------------------------------------------------------------------------

const SRLookback = 20

// SupportResistance derives pivot levels from the last SRLookback bars:
// pivot = (high + low + close) / 3, then picks the first resistance above
// and the first support below the current price.
func SupportResistance(highs, lows, closes []float64) (support, resistance float64) {
	if len(closes) == 0 {
		return 0, 0
	}

	start := len(closes) - SRLookback
	if start < 0 {
		start = 0
	}

	recentHigh := highs[start]
	recentLow := lows[start]
	for i := start; i < len(closes); i++ {
		if highs[i] > recentHigh {
			recentHigh = highs[i]
		}
		if lows[i] < recentLow {
			recentLow = lows[i]
		}
	}

	currentPrice := closes[len(closes)-1]
	pivot := (recentHigh + recentLow + currentPrice) / 3

	resistance1 := 2*pivot - recentLow
	resistance2 := pivot + (recentHigh - recentLow)
	support1 := 2*pivot - recentHigh
	support2 := pivot - (recentHigh - recentLow)

	resistance = resistance2
	if resistance1 > currentPrice {
		resistance = resistance1
	}

	support = support2
	if support1 < currentPrice {
		support = support1
	}

	return round2(support), round2(resistance)
}
