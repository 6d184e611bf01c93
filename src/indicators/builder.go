package indicators

import (
	"live-analyser/src/models"
)

// -----------------------------------------------------------------------------
// Interval score builder: packages the six indicator scores plus
// support/resistance for one interval into a single record. Pure computation,
// no side effects.
// -----------------------------------------------------------------------------

// BuildIntervalScore computes all indicator scores for one interval's candle
// series. Indicators lacking data report a neutral 0 and are listed in
// InsufficientData instead of failing the whole record.
func BuildIntervalScore(interval string, timestamp int64, candles []models.MCandle) models.MIntervalScore {
	n := len(candles)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
	}

	currentPrice := 0.0
	if n > 0 {
		currentPrice = closes[n-1]
	}

	score := models.MIntervalScore{
		Interval:     interval,
		Timestamp:    timestamp,
		RSIValue:     50,
		CurrentPrice: currentPrice,
	}

	var insufficient []string

	rsiScore, rsiValue, ok := RSIScore(closes)
	score.RSIScore, score.RSIValue = rsiScore, rsiValue
	if !ok {
		insufficient = append(insufficient, "rsi")
	}

	if score.MACDScore, ok = MACDScore(closes); !ok {
		insufficient = append(insufficient, "macd")
	}
	if score.ADXScore, ok = ADXScore(highs, lows, closes); !ok {
		insufficient = append(insufficient, "adx")
	}
	if score.BBScore, ok = BBScore(closes, currentPrice); !ok {
		insufficient = append(insufficient, "bb")
	}
	if score.SMAScore, ok = SMAScore(closes, currentPrice); !ok {
		insufficient = append(insufficient, "sma")
	}
	if score.SupertrendScore, ok = SupertrendScore(highs, lows, closes); !ok {
		insufficient = append(insufficient, "supertrend")
	}

	score.Support, score.Resistance = SupportResistance(highs, lows, closes)

	score.AvgScore = round2((score.RSIScore + score.MACDScore + score.ADXScore +
		score.BBScore + score.SMAScore + score.SupertrendScore) / 6)
	score.InsufficientData = insufficient

	return score
}
