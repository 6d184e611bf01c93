package indicators

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// -----------------------------------------------------------------------------
// Indicator score functions.
//
// Every indicator resolves to the canonical -100..+100 score scale so the
// per-interval average and the weighted master score need no re-scaling.
// Each function returns ok=false when the series is too short for the
// indicator's lookback; the score is then the neutral 0.
// -----------------------------------------------------------------------------

const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	ADXPeriod        = 14
	BBPeriod         = 20
	BBStdDev         = 2.0
	SMAPeriod        = 21
	SupertrendPeriod = 7
	SupertrendMult   = 3.0
)

// Minimum series lengths per indicator.
const (
	minBarsRSI        = RSIPeriod + 1
	minBarsMACD       = MACDSlowPeriod + MACDSignalPeriod
	minBarsADX        = 2 * ADXPeriod
	minBarsBB         = BBPeriod
	minBarsSMA        = SMAPeriod
	minBarsSupertrend = SupertrendPeriod + 1
)

// -----------------------------------------------------------------------------

func clampScore(v float64) float64 {
	return math.Max(-100, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// -----------------------------------------------------------------------------

// RSIScore maps 14-period RSI onto -100..+100: score = (rsi - 50) * 2.
// The raw RSI value is returned alongside for the overbought/oversold rules.
func RSIScore(closes []float64) (score, value float64, ok bool) {
	if len(closes) < minBarsRSI {
		return 0, 50, false
	}

	rsi := talib.Rsi(closes, RSIPeriod)
	latest := rsi[len(rsi)-1]

	return round2((latest - 50) * 2), round2(latest), true
}

// -----------------------------------------------------------------------------

// MACDScore scores the sign and magnitude of (MACD line - signal line).
func MACDScore(closes []float64) (float64, bool) {
	if len(closes) < minBarsMACD {
		return 0, false
	}

	macd, signal, _ := talib.Macd(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	diff := macd[len(macd)-1] - signal[len(signal)-1]

	return round2(clampScore(diff * 10)), true
}

// -----------------------------------------------------------------------------

// ADXScore uses trend strength as a confidence value signed by the dominant
// directional index. Below ADX 25 the trend is considered noise and the
// score is 0.
func ADXScore(highs, lows, closes []float64) (float64, bool) {
	if len(closes) < minBarsADX {
		return 0, false
	}

	adx := talib.Adx(highs, lows, closes, ADXPeriod)
	plusDI := talib.PlusDI(highs, lows, closes, ADXPeriod)
	minusDI := talib.MinusDI(highs, lows, closes, ADXPeriod)

	adxVal := adx[len(adx)-1]
	if adxVal < 25 {
		return 0, true
	}

	strength := math.Min(100, (adxVal-25)*4)
	if plusDI[len(plusDI)-1] > minusDI[len(minusDI)-1] {
		return round2(strength), true
	}
	return round2(-strength), true
}

// -----------------------------------------------------------------------------

// BBScore maps the close position inside the Bollinger band width linearly
// from the lower band (-100) to the upper band (+100).
func BBScore(closes []float64, currentPrice float64) (float64, bool) {
	if len(closes) < minBarsBB {
		return 0, false
	}

	upper, middle, lower := talib.BBands(closes, BBPeriod, BBStdDev, BBStdDev, talib.SMA)

	bandRange := upper[len(upper)-1] - lower[len(lower)-1]
	if bandRange == 0 {
		return 0, true
	}

	position := currentPrice - middle[len(middle)-1]
	return round2(clampScore((position / bandRange) * 200)), true
}

// -----------------------------------------------------------------------------

// SMAScore scores price distance from the 21-period SMA, 1% of distance
// mapping to 10 score points.
func SMAScore(closes []float64, currentPrice float64) (float64, bool) {
	if len(closes) < minBarsSMA {
		return 0, false
	}

	sma := talib.Sma(closes, SMAPeriod)
	smaVal := sma[len(sma)-1]
	if smaVal == 0 {
		return 0, true
	}

	percentDiff := ((currentPrice - smaVal) / smaVal) * 100
	return round2(clampScore(percentDiff * 10)), true
}

// -----------------------------------------------------------------------------

// SupertrendScore is a ternary trend signal: +100 up, -100 down, 0 flat.
func SupertrendScore(highs, lows, closes []float64) (float64, bool) {
	if len(closes) < minBarsSupertrend {
		return 0, false
	}

	direction := supertrendDirection(highs, lows, closes)
	return float64(direction) * 100, true
}

// supertrendDirection runs the classic ATR-band trailing logic and returns
// the direction of the last bar: +1 uptrend, -1 downtrend, 0 undecided.
func supertrendDirection(highs, lows, closes []float64) int {
	atr := talib.Atr(highs, lows, closes, SupertrendPeriod)

	n := len(closes)
	start := SupertrendPeriod // first index with a valid ATR

	finalUpper := make([]float64, n)
	finalLower := make([]float64, n)
	direction := 0

	for i := start; i < n; i++ {
		mid := (highs[i] + lows[i]) / 2
		basicUpper := mid + SupertrendMult*atr[i]
		basicLower := mid - SupertrendMult*atr[i]

		if i == start {
			finalUpper[i] = basicUpper
			finalLower[i] = basicLower
			continue
		}

		if basicUpper < finalUpper[i-1] || closes[i-1] > finalUpper[i-1] {
			finalUpper[i] = basicUpper
		} else {
			finalUpper[i] = finalUpper[i-1]
		}

		if basicLower > finalLower[i-1] || closes[i-1] < finalLower[i-1] {
			finalLower[i] = basicLower
		} else {
			finalLower[i] = finalLower[i-1]
		}

		if closes[i] > finalUpper[i] {
			direction = 1
		} else if closes[i] < finalLower[i] {
			direction = -1
		}
		// otherwise the previous direction carries over
	}

	return direction
}
