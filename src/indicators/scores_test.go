package indicators

import (
	"math"
	"testing"
)

// -----------------------------------------------------------------------------
// Series generators
// -----------------------------------------------------------------------------

// trendSeries builds n bars moving by step per bar starting at base.
func trendSeries(n int, base, step float64) (highs, lows, closes []float64) {
	highs = make([]float64, n)
	lows = make([]float64, n)
	closes = make([]float64, n)
	for i := 0; i < n; i++ {
		c := base + step*float64(i)
		closes[i] = c
		highs[i] = c + 0.5
		lows[i] = c - 0.5
	}
	return
}

func flatSeries(n int, price float64) (highs, lows, closes []float64) {
	return trendSeries(n, price, 0)
}

// -----------------------------------------------------------------------------

func TestRSIScoreInsufficientData(t *testing.T) {
	_, _, closes := flatSeries(minBarsRSI-1, 100)

	score, value, ok := RSIScore(closes)
	if ok {
		t.Fatal("expected ok=false for a short series")
	}
	if score != 0 || value != 50 {
		t.Fatalf("short series must report neutral, got score=%v value=%v", score, value)
	}
}

func TestRSIScoreDirection(t *testing.T) {
	_, _, up := trendSeries(50, 100, 1)
	_, _, down := trendSeries(50, 200, -1)

	upScore, upValue, ok := RSIScore(up)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if upScore <= 0 {
		t.Errorf("uptrend RSI score should be positive, got %v", upScore)
	}
	if upValue < 50 || upValue > 100 {
		t.Errorf("uptrend raw RSI out of range: %v", upValue)
	}

	downScore, downValue, _ := RSIScore(down)
	if downScore >= 0 {
		t.Errorf("downtrend RSI score should be negative, got %v", downScore)
	}
	if downValue > 50 || downValue < 0 {
		t.Errorf("downtrend raw RSI out of range: %v", downValue)
	}
}

// -----------------------------------------------------------------------------

func TestMACDScoreBounds(t *testing.T) {
	// A steep trend saturates the MACD diff well past the clamp.
	_, _, closes := trendSeries(60, 100, 20)

	score, ok := MACDScore(closes)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if score != 100 {
		t.Errorf("steep uptrend should clamp to +100, got %v", score)
	}

	if _, ok := MACDScore(closes[:minBarsMACD-1]); ok {
		t.Error("expected ok=false below the MACD lookback")
	}
}

// -----------------------------------------------------------------------------

func TestADXScoreFlatIsNoise(t *testing.T) {
	highs, lows, closes := flatSeries(60, 100)

	score, ok := ADXScore(highs, lows, closes)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if score != 0 {
		t.Errorf("flat market ADX should score 0, got %v", score)
	}
}

func TestADXScoreTrendSign(t *testing.T) {
	highs, lows, closes := trendSeries(80, 100, 2)
	score, ok := ADXScore(highs, lows, closes)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if score <= 0 || score > 100 {
		t.Errorf("strong uptrend ADX score should be in (0,100], got %v", score)
	}

	highs, lows, closes = trendSeries(80, 300, -2)
	score, _ = ADXScore(highs, lows, closes)
	if score >= 0 || score < -100 {
		t.Errorf("strong downtrend ADX score should be in [-100,0), got %v", score)
	}
}

// -----------------------------------------------------------------------------

func TestBBScoreFlatBand(t *testing.T) {
	_, _, closes := flatSeries(30, 100)

	score, ok := BBScore(closes, 100)
	if !ok {
		t.Fatal("expected ok=true")
	}
	// Zero band width must not divide by zero
	if score != 0 {
		t.Errorf("zero-width band should score 0, got %v", score)
	}
}

func TestBBScoreBounds(t *testing.T) {
	_, _, closes := trendSeries(40, 100, 1)

	score, ok := BBScore(closes, closes[len(closes)-1])
	if !ok {
		t.Fatal("expected ok=true")
	}
	if score < -100 || score > 100 {
		t.Errorf("BB score out of bounds: %v", score)
	}
	if score <= 0 {
		t.Errorf("close above middle band should score positive, got %v", score)
	}
}

// -----------------------------------------------------------------------------

func TestSMAScore(t *testing.T) {
	_, _, closes := flatSeries(30, 100)

	score, ok := SMAScore(closes, 100)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if score != 0 {
		t.Errorf("price on its SMA should score 0, got %v", score)
	}

	// 5% above the flat SMA maps to +50
	score, _ = SMAScore(closes, 105)
	if math.Abs(score-50) > 1 {
		t.Errorf("5%% above SMA should score about +50, got %v", score)
	}
}

// -----------------------------------------------------------------------------

func TestSupertrendScore(t *testing.T) {
	highs, lows, closes := trendSeries(50, 100, 2)
	score, ok := SupertrendScore(highs, lows, closes)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if score != 100 {
		t.Errorf("strong uptrend supertrend should be +100, got %v", score)
	}

	highs, lows, closes = trendSeries(50, 300, -2)
	score, _ = SupertrendScore(highs, lows, closes)
	if score != -100 {
		t.Errorf("strong downtrend supertrend should be -100, got %v", score)
	}

	if _, ok := SupertrendScore(nil, nil, nil); ok {
		t.Error("expected ok=false on an empty series")
	}
}

// -----------------------------------------------------------------------------

func TestSupportResistanceBracketPrice(t *testing.T) {
	highs, lows, closes := trendSeries(40, 100, 1)
	price := closes[len(closes)-1]

	support, resistance := SupportResistance(highs, lows, closes)
	if support >= price {
		t.Errorf("support %v should be below price %v", support, price)
	}
	if resistance <= price {
		t.Errorf("resistance %v should be above price %v", resistance, price)
	}

	support, resistance = SupportResistance(nil, nil, nil)
	if support != 0 || resistance != 0 {
		t.Errorf("empty series should yield zero levels, got %v/%v", support, resistance)
	}
}
