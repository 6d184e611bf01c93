package models

// -----------------------------------------------------------------------------
// Score Model Structures
// All indicator scores and the weighted total live on the -100..+100 scale.
// RSIValue carries the raw 0..100 RSI separately for the alert rules.
// -----------------------------------------------------------------------------

type MIntervalScore struct {
	Interval         string   `json:"interval"`
	Timestamp        int64    `json:"timestamp"`
	RSIScore         float64  `json:"rsi_score"`
	RSIValue         float64  `json:"rsi_value"`
	MACDScore        float64  `json:"macd_score"`
	ADXScore         float64  `json:"adx_score"`
	BBScore          float64  `json:"bb_score"`
	SMAScore         float64  `json:"sma_score"`
	SupertrendScore  float64  `json:"supertrend_score"`
	AvgScore         float64  `json:"avg_score"`
	Support          float64  `json:"support"`
	Resistance       float64  `json:"resistance"`
	CurrentPrice     float64  `json:"current_price"`
	InsufficientData []string `json:"insufficient_data,omitempty"`
}

// -----------------------------------------------------------------------------

// MScoreSnapshot is one cycle's complete result for a symbol.
type MScoreSnapshot struct {
	Symbol             string                    `json:"symbol"`
	Timestamp          int64                     `json:"timestamp"`
	WeightedTotalScore float64                   `json:"weighted_total_score"`
	Classification     string                    `json:"classification"`
	CurrentPrice       float64                   `json:"current_price"`
	Intervals          map[string]MIntervalScore `json:"intervals"`
}

// -----------------------------------------------------------------------------
// Classification labels
// -----------------------------------------------------------------------------

const (
	ClassStrongBullish = "STRONG_BULLISH"
	ClassBullish       = "BULLISH"
	ClassNeutral       = "NEUTRAL"
	ClassBearish       = "BEARISH"
	ClassStrongBearish = "STRONG_BEARISH"
	ClassNoData        = "NO_DATA"
)
