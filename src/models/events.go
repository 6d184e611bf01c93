package models

// -----------------------------------------------------------------------------
// Push Events
// These are the payloads delivered to broadcast subscribers (and from there
// to websocket clients).
// -----------------------------------------------------------------------------

const (
	EventScoreUpdate = "score_update"
	EventAlert       = "alert"
)

// MEvent is the envelope for everything flowing through the gateway.
type MEvent struct {
	Type  string          `json:"type"` // "score_update" or "alert"
	Score *MScoreSnapshot `json:"score,omitempty"`
	Alert *MAlertEvent    `json:"alert,omitempty"`
}

// -----------------------------------------------------------------------------

// Alert types produced by the evaluator.
const (
	AlertStrongBuy      = "STRONG_BUY"
	AlertStrongSell     = "STRONG_SELL"
	AlertOverbought     = "OVERBOUGHT"
	AlertOversold       = "OVERSOLD"
	AlertScoreCrossBuy  = "SCORE_CROSS_BUY"
	AlertScoreCrossSell = "SCORE_CROSS_SELL"
)

type MAlertEvent struct {
	Symbol    string `json:"symbol"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}
