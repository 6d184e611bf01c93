package models

// MCandle represents one stored OHLCV bar for a (symbol, interval).
// Timestamp is the unique key inside an interval table; the most recent
// bar may be replaced in place while it is still forming.
type MCandle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}
