package models

// MConfig Structure
type MConfig struct {
	Name                  string             `yaml:"name"`
	Host                  string             `yaml:"host"`
	Port                  int                `yaml:"port"`
	LogLevel              string             `yaml:"log_level"`
	Symbols               []string           `yaml:"symbols"`
	Intervals             []string           `yaml:"intervals"`
	UpdateIntervalMinutes int                `yaml:"update_interval_minutes"`
	HistoricalLimit       int                `yaml:"historical_limit"`
	CandlesPerInterval    map[string]int     `yaml:"candles_per_interval"`
	MaxCandlesStored      map[string]int     `yaml:"max_candles_stored"`
	TimeframeWeights      map[string]float64 `yaml:"timeframe_weights"`
	MarketHoursOnly       bool               `yaml:"market_hours_only"`
	Storage               MStorageConfig     `yaml:"storage"`
	Network               MNetworkConfig     `yaml:"network"`
	BreakoutRules         MBreakoutRules     `yaml:"breakout_rules"`
	Notifications         MNotificationsCfg  `yaml:"notifications"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // "sqlite" or "postgres"
	DBDir              string `yaml:"db_dir"`  // directory for per-symbol sqlite files
	DBConnectionString string `yaml:"db_connection_string"`
	MaxScoresStored    int    `yaml:"max_scores_stored"`
}

type MNetworkConfig struct {
	RequestTimeout     int    `yaml:"timeout"`
	MaxRetries         int    `yaml:"retries"`
	ConcurrentRequests int    `yaml:"concurrent_requests"`
	UserAgent          string `yaml:"user_agent"`
}

// MBreakoutRules drives the alert evaluator thresholds.
// Scores are on the -100..+100 scale, RSI thresholds on the raw 0..100 scale.
type MBreakoutRules struct {
	TotalScoreThreshold float64 `yaml:"total_score_threshold"`
	RSIOverbought       float64 `yaml:"rsi_overbought"`
	RSIOversold         float64 `yaml:"rsi_oversold"`
	CooldownSeconds     int     `yaml:"cooldown_seconds"`
}

type MNotificationsCfg struct {
	Enabled  bool            `yaml:"enabled"`
	Method   string          `yaml:"method"` // "telegram", "ntfy" or "none"
	Telegram MTelegramConfig `yaml:"telegram"`
	Ntfy     MNtfyConfig     `yaml:"ntfy"`
}

type MTelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID string `yaml:"chat_id"`
}

type MNtfyConfig struct {
	Endpoint string `yaml:"endpoint"`
}
