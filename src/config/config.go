package config

import (
	"fmt"
	"os"

	"live-analyser/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// Intervals accepted by the candle source and the storage layer.
var knownIntervals = map[string]bool{
	"1m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "1d": true, "1wk": true,
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from a YAML file
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()
	config.applyEnvOverrides()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "live-analyser"
	}
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.UpdateIntervalMinutes == 0 {
		c.UpdateIntervalMinutes = 5
	}
	if c.HistoricalLimit == 0 {
		c.HistoricalLimit = 200
	}
	if c.CandlesPerInterval == nil {
		c.CandlesPerInterval = make(map[string]int)
	}
	if c.MaxCandlesStored == nil {
		c.MaxCandlesStored = make(map[string]int)
	}
	for _, iv := range c.Intervals {
		if c.CandlesPerInterval[iv] == 0 {
			c.CandlesPerInterval[iv] = 100
		}
		if c.MaxCandlesStored[iv] == 0 {
			c.MaxCandlesStored[iv] = 100
		}
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Storage.DBDir == "" {
		c.Storage.DBDir = "db"
	}
	if c.Storage.MaxScoresStored == 0 {
		c.Storage.MaxScoresStored = 500
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 15
	}
	if c.Network.MaxRetries == 0 {
		c.Network.MaxRetries = 3
	}
	if c.Network.ConcurrentRequests == 0 {
		c.Network.ConcurrentRequests = 4
	}
	if c.BreakoutRules.TotalScoreThreshold == 0 {
		c.BreakoutRules.TotalScoreThreshold = 50
	}
	if c.BreakoutRules.RSIOverbought == 0 {
		c.BreakoutRules.RSIOverbought = 70
	}
	if c.BreakoutRules.RSIOversold == 0 {
		c.BreakoutRules.RSIOversold = 30
	}
	if c.BreakoutRules.CooldownSeconds == 0 {
		c.BreakoutRules.CooldownSeconds = 300
	}
	if c.Notifications.Method == "" {
		c.Notifications.Method = "none"
	}
}

// -----------------------------------------------------------------------------

// applyEnvOverrides pulls secrets from the environment so they never have to
// live in the YAML file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Notifications.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv("NTFY_ENDPOINT"); v != "" {
		c.Notifications.Ntfy.Endpoint = v
	}
	if v := os.Getenv("DB_CONNECTION_STRING"); v != "" {
		c.Storage.DBConnectionString = v
	}
}

// -----------------------------------------------------------------------------

// Validate performs configuration validation. Any error here is fatal: the
// process must not start with an invalid configuration.
func (c *Config) Validate() error {
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol must be configured")
	}
	for i, s := range c.Symbols {
		if s == "" {
			return fmt.Errorf("symbol %d cannot be empty", i)
		}
	}

	if len(c.Intervals) == 0 {
		return fmt.Errorf("at least one interval must be configured")
	}
	for _, iv := range c.Intervals {
		if !knownIntervals[iv] {
			return fmt.Errorf("unknown interval %q", iv)
		}
	}

	if c.UpdateIntervalMinutes <= 0 {
		return fmt.Errorf("update interval must be greater than 0")
	}

	for iv, w := range c.TimeframeWeights {
		if w < 0 || w > 1 {
			return fmt.Errorf("timeframe weight for %q must be between 0 and 1, got %v", iv, w)
		}
	}
	for _, iv := range c.Intervals {
		if _, ok := c.TimeframeWeights[iv]; !ok {
			return fmt.Errorf("interval %q has no timeframe weight configured", iv)
		}
	}

	r := c.BreakoutRules
	if r.TotalScoreThreshold <= 0 || r.TotalScoreThreshold > 100 {
		return fmt.Errorf("total score threshold must be in (0, 100], got %v", r.TotalScoreThreshold)
	}
	if r.RSIOverbought <= 0 || r.RSIOverbought > 100 || r.RSIOversold < 0 || r.RSIOversold >= 100 {
		return fmt.Errorf("RSI thresholds must be within 0..100")
	}
	if r.RSIOversold >= r.RSIOverbought {
		return fmt.Errorf("RSI oversold (%v) must be below overbought (%v)", r.RSIOversold, r.RSIOverbought)
	}
	if r.CooldownSeconds < 0 {
		return fmt.Errorf("alert cooldown cannot be negative")
	}

	switch c.Storage.DBType {
	case "sqlite":
		if c.Storage.DBDir == "" {
			return fmt.Errorf("database directory cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type %q", c.Storage.DBType)
	}

	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.ConcurrentRequests <= 0 {
		return fmt.Errorf("concurrent requests must be greater than 0")
	}

	switch c.Notifications.Method {
	case "telegram", "ntfy", "none":
	default:
		return fmt.Errorf("unknown notification method %q", c.Notifications.Method)
	}

	return nil
}

// -----------------------------------------------------------------------------

// Weight returns the configured weight for an interval (0 when absent).
func (c *Config) Weight(interval string) float64 {
	return c.TimeframeWeights[interval]
}
