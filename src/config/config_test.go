package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validYAML = `
name: test-analyser
port: 5001
symbols:
  - AAPL
  - "^GSPC"
intervals:
  - 1d
  - 1h
timeframe_weights:
  1d: 0.6
  1h: 0.4
storage:
  db_type: sqlite
  db_dir: /tmp/test-db
network:
  timeout: 10
  retries: 2
  concurrent_requests: 3
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// -----------------------------------------------------------------------------

func TestNewConfigAppliesDefaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	require.Equal(t, "test-analyser", cfg.Name)
	require.Equal(t, 5001, cfg.Port)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, 5, cfg.UpdateIntervalMinutes)
	require.Equal(t, 200, cfg.HistoricalLimit)
	require.Equal(t, 500, cfg.Storage.MaxScoresStored)
	require.Equal(t, 100, cfg.CandlesPerInterval["1d"])
	require.Equal(t, 100, cfg.MaxCandlesStored["1h"])

	require.Equal(t, 50.0, cfg.BreakoutRules.TotalScoreThreshold)
	require.Equal(t, 70.0, cfg.BreakoutRules.RSIOverbought)
	require.Equal(t, 30.0, cfg.BreakoutRules.RSIOversold)
	require.Equal(t, 300, cfg.BreakoutRules.CooldownSeconds)
	require.Equal(t, "none", cfg.Notifications.Method)

	require.Equal(t, 0.6, cfg.Weight("1d"))
	require.Zero(t, cfg.Weight("5m"))
}

// -----------------------------------------------------------------------------

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNewConfigBadYAML(t *testing.T) {
	_, err := NewConfig(writeConfig(t, "symbols: [unclosed"))
	require.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no symbols", "intervals: [1d]\nstorage: {db_type: sqlite, db_dir: x}\nnetwork: {timeout: 5, concurrent_requests: 1}"},
		{"privileged port", "port: 80\nsymbols: [AAPL]\nintervals: [1d]\ntimeframe_weights: {1d: 1}\nstorage: {db_type: sqlite, db_dir: x}\nnetwork: {timeout: 5, concurrent_requests: 1}"},
		{"unknown interval", "symbols: [AAPL]\nintervals: [3m]\nstorage: {db_type: sqlite, db_dir: x}\nnetwork: {timeout: 5, concurrent_requests: 1}"},
		{"unweighted interval", "symbols: [AAPL]\nintervals: [1d, 1h]\ntimeframe_weights: {1d: 1}\nstorage: {db_type: sqlite, db_dir: x}\nnetwork: {timeout: 5, concurrent_requests: 1}"},
		{"bad db type", "symbols: [AAPL]\nintervals: [1d]\ntimeframe_weights: {1d: 1}\nstorage: {db_type: mongo}\nnetwork: {timeout: 5, concurrent_requests: 1}"},
		{"postgres without dsn", "symbols: [AAPL]\nintervals: [1d]\ntimeframe_weights: {1d: 1}\nstorage: {db_type: postgres}\nnetwork: {timeout: 5, concurrent_requests: 1}"},
		{"weight above one", "symbols: [AAPL]\nintervals: [1d]\ntimeframe_weights: {1d: 1.5}\nstorage: {db_type: sqlite, db_dir: x}\nnetwork: {timeout: 5, concurrent_requests: 1}"},
		{"inverted rsi thresholds", "symbols: [AAPL]\nintervals: [1d]\ntimeframe_weights: {1d: 1}\nstorage: {db_type: sqlite, db_dir: x}\nnetwork: {timeout: 5, concurrent_requests: 1}\nbreakout_rules: {rsi_overbought: 30, rsi_oversold: 70}"},
		{"bad notification method", "symbols: [AAPL]\nintervals: [1d]\ntimeframe_weights: {1d: 1}\nstorage: {db_type: sqlite, db_dir: x}\nnetwork: {timeout: 5, concurrent_requests: 1}\nnotifications: {enabled: true, method: pigeon}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(writeConfig(t, tc.yaml))
			require.Error(t, err)
		})
	}
}

// -----------------------------------------------------------------------------

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok-123")
	t.Setenv("TELEGRAM_CHAT_ID", "chat-9")
	t.Setenv("DB_CONNECTION_STRING", "postgres://u:p@localhost/db")

	cfg, err := NewConfig(writeConfig(t, validYAML))
	require.NoError(t, err)

	require.Equal(t, "tok-123", cfg.Notifications.Telegram.Token)
	require.Equal(t, "chat-9", cfg.Notifications.Telegram.ChatID)
	require.Equal(t, "postgres://u:p@localhost/db", cfg.Storage.DBConnectionString)
}
