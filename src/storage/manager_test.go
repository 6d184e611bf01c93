package storage

import (
	"testing"

	"live-analyser/src/interfaces"
	"live-analyser/src/logger"
	"live-analyser/src/models"

	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *StoreManager {
	t.Helper()
	cfg := &models.MConfig{
		Symbols:   []string{"AAPL", "MSFT"},
		Intervals: []string{"1h"},
		Storage: models.MStorageConfig{
			DBType:          "sqlite",
			DBDir:           t.TempDir(),
			MaxScoresStored: 10,
		},
	}
	m := NewStoreManager(cfg, logger.NewLogger("ERROR", "test"))
	t.Cleanup(func() { m.CloseAll() })
	return m
}

// -----------------------------------------------------------------------------

func TestManagerReusesStores(t *testing.T) {
	m := testManager(t)

	first, err := m.Store("AAPL")
	require.NoError(t, err)
	second, err := m.Store("AAPL")
	require.NoError(t, err)
	require.Same(t, first, second, "same symbol must share one store")

	other, err := m.Store("MSFT")
	require.NoError(t, err)
	require.NotSame(t, first, other)
}

// -----------------------------------------------------------------------------

func TestManagerWithWriter(t *testing.T) {
	m := testManager(t)

	err := m.WithWriter("AAPL", func(store interfaces.ISymbolStore) error {
		return store.UpsertCandles("1h", []models.MCandle{
			{Timestamp: 100, Open: 1, High: 2, Low: 1, Close: 2, Volume: 10},
		}, 50)
	})
	require.NoError(t, err)

	store, err := m.Store("AAPL")
	require.NoError(t, err)
	candles, err := store.GetCandles("1h", 10)
	require.NoError(t, err)
	require.Len(t, candles, 1)
}

// -----------------------------------------------------------------------------

func TestManagerCloseAllResets(t *testing.T) {
	m := testManager(t)

	_, err := m.Store("AAPL")
	require.NoError(t, err)
	require.NoError(t, m.CloseAll())

	// Stores reopen cleanly after a close
	store, err := m.Store("AAPL")
	require.NoError(t, err)
	_, err = store.GetCandles("1h", 1)
	require.NoError(t, err)
}
