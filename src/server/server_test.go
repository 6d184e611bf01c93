package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"live-analyser/src/broadcast"
	"live-analyser/src/logger"
	"live-analyser/src/models"
	"live-analyser/src/storage"
	"live-analyser/src/utils"

	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) (*APIServer, *utils.SnapshotCache, *storage.StoreManager) {
	t.Helper()

	cfg := &models.MConfig{
		Name:      "test",
		LogLevel:  "ERROR",
		Symbols:   []string{"AAPL", "MSFT"},
		Intervals: []string{"1d", "1h"},
		CandlesPerInterval: map[string]int{"1d": 100, "1h": 100},
		MaxCandlesStored:   map[string]int{"1d": 100, "1h": 100},
		Storage: models.MStorageConfig{
			DBType:          "sqlite",
			DBDir:           t.TempDir(),
			MaxScoresStored: 50,
		},
	}

	log := logger.NewLogger("ERROR", "test")
	stores := storage.NewStoreManager(cfg, log)
	t.Cleanup(func() { stores.CloseAll() })

	cache := utils.NewSnapshotCache(50)
	gateway := broadcast.NewGateway(log)
	return NewAPIServer(cfg, gateway, stores, cache, log), cache, stores
}

func doGet(t *testing.T, s *APIServer, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

// -----------------------------------------------------------------------------

func TestGetSymbols(t *testing.T) {
	s, _, _ := testServer(t)

	rec := doGet(t, s, "/api/symbols")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Symbols   []string `json:"symbols"`
		Intervals []string `json:"intervals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, []string{"AAPL", "MSFT"}, body.Symbols)
	require.Equal(t, []string{"1d", "1h"}, body.Intervals)
}

// -----------------------------------------------------------------------------

func TestGetHealth(t *testing.T) {
	s, cache, _ := testServer(t)
	cache.Put(models.MScoreSnapshot{Symbol: "AAPL", Timestamp: 1})

	rec := doGet(t, s, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.EqualValues(t, 1, body["scored_symbols"])
}

// -----------------------------------------------------------------------------

func TestGetCandles(t *testing.T) {
	s, _, stores := testServer(t)

	store, err := stores.Store("AAPL")
	require.NoError(t, err)
	candles := []models.MCandle{
		{Timestamp: 100, Open: 1, High: 2, Low: 1, Close: 2, Volume: 10},
		{Timestamp: 160, Open: 2, High: 3, Low: 2, Close: 3, Volume: 20},
		{Timestamp: 220, Open: 3, High: 4, Low: 3, Close: 4, Volume: 30},
	}
	require.NoError(t, store.UpsertCandles("1h", candles, 100))

	rec := doGet(t, s, "/api/candles/AAPL/1h")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Symbol  string           `json:"symbol"`
		Candles []models.MCandle `json:"candles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Candles, 3)

	// limit keeps the newest bars
	rec = doGet(t, s, "/api/candles/AAPL/1h?limit=2")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Candles, 2)
	require.EqualValues(t, 160, body.Candles[0].Timestamp)
}

func TestGetCandlesRejectsUnknown(t *testing.T) {
	s, _, _ := testServer(t)

	require.Equal(t, http.StatusNotFound, doGet(t, s, "/api/candles/TSLA/1h").Code)
	require.Equal(t, http.StatusNotFound, doGet(t, s, "/api/candles/AAPL/2h").Code)
}

// -----------------------------------------------------------------------------

func TestGetLatestScore(t *testing.T) {
	s, cache, _ := testServer(t)

	// Nothing computed yet
	require.Equal(t, http.StatusNotFound, doGet(t, s, "/api/scores/AAPL").Code)

	cache.Put(models.MScoreSnapshot{
		Symbol: "AAPL", Timestamp: 500, WeightedTotalScore: -14.58,
		Classification: models.ClassNeutral,
	})

	rec := doGet(t, s, "/api/scores/AAPL")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap models.MScoreSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, -14.58, snap.WeightedTotalScore)
	require.Equal(t, models.ClassNeutral, snap.Classification)
}

func TestGetLatestScoreFallsBackToStorage(t *testing.T) {
	s, _, stores := testServer(t)

	store, err := stores.Store("MSFT")
	require.NoError(t, err)
	require.NoError(t, store.UpsertScoreSnapshot(&models.MScoreSnapshot{
		Symbol: "MSFT", Timestamp: 900, WeightedTotalScore: 33,
		Classification: models.ClassBullish,
		Intervals:      map[string]models.MIntervalScore{},
	}))

	// Cache is cold right after a restart; storage still answers
	rec := doGet(t, s, "/api/scores/MSFT")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap models.MScoreSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, 33.0, snap.WeightedTotalScore)
}

// -----------------------------------------------------------------------------

func TestGetScoreHistory(t *testing.T) {
	s, _, stores := testServer(t)

	store, err := stores.Store("AAPL")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.UpsertScoreSnapshot(&models.MScoreSnapshot{
			Symbol: "AAPL", Timestamp: int64(100 + i), WeightedTotalScore: float64(i),
			Classification: models.ClassNeutral,
			Intervals:      map[string]models.MIntervalScore{},
		}))
	}

	rec := doGet(t, s, "/api/scores/AAPL/history?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []models.MScoreSnapshot `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.History, 3)
	// Chronological, newest retained
	require.EqualValues(t, 101, body.History[0].Timestamp)
	require.EqualValues(t, 103, body.History[2].Timestamp)
}

// -----------------------------------------------------------------------------

func TestGetSettingsHidesSecrets(t *testing.T) {
	s, _, _ := testServer(t)
	s.Config.Notifications.Telegram.Token = "super-secret"

	rec := doGet(t, s, "/api/settings")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "super-secret")
}
