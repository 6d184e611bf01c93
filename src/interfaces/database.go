package interfaces

import "live-analyser/src/models"

// -----------------------------------------------------------------------------
// ISymbolStore defines the storage contract for one symbol.
// Writers for the same symbol are serialized by the store manager; reads may
// run concurrently with writes.
// -----------------------------------------------------------------------------

type ISymbolStore interface {

	// UpsertCandles inserts or replaces candles by timestamp key and enforces
	// the per-interval retention cap in the same transaction.
	UpsertCandles(interval string, candles []models.MCandle, maxStored int) error

	// -----------------------------------------------------------------------------

	// UpsertScoreSnapshot inserts a snapshot keyed by timestamp and evicts
	// the oldest rows beyond the score cap.
	UpsertScoreSnapshot(snapshot *models.MScoreSnapshot) error

	// -----------------------------------------------------------------------------

	// GetCandles returns up to limit candles in chronological order.
	GetCandles(interval string, limit int) ([]models.MCandle, error)

	// -----------------------------------------------------------------------------

	// GetScoreHistory returns up to limit snapshots in chronological order.
	GetScoreHistory(limit int) ([]models.MScoreSnapshot, error)

	// -----------------------------------------------------------------------------

	// GetLatestScore returns the most recent snapshot, or nil when none exists.
	GetLatestScore() (*models.MScoreSnapshot, error)

	// -----------------------------------------------------------------------------

	// Close the underlying connection
	Close() error
}

// -----------------------------------------------------------------------------
// IStoreManager owns the per-symbol stores.
// -----------------------------------------------------------------------------

type IStoreManager interface {

	// Store returns (opening if needed) the store for a symbol.
	Store(symbol string) (ISymbolStore, error)

	// -----------------------------------------------------------------------------

	// WithWriter runs fn under the symbol's writer lock. Single-writer
	// discipline per symbol; different symbols proceed independently.
	WithWriter(symbol string, fn func(ISymbolStore) error) error

	// -----------------------------------------------------------------------------

	// CloseAll closes every open store.
	CloseAll() error
}
