package storage

import (
	"database/sql"
	"fmt"
	"sync"

	"live-analyser/src/interfaces"
	"live-analyser/src/logger"
	"live-analyser/src/models"
)

// -----------------------------------------------------------------------------
// StoreManager owns one store per symbol and enforces the single-writer
// discipline: writes to the same symbol are serialized through a per-symbol
// mutex while different symbols proceed independently. Reads never take the
// writer lock.
// -----------------------------------------------------------------------------

type StoreManager struct {
	Config *models.MConfig
	Logger *logger.Logger

	mu          sync.Mutex
	stores      map[string]interfaces.ISymbolStore
	writerLocks map[string]*sync.Mutex
	pgPool      *sql.DB // shared pool, postgres mode only
}

// -----------------------------------------------------------------------------

func NewStoreManager(cfg *models.MConfig, log *logger.Logger) *StoreManager {
	return &StoreManager{
		Config:      cfg,
		Logger:      log,
		stores:      make(map[string]interfaces.ISymbolStore),
		writerLocks: make(map[string]*sync.Mutex),
	}
}

// -----------------------------------------------------------------------------

// Store returns the store for a symbol, opening it on first use.
func (m *StoreManager) Store(symbol string) (interfaces.ISymbolStore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeLocked(symbol)
}

func (m *StoreManager) storeLocked(symbol string) (interfaces.ISymbolStore, error) {
	if store, ok := m.stores[symbol]; ok {
		return store, nil
	}

	var store interfaces.ISymbolStore
	var err error

	switch m.Config.Storage.DBType {
	case "postgres":
		if m.pgPool == nil {
			m.pgPool, err = OpenPostgres(m.Config.Storage.DBConnectionString, m.Logger)
			if err != nil {
				return nil, fmt.Errorf("failed to open postgres: %w", err)
			}
		}
		store = NewPostgresStore(m.pgPool, symbol, m.Config.Storage.MaxScoresStored, m.Logger)
	default:
		store, err = NewSQLiteStore(m.Config.Storage.DBDir, symbol, m.Config.Intervals,
			m.Config.Storage.MaxScoresStored, m.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store for %s: %w", symbol, err)
		}
	}

	m.stores[symbol] = store
	m.writerLocks[symbol] = &sync.Mutex{}
	m.Logger.Info("Opened %s store for %s", m.Config.Storage.DBType, symbol)
	return store, nil
}

// -----------------------------------------------------------------------------

// WithWriter runs fn under the symbol's writer lock.
func (m *StoreManager) WithWriter(symbol string, fn func(interfaces.ISymbolStore) error) error {
	m.mu.Lock()
	store, err := m.storeLocked(symbol)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	lock := m.writerLocks[symbol]
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(store)
}

// -----------------------------------------------------------------------------

// CloseAll closes every open store and the shared pool if any.
func (m *StoreManager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for symbol, store := range m.stores {
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close store for %s: %w", symbol, err)
		}
	}
	m.stores = make(map[string]interfaces.ISymbolStore)

	if m.pgPool != nil {
		if err := m.pgPool.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.pgPool = nil
	}

	return firstErr
}
