package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"live-analyser/src/logger"
	"live-analyser/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------
// SQLiteStore holds one symbol's candles and score history in its own
// database file, one candle table per interval.
// -----------------------------------------------------------------------------

type SQLiteStore struct {
	Symbol    string
	DB        *sql.DB
	Logger    *logger.Logger
	maxScores int
}

// -----------------------------------------------------------------------------

// safeSymbol converts a ticker into a filename-safe form.
func safeSymbol(symbol string) string {
	s := strings.ReplaceAll(symbol, "/", "-")
	return strings.ReplaceAll(s, "^", "")
}

// sanitizeInterval converts an interval into a safe table-name suffix.
func sanitizeInterval(interval string) string {
	s := strings.ReplaceAll(interval, "m", "min")
	s = strings.ReplaceAll(s, "h", "hr")
	return strings.ReplaceAll(s, "d", "day")
}

func candleTable(interval string) string {
	return "candles_" + sanitizeInterval(interval)
}

// -----------------------------------------------------------------------------

func NewSQLiteStore(dbDir, symbol string, intervals []string, maxScores int, log *logger.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, safeSymbol(symbol)+".sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{
		Symbol:    symbol,
		DB:        db,
		Logger:    log,
		maxScores: maxScores,
	}

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		s.Logger.Warning("Failed to set WAL mode for %s: %v", symbol, err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		s.Logger.Warning("Failed to set synchronous mode for %s: %v", symbol, err)
	}

	if err := s.createTables(intervals); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) createTables(intervals []string) error {
	for _, interval := range intervals {
		table := candleTable(interval)
		query := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				timestamp INTEGER PRIMARY KEY,
				open REAL,
				high REAL,
				low REAL,
				close REAL,
				volume REAL
			);
		`, table)
		if _, err := s.DB.Exec(query); err != nil {
			return fmt.Errorf("failed to create %s: %w", table, err)
		}
		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_ts ON %s(timestamp DESC)", table, table)
		if _, err := s.DB.Exec(idx); err != nil {
			return fmt.Errorf("failed to index %s: %w", table, err)
		}
	}

	query := `
		CREATE TABLE IF NOT EXISTS scores (
			timestamp INTEGER PRIMARY KEY,
			weighted_total_score REAL,
			classification TEXT,
			current_price REAL,
			intervals_json TEXT
		);
	`
	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create scores: %w", err)
	}
	if _, err := s.DB.Exec("CREATE INDEX IF NOT EXISTS idx_scores_ts ON scores(timestamp DESC)"); err != nil {
		return fmt.Errorf("failed to index scores: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

// UpsertCandles inserts or replaces candles by timestamp and trims rows
// beyond maxStored inside the same transaction, so the cap holds even
// across a crash-restart.
func (s *SQLiteStore) UpsertCandles(interval string, candles []models.MCandle, maxStored int) error {
	if len(candles) == 0 {
		return nil
	}

	table := candleTable(interval)

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(timestamp) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume
	`, table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.Exec(c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return err
		}
	}

	if err := trimOldest(tx, table, maxStored); err != nil {
		return err
	}

	return tx.Commit()
}

// trimOldest deletes oldest rows so the table holds at most maxRows.
func trimOldest(tx *sql.Tx, table string, maxRows int) error {
	if maxRows <= 0 {
		return nil
	}

	var total int
	if err := tx.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&total); err != nil {
		return err
	}
	if total <= maxRows {
		return nil
	}

	_, err := tx.Exec(fmt.Sprintf(`
		DELETE FROM %s
		WHERE timestamp IN (
			SELECT timestamp FROM %s
			ORDER BY timestamp ASC
			LIMIT ?
		)
	`, table, table), total-maxRows)
	return err
}

// -----------------------------------------------------------------------------

// UpsertScoreSnapshot stores one cycle snapshot keyed by timestamp and caps
// the score history.
func (s *SQLiteStore) UpsertScoreSnapshot(snapshot *models.MScoreSnapshot) error {
	intervalsJSON, err := json.Marshal(snapshot.Intervals)
	if err != nil {
		return err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO scores (timestamp, weighted_total_score, classification, current_price, intervals_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(timestamp) DO UPDATE SET
			weighted_total_score = excluded.weighted_total_score,
			classification = excluded.classification,
			current_price = excluded.current_price,
			intervals_json = excluded.intervals_json
	`, snapshot.Timestamp, snapshot.WeightedTotalScore, snapshot.Classification,
		snapshot.CurrentPrice, string(intervalsJSON))
	if err != nil {
		return err
	}

	if err := trimOldest(tx, "scores", s.maxScores); err != nil {
		return err
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

// GetCandles returns up to limit candles, oldest first.
func (s *SQLiteStore) GetCandles(interval string, limit int) ([]models.MCandle, error) {
	rows, err := s.DB.Query(fmt.Sprintf(`
		SELECT timestamp, open, high, low, close, volume FROM %s
		ORDER BY timestamp DESC
		LIMIT ?
	`, candleTable(interval)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candles []models.MCandle
	for rows.Next() {
		var c models.MCandle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reverseCandles(candles)
	return candles, nil
}

func reverseCandles(candles []models.MCandle) {
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
}

// -----------------------------------------------------------------------------

// GetScoreHistory returns up to limit snapshots, oldest first.
func (s *SQLiteStore) GetScoreHistory(limit int) ([]models.MScoreSnapshot, error) {
	rows, err := s.DB.Query(`
		SELECT timestamp, weighted_total_score, classification, current_price, intervals_json
		FROM scores
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.MScoreSnapshot
	for rows.Next() {
		snap, err := s.scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	return snapshots, nil
}

func (s *SQLiteStore) scanSnapshot(rows *sql.Rows) (*models.MScoreSnapshot, error) {
	var snap models.MScoreSnapshot
	var intervalsJSON string
	if err := rows.Scan(&snap.Timestamp, &snap.WeightedTotalScore, &snap.Classification,
		&snap.CurrentPrice, &intervalsJSON); err != nil {
		return nil, err
	}
	snap.Symbol = s.Symbol
	if err := json.Unmarshal([]byte(intervalsJSON), &snap.Intervals); err != nil {
		return nil, err
	}
	return &snap, nil
}

// -----------------------------------------------------------------------------

// GetLatestScore returns the most recent snapshot, or nil when none exists.
func (s *SQLiteStore) GetLatestScore() (*models.MScoreSnapshot, error) {
	history, err := s.GetScoreHistory(1)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	return &history[0], nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
