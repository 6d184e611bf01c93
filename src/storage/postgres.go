package storage

import (
	"database/sql"
	"encoding/json"

	"live-analyser/src/logger"
	"live-analyser/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------
// PostgresStore is the shared-database alternative to the per-file SQLite
// layout: one connection pool, symbol columns instead of per-symbol files.
// The store manager hands each symbol its own PostgresStore view over the
// shared pool.
// -----------------------------------------------------------------------------

type PostgresStore struct {
	Symbol    string
	DB        *sql.DB
	Logger    *logger.Logger
	maxScores int
}

// -----------------------------------------------------------------------------

// OpenPostgres opens the shared pool and ensures the schema exists.
func OpenPostgres(dsn string, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS candles (
			symbol TEXT NOT NULL,
			interval TEXT NOT NULL,
			timestamp BIGINT NOT NULL,
			open DOUBLE PRECISION,
			high DOUBLE PRECISION,
			low DOUBLE PRECISION,
			close DOUBLE PRECISION,
			volume DOUBLE PRECISION,
			PRIMARY KEY (symbol, interval, timestamp)
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			symbol TEXT NOT NULL,
			timestamp BIGINT NOT NULL,
			weighted_total_score DOUBLE PRECISION,
			classification TEXT,
			current_price DOUBLE PRECISION,
			intervals_json TEXT,
			PRIMARY KEY (symbol, timestamp)
		)`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// -----------------------------------------------------------------------------

func NewPostgresStore(db *sql.DB, symbol string, maxScores int, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		Symbol:    symbol,
		DB:        db,
		Logger:    log,
		maxScores: maxScores,
	}
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) UpsertCandles(interval string, candles []models.MCandle, maxStored int) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO candles (symbol, interval, timestamp, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, interval, timestamp) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.Exec(s.Symbol, interval, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return err
		}
	}

	if maxStored > 0 {
		var total int
		err := tx.QueryRow(
			`SELECT COUNT(*) FROM candles WHERE symbol = $1 AND interval = $2`,
			s.Symbol, interval,
		).Scan(&total)
		if err != nil {
			return err
		}
		if total > maxStored {
			_, err = tx.Exec(`
				DELETE FROM candles
				WHERE symbol = $1 AND interval = $2 AND timestamp IN (
					SELECT timestamp FROM candles
					WHERE symbol = $1 AND interval = $2
					ORDER BY timestamp ASC
					LIMIT $3
				)
			`, s.Symbol, interval, total-maxStored)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) UpsertScoreSnapshot(snapshot *models.MScoreSnapshot) error {
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
		INSERT INTO scores (symbol, timestamp, weighted_total_score, classification, current_price, intervals_json)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol, timestamp) DO UPDATE SET
			weighted_total_score = EXCLUDED.weighted_total_score,
			classification = EXCLUDED.classification,
			current_price = EXCLUDED.current_price,
			intervals_json = EXCLUDED.intervals_json
	`, s.Symbol, snapshot.Timestamp, snapshot.WeightedTotalScore, snapshot.Classification,
		snapshot.CurrentPrice, string(intervalsJSON))
	if err != nil {
		return err
	}

	if s.maxScores > 0 {
		var total int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM scores WHERE symbol = $1`, s.Symbol).Scan(&total); err != nil {
			return err
		}
		if total > s.maxScores {
			_, err = tx.Exec(`
				DELETE FROM scores
				WHERE symbol = $1 AND timestamp IN (
					SELECT timestamp FROM scores
					WHERE symbol = $1
					ORDER BY timestamp ASC
					LIMIT $2
				)
			`, s.Symbol, total-s.maxScores)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) GetCandles(interval string, limit int) ([]models.MCandle, error) {
	rows, err := s.DB.Query(`
		SELECT timestamp, open, high, low, close, volume FROM candles
		WHERE symbol = $1 AND interval = $2
		ORDER BY timestamp DESC
		LIMIT $3
	`, s.Symbol, interval, limit)
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

// -----------------------------------------------------------------------------

func (s *PostgresStore) GetScoreHistory(limit int) ([]models.MScoreSnapshot, error) {
	rows, err := s.DB.Query(`
		SELECT timestamp, weighted_total_score, classification, current_price, intervals_json
		FROM scores
		WHERE symbol = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, s.Symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.MScoreSnapshot
	for rows.Next() {
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
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	return snapshots, nil
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) GetLatestScore() (*models.MScoreSnapshot, error) {
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

// Close is a no-op for the per-symbol view; the shared pool is closed by the
// store manager.
func (s *PostgresStore) Close() error {
	return nil
}
