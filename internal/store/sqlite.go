package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"tradeview/internal/model"
)

// SQLiteStore persists price bars to a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads do not block refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger.With().Str("component", "sqlite_store").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.logger.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol    TEXT NOT NULL,
			ts        INTEGER NOT NULL,
			open      REAL NOT NULL,
			high      REAL NOT NULL,
			low       REAL NOT NULL,
			close     REAL NOT NULL,
			volume    REAL NOT NULL,
			PRIMARY KEY (symbol, ts)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_symbol_ts ON price_bars(symbol, ts)`,

		`CREATE TABLE IF NOT EXISTS fetch_log (
			symbol     TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveSeries upserts the bars of a series and records the fetch time.
func (s *SQLiteStore) SaveSeries(series *model.PriceSeries) error {
	if err := series.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO price_bars (symbol, ts, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol, ts) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, b := range series.Bars {
		if _, err := stmt.Exec(series.Symbol, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("upsert bar %s: %w", b.Time.Format(time.RFC3339), err)
		}
	}

	fetchedAt := series.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	if _, err := tx.Exec(`INSERT INTO fetch_log (symbol, fetched_at) VALUES (?,?)
		ON CONFLICT(symbol) DO UPDATE SET fetched_at=excluded.fetched_at`,
		series.Symbol, fetchedAt.Unix()); err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}

	return tx.Commit()
}

// LoadSeries returns cached bars for [from, to], ascending. An empty result
// is returned as a series with no bars, not an error.
func (s *SQLiteStore) LoadSeries(symbol string, from, to time.Time) (*model.PriceSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT ts, open, high, low, close, volume
		FROM price_bars WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC`,
		symbol, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	series := &model.PriceSeries{Symbol: symbol}
	for rows.Next() {
		var ts int64
		var b model.PriceBar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.Unix(ts, 0).UTC()
		series.Bars = append(series.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}

	if fetched, err := s.lastFetchedLocked(symbol); err == nil {
		series.FetchedAt = fetched
	}
	return series, nil
}

// LastFetched returns when the symbol was last written. The zero time means
// the symbol has never been cached.
func (s *SQLiteStore) LastFetched(symbol string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetchedLocked(symbol)
}

func (s *SQLiteStore) lastFetchedLocked(symbol string) (time.Time, error) {
	var ts int64
	err := s.db.QueryRow(`SELECT fetched_at FROM fetch_log WHERE symbol = ?`, symbol).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query fetch_log: %w", err)
	}
	return time.Unix(ts, 0).UTC(), nil
}

// Purge removes bars older than the given cutoff.
func (s *SQLiteStore) Purge(olderThan time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM price_bars WHERE ts < ?`, olderThan.Unix())
	if err != nil {
		return fmt.Errorf("purge bars: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Info().Int64("rows", n).Msg("purged stale bars")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.logger.Info().Msg("closing sqlite store")
	return s.db.Close()
}
