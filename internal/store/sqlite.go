package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SignalDesk/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists daily bars to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read while sync writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite bar store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol     TEXT    NOT NULL,
			date       TEXT    NOT NULL,
			open       REAL    NOT NULL,
			high       REAL    NOT NULL,
			low        REAL    NOT NULL,
			close      REAL    NOT NULL,
			volume     REAL    NOT NULL,
			source     TEXT,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_bars_date ON daily_bars(date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// UpsertBars writes bars keyed by (symbol, date); a later sync of the same
// session replaces the earlier row.
func (s *SQLiteStore) UpsertBars(ctx context.Context, symbol, source string, bars []model.OHLCV) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_bars
		(symbol, date, open, high, low, close, volume, source, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume,
			source=excluded.source, updated_at=excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Time.UTC().Format(dateLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume, source, now); err != nil {
			return 0, fmt.Errorf("upsert %s %s: %w", symbol, b.Time.Format(dateLayout), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(bars), nil
}

// LoadBars returns the most recent `days` bars of symbol, oldest first.
// days <= 0 returns everything.
func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	limit := days
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT date, open, high, low, close, volume
		FROM daily_bars WHERE symbol = ? ORDER BY date DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var date string
		var b model.OHLCV
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		b.Time = t
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// Prune deletes bars dated before olderThan.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM daily_bars WHERE date < ?`, olderThan.UTC().Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite bar store")
	return s.db.Close()
}
