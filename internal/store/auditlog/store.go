// Package auditlog persists the append-only execution record log in SQLite
// via database/sql. WAL mode keeps concurrent reads cheap while the
// executor appends.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"parlay/internal/types"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed execution audit log.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// New opens (or creates) the audit log at path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("audit log path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func ensureSchema(db *sql.DB) error {
	stmt := `CREATE TABLE IF NOT EXISTS execution_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id TEXT NOT NULL UNIQUE,
		action TEXT NOT NULL,
		position_id TEXT NOT NULL,
		recommendation_id TEXT,
		ticker TEXT NOT NULL,
		position_type TEXT NOT NULL,
		contracts INTEGER NOT NULL,
		remaining_contracts INTEGER NOT NULL,
		price INTEGER NOT NULL,
		reason TEXT,
		profit_loss_cents INTEGER NOT NULL DEFAULT 0,
		order_id TEXT,
		ts INTEGER NOT NULL
	)`
	if _, err := db.Exec(stmt); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_execution_records_action_ts ON execution_records(action, ts)`)
	return err
}

// Append inserts one record. Records are never updated or deleted.
func (s *Store) Append(ctx context.Context, rec types.ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("audit log closed")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO execution_records
		(record_id, action, position_id, recommendation_id, ticker, position_type,
		 contracts, remaining_contracts, price, reason, profit_loss_cents, order_id, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Action), rec.PositionID, rec.RecommendationID,
		rec.Ticker, rec.Side.String(), rec.Contracts, rec.Remaining,
		rec.Price, rec.Reason, rec.ProfitCents, rec.VenueOrderID,
		rec.Timestamp.UnixMilli())
	if err != nil {
		return fmt.Errorf("appending execution record failed: %w", err)
	}
	return nil
}

// ListRecent returns the newest records first, capped at limit.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]types.ExecutionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.query(ctx, `SELECT record_id, action, position_id, recommendation_id, ticker,
		position_type, contracts, remaining_contracts, price, reason, profit_loss_cents, order_id, ts
		FROM execution_records ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// ListClosing returns every exit and partial_exit record, oldest first.
func (s *Store) ListClosing(ctx context.Context) ([]types.ExecutionRecord, error) {
	rows, err := s.query(ctx, `SELECT record_id, action, position_id, recommendation_id, ticker,
		position_type, contracts, remaining_contracts, price, reason, profit_loss_cents, order_id, ts
		FROM execution_records WHERE action IN ('exit', 'partial_exit') ORDER BY ts ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func (s *Store) query(ctx context.Context, stmt string, args ...any) (*sql.Rows, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("audit log closed")
	}
	return db.QueryContext(ctx, stmt, args...)
}

func scanRecords(rows *sql.Rows) ([]types.ExecutionRecord, error) {
	defer rows.Close()
	var out []types.ExecutionRecord
	for rows.Next() {
		var (
			rec      types.ExecutionRecord
			action   string
			side     string
			tsMillis int64
		)
		if err := rows.Scan(&rec.ID, &action, &rec.PositionID, &rec.RecommendationID,
			&rec.Ticker, &side, &rec.Contracts, &rec.Remaining, &rec.Price,
			&rec.Reason, &rec.ProfitCents, &rec.VenueOrderID, &tsMillis); err != nil {
			return nil, err
		}
		rec.Action = types.RecordAction(action)
		parsedSide, err := types.ParseSide(side)
		if err != nil {
			return nil, fmt.Errorf("corrupt record %s: %w", rec.ID, err)
		}
		rec.Side = parsedSide
		rec.Timestamp = time.UnixMilli(tsMillis)
		out = append(out, rec)
	}
	return out, rows.Err()
}
