// Package store defines the persistence surfaces of the execution core.
// The audit log is append-only; closed positions are kept for post-mortem
// review. Implementations: auditlog (raw SQLite), gormstore (GORM/SQLite)
// and the in-memory store used by paper mode and tests.
package store

import (
	"context"

	"parlay/internal/types"
)

// RecordStore is the append-only execution audit log. Appends are safe to
// run concurrently with reads; records are never mutated or deleted.
type RecordStore interface {
	// Append persists one execution record.
	Append(ctx context.Context, rec types.ExecutionRecord) error
	// ListRecent returns the newest records first, capped at limit.
	ListRecent(ctx context.Context, limit int) ([]types.ExecutionRecord, error)
	// ListClosing returns every exit and partial_exit record, oldest first.
	ListClosing(ctx context.Context) ([]types.ExecutionRecord, error)
	// Close releases the underlying storage.
	Close() error
}

// PositionStore archives position lifecycle state across restarts.
type PositionStore interface {
	// SavePosition inserts or replaces the row for pos.ID.
	SavePosition(ctx context.Context, pos types.Position) error
	// ListOpen returns positions that were open at last save.
	ListOpen(ctx context.Context) ([]types.Position, error)
	// Close releases the underlying storage.
	Close() error
}
