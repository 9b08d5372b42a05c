package store

import (
	"context"
	"sync"

	"parlay/internal/types"
)

// MemoryRecordStore keeps the audit log in memory. Paper mode and tests use
// it; the process lifetime is the log lifetime.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records []types.ExecutionRecord
}

// NewMemoryRecordStore returns an empty in-memory log.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{}
}

func (m *MemoryRecordStore) Append(_ context.Context, rec types.ExecutionRecord) error {
	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()
	return nil
}

func (m *MemoryRecordStore) ListRecent(_ context.Context, limit int) ([]types.ExecutionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]types.ExecutionRecord, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *MemoryRecordStore) ListClosing(_ context.Context) ([]types.ExecutionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.ExecutionRecord, 0, len(m.records))
	for _, rec := range m.records {
		if rec.Closing() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MemoryRecordStore) Close() error { return nil }
