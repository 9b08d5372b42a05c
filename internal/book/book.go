// Package book keeps the active-position set. Each position has a single
// logical writer at a time: mutations run inside Update's per-id exclusive
// section, and the map itself supports concurrent insert/remove/iterate.
package book

import (
	"fmt"
	"sync"

	"parlay/internal/types"
)

type slot struct {
	mu  sync.Mutex
	pos *types.Position
}

// Book is the arena of open positions keyed by position id.
type Book struct {
	mu    sync.RWMutex
	slots map[string]*slot
}

// New returns an empty book.
func New() *Book {
	return &Book{slots: make(map[string]*slot)}
}

// Insert adds a freshly created position. Duplicate ids are a caller bug.
func (b *Book) Insert(pos *types.Position) error {
	if pos == nil || pos.ID == "" {
		return fmt.Errorf("book: position missing id")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.slots[pos.ID]; exists {
		return fmt.Errorf("book: duplicate position id %s", pos.ID)
	}
	cp := *pos
	b.slots[pos.ID] = &slot{pos: &cp}
	return nil
}

// Get returns a copy of the position, or false when absent.
func (b *Book) Get(id string) (types.Position, bool) {
	b.mu.RLock()
	s, ok := b.slots[id]
	b.mu.RUnlock()
	if !ok {
		return types.Position{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.pos, true
}

// Update runs fn on the live position under its exclusive lock. When fn
// leaves the position closed, the slot is removed from the arena, so a
// second concurrent exit observes ErrPositionNotFound. fn errors abort the
// update with the position untouched by the removal step.
func (b *Book) Update(id string, fn func(pos *types.Position) error) error {
	b.mu.RLock()
	s, ok := b.slots[id]
	b.mu.RUnlock()
	if !ok {
		return types.ErrPositionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos.Status == types.PositionClosed {
		// Lost the race against another exit on the same id.
		return types.ErrPositionNotFound
	}
	if err := fn(s.pos); err != nil {
		return err
	}
	if s.pos.Status == types.PositionClosed {
		b.mu.Lock()
		delete(b.slots, id)
		b.mu.Unlock()
	}
	return nil
}

// List returns copies of every open position, in no particular order.
func (b *Book) List() []types.Position {
	b.mu.RLock()
	snapshot := make([]*slot, 0, len(b.slots))
	for _, s := range b.slots {
		snapshot = append(snapshot, s)
	}
	b.mu.RUnlock()

	out := make([]types.Position, 0, len(snapshot))
	for _, s := range snapshot {
		s.mu.Lock()
		if s.pos.Open() {
			out = append(out, *s.pos)
		}
		s.mu.Unlock()
	}
	return out
}

// Len reports how many positions are on the book.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.slots)
}
