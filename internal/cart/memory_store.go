package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps carts in process memory. Matching the original behavior,
// carts do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]Line
}

// NewMemoryStore returns an empty in-process cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[uuid.UUID][]Line{}}
}

func (s *MemoryStore) Get(ctx context.Context, buyerID uuid.UUID) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines, ok := s.carts[buyerID]
	if !ok {
		return []Line{}, nil
	}
	return append([]Line(nil), lines...), nil
}

func (s *MemoryStore) Put(ctx context.Context, buyerID uuid.UUID, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[buyerID] = append([]Line(nil), lines...)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, buyerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, buyerID)
	return nil
}
