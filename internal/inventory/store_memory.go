package inventory

import (
	"context"
	"sync"
)

// MemStore keeps the Dataset in process. Load and Save copy, so callers
// mutating a loaded Dataset see the same isolation a file gives them.
type MemStore struct {
	mu sync.RWMutex
	d  Dataset
}

func NewMemStore(seed Dataset) *MemStore {
	seed.normalize()
	return &MemStore{d: seed.clone()}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context) (Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.clone(), nil
}

func (s *MemStore) Save(ctx context.Context, d Dataset) error {
	d.normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.d = d.clone()
	return nil
}
