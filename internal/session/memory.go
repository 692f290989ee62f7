package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in an in-process map with optimistic locking.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Data
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Data)}
}

func (s *MemoryStore) Create(_ context.Context, data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	data.CreatedAt = now
	data.UpdatedAt = now
	data.Version = 1

	s.sessions[data.ID] = data.Clone()
	return nil
}

// Get returns a copy of the stored session. Handing out the stored pointer
// would let two concurrent callers mutate the same History and would make
// the Update version check always pass against themselves.
func (s *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.sessions[id]
	if !exists {
		return nil, nil
	}
	return data.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.sessions[data.ID]
	if !exists {
		return ErrNotFound
	}
	if stored.Version != data.Version {
		return ErrVersionConflict
	}

	data.Version++
	data.UpdatedAt = time.Now()
	s.sessions[data.ID] = data.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
