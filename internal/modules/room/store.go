// README: Room store abstraction with the in-memory implementation.
package room

import (
	"context"
	"sync"
)

// Store is the injected persistence boundary for rooms. Implementations:
// MemoryStore for single-process use, PGStore for durable storage. Both
// have snapshot semantics: Get returns a room no other caller holds, and
// Put takes ownership of nothing the caller keeps mutating.
type Store interface {
	Get(ctx context.Context, code string) (*Room, error)
	Put(ctx context.Context, r *Room) error
	Delete(ctx context.Context, code string) error
	Codes(ctx context.Context) ([]string, error)
}

// MemoryStore keeps rooms in a mutex-guarded map.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*Room)}
}

func (s *MemoryStore) Get(_ context.Context, code string) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r.clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, r *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.Code] = r.clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *MemoryStore) Codes(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.rooms))
	for c := range s.rooms {
		codes = append(codes, c)
	}
	return codes, nil
}
