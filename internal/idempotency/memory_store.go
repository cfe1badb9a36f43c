package idempotency

import (
	"context"
	"sync"
)

// MemoryStore is a process local Store used when Redis is not configured.
// Entries never expire; completed keys are also backed by the orders table.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]uint // 0 marks in-flight
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]uint)}
}

func (s *MemoryStore) Reserve(_ context.Context, scope, key string) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scope + ":" + key
	id, ok := s.entries[k]
	switch {
	case !ok:
		s.entries[k] = 0
		return Reservation{Status: StatusNew}, nil
	case id == 0:
		return Reservation{Status: StatusInFlight}, nil
	default:
		return Reservation{Status: StatusCompleted, OrderID: id}, nil
	}
}

func (s *MemoryStore) Complete(_ context.Context, scope, key string, orderID uint) error {
	s.mu.Lock()
	s.entries[scope+":"+key] = orderID
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Release(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scope + ":" + key
	if s.entries[k] == 0 {
		delete(s.entries, k)
	}
	return nil
}
