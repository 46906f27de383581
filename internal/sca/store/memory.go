package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	rec      Record
	attempts int
	purgeAt  time.Time
}

// MemoryStore is the in-process ChallengeStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

var _ ChallengeStore = (*MemoryStore)(nil)

func (s *MemoryStore) Put(_ context.Context, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.entries[rec.ChallengeID] = &memoryEntry{
		rec:     rec,
		purgeAt: time.Now().Add(ttl + retention),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, challengeID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[challengeID]
	if !ok || time.Now().After(e.purgeAt) {
		return nil, ErrNotFound
	}
	rec := e.rec
	return &rec, nil
}

func (s *MemoryStore) IncrementAttempts(_ context.Context, challengeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[challengeID]
	if !ok || time.Now().After(e.purgeAt) {
		return 0, ErrNotFound
	}
	e.attempts++
	return e.attempts, nil
}

func (s *MemoryStore) Delete(_ context.Context, challengeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, challengeID)
	return nil
}

// purgeLocked lazily drops entries past their retention window.
func (s *MemoryStore) purgeLocked() {
	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.purgeAt) {
			delete(s.entries, id)
		}
	}
}
