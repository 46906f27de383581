package refstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process reference store.
type MemoryStore struct {
	mu   sync.Mutex
	refs map[string]Reference
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{refs: make(map[string]Reference)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Put(_ context.Context, ref Reference, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref.ExpiresAt.IsZero() {
		ref.ExpiresAt = time.Now().Add(ttl)
	}
	s.refs[ref.Reference] = ref
	return nil
}

// Consume removes and returns a reference under the lock, so exactly one
// caller wins a race on the same reference.
func (s *MemoryStore) Consume(_ context.Context, reference string) (*Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.refs[reference]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.refs, reference)
	if time.Now().After(ref.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &ref, nil
}
