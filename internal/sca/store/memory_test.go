package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string) Record {
	return Record{
		ChallengeID: id,
		Method:      "SMS",
		CodeHash:    "deadbeef",
		ReferenceID: "sim-1",
		MaxAttempts: 3,
		ExpiresAt:   time.Now().Add(15 * time.Minute),
		CreatedAt:   time.Now(),
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, sampleRecord("ch-1"), 15*time.Minute))

	rec, err := s.Get(ctx, "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "ch-1", rec.ChallengeID)
	assert.Equal(t, "deadbeef", rec.CodeHash)

	_, err = s.Get(ctx, "ch-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RetentionPastExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	rec := sampleRecord("ch-2")
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, s.Put(ctx, rec, 0))

	// Still readable inside the retention window so callers can report
	// expiry instead of an unknown challenge.
	got, err := s.Get(ctx, "ch-2")
	require.NoError(t, err)
	assert.True(t, time.Now().After(got.ExpiresAt))
}

func TestMemoryStore_IncrementAttempts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, sampleRecord("ch-3"), 15*time.Minute))

	for want := 1; want <= 3; want++ {
		n, err := s.IncrementAttempts(ctx, "ch-3")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	_, err := s.IncrementAttempts(ctx, "ch-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_IncrementAttempts_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, sampleRecord("ch-4"), 15*time.Minute))

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.IncrementAttempts(ctx, "ch-4")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := s.IncrementAttempts(ctx, "ch-4")
	require.NoError(t, err)
	assert.Equal(t, n+1, count, "increments must not be lost under concurrency")
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, sampleRecord("ch-5"), 15*time.Minute))
	require.NoError(t, s.Delete(ctx, "ch-5"))

	_, err := s.Get(ctx, "ch-5")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, s.Delete(ctx, "ch-5"))
}
