package refstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refPrefix = "simref:"

// RedisStore is the shared reference store. Consume uses GETDEL so a
// reference is handed to exactly one caller.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Put(ctx context.Context, ref Reference, ttl time.Duration) error {
	if ref.ExpiresAt.IsZero() {
		ref.ExpiresAt = time.Now().Add(ttl)
	}
	data, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("refstore: marshaling reference %s: %w", ref.Reference, err)
	}
	if err := s.client.Set(ctx, refPrefix+ref.Reference, data, ttl).Err(); err != nil {
		return fmt.Errorf("refstore: storing reference %s: %w", ref.Reference, err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, reference string) (*Reference, error) {
	data, err := s.client.GetDel(ctx, refPrefix+reference).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("refstore: consuming reference %s: %w", reference, err)
	}
	var ref Reference
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("refstore: decoding reference %s: %w", reference, err)
	}
	if time.Now().After(ref.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &ref, nil
}
