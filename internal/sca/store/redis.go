package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	challengePrefix = "sca:challenge:"
	attemptsPrefix  = "sca:attempts:"
)

// RedisStore is the shared ChallengeStore. The record and its attempt
// counter live in separate keys so INCR keeps attempt counting atomic
// across processes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a ChallengeStore backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ ChallengeStore = (*RedisStore)(nil)

func (s *RedisStore) Put(ctx context.Context, rec Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("sca store: marshaling challenge %s: %w", rec.ChallengeID, err)
	}
	// Keys outlive the challenge TTL by the retention window so validation
	// can still report expiry instead of not-found.
	keyTTL := ttl + retention
	if err := s.client.Set(ctx, challengePrefix+rec.ChallengeID, data, keyTTL).Err(); err != nil {
		return fmt.Errorf("sca store: storing challenge %s: %w", rec.ChallengeID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, challengeID string) (*Record, error) {
	data, err := s.client.Get(ctx, challengePrefix+challengeID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sca store: reading challenge %s: %w", challengeID, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("sca store: decoding challenge %s: %w", challengeID, err)
	}
	return &rec, nil
}

func (s *RedisStore) IncrementAttempts(ctx context.Context, challengeID string) (int, error) {
	exists, err := s.client.Exists(ctx, challengePrefix+challengeID).Result()
	if err != nil {
		return 0, fmt.Errorf("sca store: checking challenge %s: %w", challengeID, err)
	}
	if exists == 0 {
		return 0, ErrNotFound
	}
	key := attemptsPrefix + challengeID
	attempts, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("sca store: incrementing attempts for %s: %w", challengeID, err)
	}
	if attempts == 1 {
		// First attempt creates the counter; align its lifetime with the record.
		s.client.Expire(ctx, key, retention)
	}
	return int(attempts), nil
}

func (s *RedisStore) Delete(ctx context.Context, challengeID string) error {
	if err := s.client.Del(ctx, challengePrefix+challengeID, attemptsPrefix+challengeID).Err(); err != nil {
		return fmt.Errorf("sca store: deleting challenge %s: %w", challengeID, err)
	}
	return nil
}
