// Package store holds issued SCA challenges and their attempt accounting.
// It is the only place the expected secret (as a hash) is ever persisted.
// Two implementations exist: an in-memory store for single-process use and
// tests, and a Redis store for anything shared.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a challenge is unknown or already consumed.
var ErrNotFound = errors.New("sca store: challenge not found")

// Record is one issued challenge. CodeHash is the SHA-256 of the expected
// authentication code; the raw code is never stored. DeviceID is set for
// biometric challenges and binds validation to the issuing device.
type Record struct {
	ChallengeID string    `json:"challengeId"`
	Method      string    `json:"method"`
	CodeHash    string    `json:"codeHash,omitempty"`
	DeviceID    string    `json:"deviceId,omitempty"`
	ReferenceID string    `json:"referenceId,omitempty"`
	MaxAttempts int       `json:"maxAttempts"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ChallengeStore is the persistence contract for challenges.
//
// IncrementAttempts must be atomic: concurrent validations of the same
// challenge must each observe a distinct attempt number, or the max-attempts
// limit could be bypassed.
type ChallengeStore interface {
	Put(ctx context.Context, rec Record, ttl time.Duration) error
	Get(ctx context.Context, challengeID string) (*Record, error)
	IncrementAttempts(ctx context.Context, challengeID string) (int, error)
	Delete(ctx context.Context, challengeID string) error
}

// retention keeps expired challenges readable for a while after their expiry
// so validation can report expired=true instead of not-found.
const retention = time.Hour
