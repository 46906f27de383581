package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yourorg/payment-rails/internal/payment"
)

// breakerSet keys one circuit breaker per provider kind. Only propagated
// errors (timeouts, infrastructure failures) count as breaker failures;
// business rejections come back as result fields and leave the circuit
// closed.
type breakerSet struct {
	mu       sync.Mutex
	breakers map[payment.ProviderKind]*gobreaker.CircuitBreaker
}

func newBreakerSet() *breakerSet {
	return &breakerSet{breakers: make(map[payment.ProviderKind]*gobreaker.CircuitBreaker)}
}

func (b *breakerSet) breaker(kind payment.ProviderKind) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	cb, ok := b.breakers[kind]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        string(kind),
			MaxRequests: 2,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
		b.breakers[kind] = cb
	}
	return cb
}

func (b *breakerSet) execute(kind payment.ProviderKind, fn func() (*payment.OperationResult, error)) (*payment.OperationResult, error) {
	out, err := b.breaker(kind).Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	res, ok := out.(*payment.OperationResult)
	if !ok || res == nil {
		return nil, fmt.Errorf("service: provider %s returned no result", kind)
	}
	return res, nil
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
