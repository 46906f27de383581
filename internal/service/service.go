// Package service is the routing wrapper in front of the provider registry.
// It resolves a backend for each request, enforces per-rail timeouts and
// circuit breaking, and emits logs, metrics, spans and journal entries.
// It performs no business logic of its own.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/yourorg/payment-rails/internal/metrics"
	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/registry"
	"github.com/yourorg/payment-rails/internal/reporting"
)

const defaultTimeout = 30 * time.Second

// Options configures the routing service.
type Options struct {
	// Timeouts are the per-kind provider call budgets; missing kinds use
	// DefaultTimeout (30s when zero). Reference rails range 10s to 60s.
	Timeouts       map[payment.ProviderKind]time.Duration
	DefaultTimeout time.Duration
	// Journal is optional; nil disables journaling.
	Journal reporting.Journal
}

// Service routes lifecycle operations to the active provider.
type Service struct {
	registry *registry.Registry
	breakers *breakerSet
	opts     Options
}

// New creates a routing Service over a registry.
func New(reg *registry.Registry, opts Options) *Service {
	if reg == nil {
		panic("service: registry cannot be nil")
	}
	if opts.DefaultTimeout == 0 {
		opts.DefaultTimeout = defaultTimeout
	}
	return &Service{registry: reg, breakers: newBreakerSet(), opts: opts}
}

// The five operations are identical at this layer; each binds a method of
// the provider contract into the shared dispatch path.

func (s *Service) Simulate(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	return s.dispatch(ctx, "simulate", req, registry.Provider.Simulate)
}

func (s *Service) Execute(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	return s.dispatch(ctx, "execute", req, registry.Provider.Execute)
}

func (s *Service) SimulateCancellation(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	return s.dispatch(ctx, "simulate_cancellation", req, registry.Provider.SimulateCancellation)
}

func (s *Service) Cancel(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	return s.dispatch(ctx, "cancel", req, registry.Provider.Cancel)
}

func (s *Service) Schedule(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	return s.dispatch(ctx, "schedule", req, registry.Provider.Schedule)
}

type operation func(registry.Provider, context.Context, *payment.OperationRequest) (*payment.OperationResult, error)

func (s *Service) dispatch(ctx context.Context, opName string, req *payment.OperationRequest, call operation) (*payment.OperationResult, error) {
	tracer := otel.Tracer("payment-rails/service")
	ctx, span := tracer.Start(ctx, "service."+opName)
	defer span.End()

	start := time.Now()

	p, err := s.registry.Resolve(req)
	if err != nil {
		log.Printf("service: op=%s request=%s type=%s preferred=%s: %v",
			opName, req.RequestID, req.PaymentType, req.PreferredProvider, err)
		metrics.ObserveOperation("unrouted", opName, false, time.Since(start).Seconds())
		return nil, err
	}
	rail := p.Name()
	log.Printf("service: op=%s rail=%s request=%s type=%s amount=%d currency=%s",
		opName, rail, req.RequestID, req.PaymentType, req.AmountMinor, req.Currency)

	if !p.IsHealthy(ctx) {
		metrics.ObserveOperation(rail, opName, false, time.Since(start).Seconds())
		return nil, fmt.Errorf("service: provider %s: %w", rail, payment.ErrProviderUnhealthy)
	}

	timeout := s.opts.DefaultTimeout
	if t, ok := s.opts.Timeouts[p.Kind()]; ok {
		timeout = t
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.breakers.execute(p.Kind(), func() (*payment.OperationResult, error) {
		return call(p, callCtx, req)
	})
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			err = fmt.Errorf("service: provider %s exceeded %s budget: %w", rail, timeout, payment.ErrProviderTimeout)
		case isBreakerOpen(err):
			err = fmt.Errorf("service: provider %s circuit open: %w", rail, payment.ErrProviderUnhealthy)
		default:
			err = fmt.Errorf("service: provider %s op=%s: %w", rail, opName, err)
		}
		log.Printf("service: op=%s rail=%s request=%s failed: %v", opName, rail, req.RequestID, err)
		metrics.ObserveOperation(rail, opName, false, time.Since(start).Seconds())
		return nil, err
	}

	metrics.ObserveOperation(rail, opName, res.Success, time.Since(start).Seconds())
	s.journal(opName, rail, req, res)
	log.Printf("service: op=%s rail=%s request=%s status=%s success=%t duration=%s",
		opName, rail, req.RequestID, res.Status, res.Success, time.Since(start))
	return res, nil
}

func (s *Service) journal(opName, rail string, req *payment.OperationRequest, res *payment.OperationResult) {
	if s.opts.Journal == nil {
		return
	}
	s.opts.Journal.Record(reporting.LogEntry{
		Timestamp:    res.Timestamp,
		RequestID:    req.RequestID,
		PaymentID:    res.PaymentID,
		PaymentType:  string(req.PaymentType),
		Operation:    opName,
		Rail:         rail,
		Status:       string(res.Status),
		Success:      res.Success,
		AmountMinor:  req.AmountMinor,
		Currency:     req.Currency,
		ErrorCode:    res.ErrorCode,
		ScaRequired:  res.ScaRequired,
		ScaCompleted: res.ScaCompleted,
	})
}
