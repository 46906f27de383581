// Package registry maps payment types and explicit provider preferences to
// the single active backend for each provider kind. Providers are registered
// explicitly from startup wiring; the table is read-only afterwards.
package registry

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/sca"
)

// Provider is the contract every rail backend implements: the four lifecycle
// operations plus SCA delegation and a health check.
type Provider interface {
	// Kind identifies the backend family this provider serves.
	Kind() payment.ProviderKind
	// Name is the human-readable provider name used in logs and metrics.
	Name() string

	Simulate(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error)
	Execute(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error)
	SimulateCancellation(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error)
	Cancel(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error)
	Schedule(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error)

	TriggerSca(ctx context.Context, recipient, method, referenceID string) (*sca.Challenge, error)
	ValidateSca(ctx context.Context, p *payment.ScaPayload) (*payment.ScaResult, error)

	// IsHealthy reports backend health. It never panics and never returns an
	// error; failures read as false.
	IsHealthy(ctx context.Context) bool
}

// Registry holds the active provider per kind. Safe for concurrent reads;
// registration happens during initialization only.
type Registry struct {
	mu        sync.RWMutex
	providers map[payment.ProviderKind]Provider
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{providers: make(map[payment.ProviderKind]Provider)}
}

// Register adds a provider for its kind. A second registration for the same
// kind is a configuration error and is rejected rather than silently
// replacing or keeping either instance.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return fmt.Errorf("registry: provider cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.providers[p.Kind()]; ok {
		return fmt.Errorf("registry: duplicate provider for kind %s: %s already registered, refusing %s",
			p.Kind(), existing.Name(), p.Name())
	}
	r.providers[p.Kind()] = p
	return nil
}

// MustRegister is Register for startup wiring; it panics on misconfiguration.
func (r *Registry) MustRegister(p Provider) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Provider returns the active backend for a kind.
func (r *Registry) Provider(kind payment.ProviderKind) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[kind]
	return p, ok
}

// ProviderForPaymentType resolves the kind mapped to a payment type, then
// looks up the active backend for that kind.
func (r *Registry) ProviderForPaymentType(pt payment.PaymentType) (Provider, bool) {
	kind, ok := payment.KindForPaymentType(pt)
	if !ok {
		return nil, false
	}
	return r.Provider(kind)
}

// Resolve runs the selection algorithm shared by every rail service: an
// explicit preference wins when it resolves, otherwise the payment-type
// mapping applies. A miss on both is ErrNoProviderAvailable.
func (r *Registry) Resolve(req *payment.OperationRequest) (Provider, error) {
	if req.PreferredProvider != "" {
		if p, ok := r.Provider(req.PreferredProvider); ok {
			return p, nil
		}
		log.Printf("registry: preferred provider %s not registered, falling back to payment type %s",
			req.PreferredProvider, req.PaymentType)
	}
	if p, ok := r.ProviderForPaymentType(req.PaymentType); ok {
		return p, nil
	}
	return nil, fmt.Errorf("registry: payment type %s: %w", req.PaymentType, payment.ErrNoProviderAvailable)
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []payment.ProviderKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]payment.ProviderKind, 0, len(r.providers))
	for k := range r.providers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// LogMapping logs the final provider-to-kind mapping once at startup.
// A kind with no provider is not an error here; the routing degrades
// rail-by-rail and only fails when a call is actually routed to it.
func (r *Registry) LogMapping() {
	for _, kind := range r.Kinds() {
		p, _ := r.Provider(kind)
		log.Printf("registry: kind=%s provider=%s", kind, p.Name())
	}
}
