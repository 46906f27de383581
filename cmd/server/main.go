package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/yourorg/payment-rails/internal/config"
	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/provider/ach"
	"github.com/yourorg/payment-rails/internal/provider/book"
	"github.com/yourorg/payment-rails/internal/provider/cards"
	"github.com/yourorg/payment-rails/internal/provider/eurosystem"
	"github.com/yourorg/payment-rails/internal/provider/sepa"
	"github.com/yourorg/payment-rails/internal/provider/swift"
	"github.com/yourorg/payment-rails/internal/provider/ukpay"
	"github.com/yourorg/payment-rails/internal/refstore"
	"github.com/yourorg/payment-rails/internal/registry"
	"github.com/yourorg/payment-rails/internal/reporting"
	"github.com/yourorg/payment-rails/internal/sca"
	scastore "github.com/yourorg/payment-rails/internal/sca/store"
	"github.com/yourorg/payment-rails/internal/service"
)

// kindForRail maps the config rail names onto provider kinds.
var kindForRail = map[string]payment.ProviderKind{
	"sepa":       payment.SepaProvider,
	"swift":      payment.SwiftProvider,
	"ach":        payment.ACHProvider,
	"ukpay":      payment.UKProvider,
	"eurosystem": payment.EurosystemProvider,
	"cards":      payment.CardProvider,
	"book":       payment.InternalProvider,
}

func initTracer() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp, nil
}

func buildStores(cfg *config.Config) (scastore.ChallengeStore, refstore.Store) {
	if cfg.Redis.Addr == "" {
		log.Println("stores: no REDIS_ADDR configured, using in-memory stores")
		return scastore.NewMemoryStore(), refstore.NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Printf("stores: using redis at %s", cfg.Redis.Addr)
	return scastore.NewRedisStore(client), refstore.NewRedisStore(client)
}

func buildRegistry(cfg *config.Config, engine *sca.Engine, refs refstore.Store) *registry.Registry {
	reg := registry.New()
	providers := map[string]registry.Provider{
		"sepa":       sepa.New(engine, refs),
		"swift":      swift.New(engine, refs),
		"ach":        ach.New(engine, refs),
		"ukpay":      ukpay.New(engine, refs),
		"eurosystem": eurosystem.New(engine, refs),
		"cards":      cards.New(engine, refs),
		"book":       book.New(engine, refs),
	}
	for rail, p := range providers {
		if !cfg.Rails.Enabled[rail] {
			log.Printf("registry: rail %s disabled by configuration", rail)
			continue
		}
		reg.MustRegister(p)
	}
	reg.LogMapping()
	return reg
}

func main() {
	log.Println("starting payment-rails server...")
	cfg := config.Load()

	tp, err := initTracer()
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	scaStore, refs := buildStores(cfg)

	policy, err := sca.NewRequirementPolicy(cfg.Sca.RequirementExpression, cfg.Sca.ThresholdMinor)
	if err != nil {
		log.Fatalf("failed to build SCA requirement policy: %v", err)
	}
	engine, err := sca.NewEngine(sca.Config{
		DefaultMethod:        cfg.Sca.DefaultMethod,
		CodeTTL:              cfg.Sca.CodeTTL,
		BiometricTTL:         cfg.Sca.BiometricTTL,
		MaxAttempts:          cfg.Sca.MaxAttempts,
		BiometricMaxAttempts: cfg.Sca.BiometricMaxAttempts,
		EnabledBiometrics:    cfg.Sca.EnabledBiometrics,
	}, sca.Deps{Store: scaStore, Policy: policy})
	if err != nil {
		log.Fatalf("failed to build SCA engine: %v", err)
	}

	reg := buildRegistry(cfg, engine, refs)

	timeouts := make(map[payment.ProviderKind]time.Duration, len(kindForRail))
	for rail, kind := range kindForRail {
		timeouts[kind] = cfg.Rails.Timeouts[rail]
	}
	journal := reporting.NewMemoryJournal()
	svc := service.New(reg, service.Options{Timeouts: timeouts, Journal: journal})

	router, err := setupRouter(svc, reg, journal)
	if err != nil {
		log.Fatalf("failed to set up router: %v", err)
	}
	if err := newHTTPServer(cfg.Server, router).ListenAndServe(); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

// newHTTPServer wraps the router in an http.Server carrying the configured
// read and write timeouts.
func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
