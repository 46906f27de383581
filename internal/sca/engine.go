package sca

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/payment-rails/internal/metrics"
	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/sca/store"
)

// Challenge is the caller-visible half of an issued challenge. The expected
// code never leaves the engine; only its hash reaches the store.
type Challenge struct {
	ChallengeID     string
	Method          string
	MaskedRecipient string
	ReferenceID     string
	MaxAttempts     int
	ExpiresAt       time.Time
}

// CodeSource mints authentication codes. The default draws six digits from
// crypto/rand; tests inject a fixed source.
type CodeSource interface {
	Code() (string, error)
}

// RandomCodeSource is the production CodeSource.
type RandomCodeSource struct{}

func (RandomCodeSource) Code() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("sca: generating code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// StaticCodeSource always returns the same code. Development and test use.
type StaticCodeSource string

func (s StaticCodeSource) Code() (string, error) { return string(s), nil }

// Deliverer sends a challenge code to its recipient. The shipped
// implementation only logs a masked delivery line; SMS/email/push gateways
// plug in here.
type Deliverer interface {
	Deliver(ctx context.Context, method, recipient, code string) error
}

type logDeliverer struct{}

func (logDeliverer) Deliver(_ context.Context, method, recipient, _ string) error {
	log.Printf("sca: delivery method=%s recipient=%s", method, MaskRecipient(recipient))
	return nil
}

// RecipientDirectory resolves the delivery target for an account when the
// request does not carry one. The identity/profile system sits behind this.
type RecipientDirectory interface {
	Recipient(accountRef, method string) string
}

// StaticDirectory serves fixture contact details for every account.
type StaticDirectory struct {
	Phone    string
	Email    string
	DeviceID string
}

func (d StaticDirectory) Recipient(_, method string) string {
	switch strings.ToUpper(method) {
	case MethodEmail:
		return d.Email
	case MethodApp:
		return d.DeviceID
	}
	if IsBiometricMethod(method) {
		return d.DeviceID
	}
	return d.Phone
}

// Config carries the engine policy knobs. Zero values fall back to the
// reference defaults: 15m/3 attempts traditional, 5m/1 attempt biometric.
type Config struct {
	DefaultMethod        string
	CodeTTL              time.Duration
	BiometricTTL         time.Duration
	MaxAttempts          int
	BiometricMaxAttempts int
	// EnabledBiometrics restricts the biometric table; nil enables all.
	EnabledBiometrics []string
}

func (c *Config) applyDefaults() {
	if c.DefaultMethod == "" {
		c.DefaultMethod = MethodSMS
	}
	if c.CodeTTL == 0 {
		c.CodeTTL = 15 * time.Minute
	}
	if c.BiometricTTL == 0 {
		c.BiometricTTL = 5 * time.Minute
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BiometricMaxAttempts == 0 {
		c.BiometricMaxAttempts = 1
	}
}

// Deps are the engine collaborators. Store and Policy are required; the rest
// default to the shipped stubs.
type Deps struct {
	Store     store.ChallengeStore
	Policy    *RequirementPolicy
	Directory RecipientDirectory
	Deliverer Deliverer
	Codes     CodeSource
	Verifiers map[string]BiometricVerifier
}

// Engine issues and validates SCA challenges and decides when one is needed.
type Engine struct {
	cfg       Config
	store     store.ChallengeStore
	policy    *RequirementPolicy
	directory RecipientDirectory
	deliverer Deliverer
	codes     CodeSource
	verifiers map[string]BiometricVerifier
	enabled   map[string]bool
}

// NewEngine creates an Engine.
func NewEngine(cfg Config, deps Deps) (*Engine, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("sca: challenge store is required")
	}
	if deps.Policy == nil {
		return nil, fmt.Errorf("sca: requirement policy is required")
	}
	cfg.applyDefaults()
	if deps.Directory == nil {
		deps.Directory = StaticDirectory{Phone: "+15550100000", Email: "sca@example.com", DeviceID: "device-0001"}
	}
	if deps.Deliverer == nil {
		deps.Deliverer = logDeliverer{}
	}
	if deps.Codes == nil {
		deps.Codes = RandomCodeSource{}
	}
	if deps.Verifiers == nil {
		deps.Verifiers = DefaultVerifiers()
	}
	var enabled map[string]bool
	if cfg.EnabledBiometrics != nil {
		enabled = make(map[string]bool, len(cfg.EnabledBiometrics))
		for _, m := range cfg.EnabledBiometrics {
			enabled[strings.ToUpper(m)] = true
		}
	}
	return &Engine{
		cfg:       cfg,
		store:     deps.Store,
		policy:    deps.Policy,
		directory: deps.Directory,
		deliverer: deps.Deliverer,
		codes:     deps.Codes,
		verifiers: deps.Verifiers,
		enabled:   enabled,
	}, nil
}

// DefaultMethod returns the configured default delivery method.
func (e *Engine) DefaultMethod() string { return e.cfg.DefaultMethod }

// DefaultRecipient resolves the delivery target for an account and method
// through the directory.
func (e *Engine) DefaultRecipient(accountRef, method string) string {
	return e.directory.Recipient(accountRef, method)
}

// IsScaRequired evaluates the requirement policy. Evaluation failures fail
// closed and are logged once per call.
func (e *Engine) IsScaRequired(op payment.OperationType, amountMinor int64, currency, accountRef string) bool {
	required, err := e.policy.Required(op, amountMinor, currency, accountRef)
	if err != nil {
		log.Printf("sca: requirement policy error, failing closed: %v", err)
		return true
	}
	return required
}

// Trigger mints and stores a challenge, delivers the code, and returns the
// challenge. Rail is a metrics tag only. The recipient is masked everywhere
// outside the delivery call.
func (e *Engine) Trigger(ctx context.Context, recipient, method, referenceID, rail string) (*Challenge, error) {
	start := time.Now()
	method = strings.ToUpper(method)
	if method == "" {
		method = e.cfg.DefaultMethod
	}
	if !IsKnownMethod(method) {
		return nil, fmt.Errorf("sca: unknown method %q", method)
	}
	biometric := IsBiometricMethod(method)
	if biometric && e.enabled != nil && !e.enabled[method] {
		return nil, fmt.Errorf("sca: biometric method %s is not enabled", method)
	}
	if recipient == "" {
		recipient = e.directory.Recipient("", method)
	}

	ttl := e.cfg.CodeTTL
	maxAttempts := e.cfg.MaxAttempts
	if biometric {
		ttl = e.cfg.BiometricTTL
		maxAttempts = e.cfg.BiometricMaxAttempts
	}

	rec := store.Record{
		ChallengeID: uuid.NewString(),
		Method:      method,
		ReferenceID: referenceID,
		MaxAttempts: maxAttempts,
		ExpiresAt:   time.Now().Add(ttl),
		CreatedAt:   time.Now(),
	}
	if biometric {
		rec.DeviceID = recipient
	} else {
		code, err := e.codes.Code()
		if err != nil {
			return nil, err
		}
		rec.CodeHash = hashCode(code)
		if err := e.deliverer.Deliver(ctx, method, recipient, code); err != nil {
			return nil, fmt.Errorf("sca: delivering challenge: %w", err)
		}
	}
	if err := e.store.Put(ctx, rec, ttl); err != nil {
		return nil, err
	}

	log.Printf("sca: challenge issued method=%s recipient=%s challenge=%s rail=%s",
		method, MaskRecipient(recipient), rec.ChallengeID, rail)
	metrics.ObserveScaTrigger(method, rail, time.Since(start).Seconds())

	return &Challenge{
		ChallengeID:     rec.ChallengeID,
		Method:          method,
		MaskedRecipient: MaskRecipient(recipient),
		ReferenceID:     referenceID,
		MaxAttempts:     maxAttempts,
		ExpiresAt:       rec.ExpiresAt,
	}, nil
}

// Validate checks a challenge response. Attempt accounting happens before
// the comparison, so exhausted challenges fail regardless of correctness.
// A successful validation consumes the challenge.
func (e *Engine) Validate(ctx context.Context, p *payment.ScaPayload) (*payment.ScaResult, error) {
	start := time.Now()
	res, err := e.validate(ctx, p)
	method := ""
	if res != nil {
		method = res.Method
	}
	metrics.ObserveScaValidation(method, res != nil && res.Success, time.Since(start).Seconds())
	return res, err
}

func (e *Engine) validate(ctx context.Context, p *payment.ScaPayload) (*payment.ScaResult, error) {
	if p == nil || p.ChallengeID == "" {
		return scaFailure("", "", 0, 0, false, time.Time{}, "missing challenge identifier"), nil
	}

	rec, err := e.store.Get(ctx, p.ChallengeID)
	if err == store.ErrNotFound {
		return scaFailure(p.Method, p.ChallengeID, 0, 0, false, time.Time{}, "unknown or consumed challenge"), nil
	}
	if err != nil {
		return nil, err
	}

	attempts, err := e.store.IncrementAttempts(ctx, p.ChallengeID)
	if err != nil && err != store.ErrNotFound {
		return nil, err
	}

	if time.Now().After(rec.ExpiresAt) {
		return scaFailure(rec.Method, rec.ChallengeID, attempts, rec.MaxAttempts, true, rec.ExpiresAt, "challenge expired"), nil
	}
	if attempts > rec.MaxAttempts {
		return scaFailure(rec.Method, rec.ChallengeID, attempts, rec.MaxAttempts, true, rec.ExpiresAt, "maximum attempts exceeded"), nil
	}

	var ok bool
	if IsBiometricMethod(rec.Method) {
		verifier, found := e.verifiers[rec.Method]
		if !found {
			return scaFailure(rec.Method, rec.ChallengeID, attempts, rec.MaxAttempts, false, rec.ExpiresAt,
				fmt.Sprintf("no verifier for method %s", rec.Method)), nil
		}
		if p.DeviceID != rec.DeviceID {
			return scaFailure(rec.Method, rec.ChallengeID, attempts, rec.MaxAttempts, false, rec.ExpiresAt,
				"device not bound to challenge"), nil
		}
		ok, err = verifier.Verify(ctx, p.DeviceID, p.BiometricToken)
		if err != nil {
			return nil, fmt.Errorf("sca: biometric verification: %w", err)
		}
	} else {
		ok = p.AuthenticationCode != "" && hashCode(p.AuthenticationCode) == rec.CodeHash
	}

	if !ok {
		return scaFailure(rec.Method, rec.ChallengeID, attempts, rec.MaxAttempts, false, rec.ExpiresAt,
			"authentication rejected"), nil
	}

	// Consumed on success; a second validation of the same challenge fails.
	if err := e.store.Delete(ctx, p.ChallengeID); err != nil {
		return nil, err
	}
	return &payment.ScaResult{
		Success:     true,
		Method:      rec.Method,
		ChallengeID: rec.ChallengeID,
		Attempts:    attempts,
		MaxAttempts: rec.MaxAttempts,
		ExpiresAt:   rec.ExpiresAt,
	}, nil
}

func scaFailure(method, challengeID string, attempts, maxAttempts int, expired bool, expiresAt time.Time, reason string) *payment.ScaResult {
	return &payment.ScaResult{
		Success:      false,
		Method:       method,
		ChallengeID:  challengeID,
		Attempts:     attempts,
		MaxAttempts:  maxAttempts,
		Expired:      expired,
		ExpiresAt:    expiresAt,
		ErrorCode:    payment.ErrCodeScaFailed,
		ErrorMessage: reason,
	}
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
