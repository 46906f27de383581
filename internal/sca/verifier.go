package sca

import "context"

// BiometricVerifier verifies one biometric method from a device identifier
// and an opaque verification token. Raw biometric data never reaches this
// interface and must never appear in logs. Cryptographic matching is the
// integration point deliberately left behind this seam.
type BiometricVerifier interface {
	Method() string
	Verify(ctx context.Context, deviceID, token string) (bool, error)
}

// StaticVerifier is the shipped placeholder verifier: it accepts any
// non-empty token for a bound device. Real matchers replace it per method.
type StaticVerifier struct {
	method string
}

// NewStaticVerifier creates a placeholder verifier for a method.
func NewStaticVerifier(method string) *StaticVerifier {
	return &StaticVerifier{method: method}
}

func (v *StaticVerifier) Method() string { return v.method }

func (v *StaticVerifier) Verify(_ context.Context, deviceID, token string) (bool, error) {
	return deviceID != "" && token != "", nil
}

// DefaultVerifiers builds the placeholder verifier table for every biometric
// method in the fixed set.
func DefaultVerifiers() map[string]BiometricVerifier {
	verifiers := make(map[string]BiometricVerifier, len(biometricMethods))
	for method := range biometricMethods {
		verifiers[method] = NewStaticVerifier(method)
	}
	return verifiers
}
