// Package sca implements the strong customer authentication engine:
// the requirement policy, challenge issuance and validation, and the
// biometric method table. Every rail delegates here through its provider
// base so the gate behaves identically across rails.
package sca

import "strings"

// Traditional delivery methods.
const (
	MethodSMS   = "SMS"
	MethodEmail = "EMAIL"
	MethodApp   = "APP"
)

// Biometric methods. These get a tighter policy: one attempt, short expiry.
const (
	MethodFingerprint = "FINGERPRINT"
	MethodFace        = "FACE"
	MethodVoice       = "VOICE"
	MethodIris        = "IRIS"
	MethodRetina      = "RETINA"
	MethodPalm        = "PALM"
	MethodVein        = "VEIN"
	MethodBehavioral  = "BEHAVIORAL"
)

var biometricMethods = map[string]bool{
	MethodFingerprint: true,
	MethodFace:        true,
	MethodVoice:       true,
	MethodIris:        true,
	MethodRetina:      true,
	MethodPalm:        true,
	MethodVein:        true,
	MethodBehavioral:  true,
}

// IsBiometricMethod reports whether a method belongs to the biometric table.
// Pure membership check; expiry and attempt policy branch on it.
func IsBiometricMethod(method string) bool {
	return biometricMethods[strings.ToUpper(method)]
}

// IsKnownMethod reports whether a method is either traditional or biometric.
func IsKnownMethod(method string) bool {
	switch strings.ToUpper(method) {
	case MethodSMS, MethodEmail, MethodApp:
		return true
	}
	return IsBiometricMethod(method)
}

// MaskRecipient masks a delivery target for logs and results, keeping only
// the last four characters.
func MaskRecipient(recipient string) string {
	if len(recipient) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(recipient)-4) + recipient[len(recipient)-4:]
}
