// Package monitor validates inbound operation requests against a JSON
// schema before they are bound and routed. Schema failures map to the
// VALIDATION_ERROR code and never reach a provider.
package monitor

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// operationRequestSchema is the shared shape of every rail's operation
// request. Rail-specific DTO rules live at the edges; this schema guards the
// structurally common fields.
const operationRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["requestId", "paymentType", "amountMinor", "currency"],
  "properties": {
    "requestId": {"type": "string", "minLength": 1},
    "paymentType": {"type": "string", "minLength": 1},
    "amountMinor": {"type": "integer", "minimum": 1},
    "currency": {"type": "string", "pattern": "^[A-Z]{3}$"},
    "debtorAccount": {"type": "string"},
    "creditorAccount": {"type": "string"},
    "preferredProvider": {"type": "string"},
    "simulationReference": {"type": "string"},
    "executionDate": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
    "recurrencePattern": {"type": "string"},
    "sca": {
      "type": "object",
      "properties": {
        "method": {"type": "string"},
        "challengeId": {"type": "string"},
        "authenticationCode": {"type": "string"},
        "recipient": {"type": "string"},
        "deviceId": {"type": "string"},
        "biometricToken": {"type": "string"}
      }
    }
  }
}`

// ContractMonitor validates incoming requests against the operation schema.
type ContractMonitor struct {
	schema *gojsonschema.Schema
}

// NewContractMonitor compiles the embedded operation request schema.
func NewContractMonitor() (*ContractMonitor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(operationRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("monitor: compiling operation request schema: %w", err)
	}
	return &ContractMonitor{schema: schema}, nil
}

// Validate validates the given request body against the schema.
// It returns true if valid, or false and a list of validation errors.
func (cm *ContractMonitor) Validate(requestBody []byte) (bool, []string, error) {
	result, err := cm.schema.Validate(gojsonschema.NewBytesLoader(requestBody))
	if err != nil {
		return false, nil, fmt.Errorf("monitor: validating request: %w", err)
	}
	if result.Valid() {
		return true, nil, nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return false, errs, nil
}

// FormatErrors formats a slice of validation error strings into one string.
func FormatErrors(validationErrors []string) string {
	if len(validationErrors) == 0 {
		return ""
	}
	return "validation errors: " + strings.Join(validationErrors, "; ")
}
