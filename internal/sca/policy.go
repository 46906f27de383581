package sca

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/yourorg/payment-rails/internal/payment"
)

// DefaultRequirementExpression is the reference policy: authentication is
// required above the configured amount threshold or when the destination
// carries a risk flag. Cancellations evaluate the same expression; the
// operation name is available to custom expressions that want to vary it.
const DefaultRequirementExpression = "amount_minor > threshold_minor || risk_flag"

// defaultRiskCountries flags IBAN country prefixes considered high risk.
var defaultRiskCountries = map[string]bool{
	"IR": true,
	"KP": true,
	"SY": true,
	"CU": true,
}

// RequirementPolicy decides whether an operation needs SCA. It is a pure
// function of its inputs: same operation, amount, currency and account
// reference always produce the same answer.
type RequirementPolicy struct {
	expr           *govaluate.EvaluableExpression
	thresholdMinor int64
	riskCountries  map[string]bool
}

// NewRequirementPolicy compiles the requirement expression once. An empty
// expression selects DefaultRequirementExpression.
func NewRequirementPolicy(expression string, thresholdMinor int64) (*RequirementPolicy, error) {
	if expression == "" {
		expression = DefaultRequirementExpression
	}
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("sca: compiling requirement expression %q: %w", expression, err)
	}
	return &RequirementPolicy{
		expr:           expr,
		thresholdMinor: thresholdMinor,
		riskCountries:  defaultRiskCountries,
	}, nil
}

// Required evaluates the policy. Evaluation errors fail closed: a broken
// custom expression demands SCA rather than waiving it.
func (p *RequirementPolicy) Required(op payment.OperationType, amountMinor int64, currency, accountRef string) (bool, error) {
	params := map[string]interface{}{
		"operation":       string(op),
		"amount_minor":    float64(amountMinor),
		"threshold_minor": float64(p.thresholdMinor),
		"currency":        currency,
		"account_ref":     accountRef,
		"risk_flag":       p.riskFlag(accountRef),
	}
	out, err := p.expr.Evaluate(params)
	if err != nil {
		return true, fmt.Errorf("sca: evaluating requirement expression: %w", err)
	}
	required, ok := out.(bool)
	if !ok {
		return true, fmt.Errorf("sca: requirement expression returned %T, want bool", out)
	}
	return required, nil
}

// riskFlag reports whether the account reference points at a flagged
// destination, keyed on the IBAN country prefix.
func (p *RequirementPolicy) riskFlag(accountRef string) bool {
	if len(accountRef) < 2 {
		return false
	}
	return p.riskCountries[strings.ToUpper(accountRef[:2])]
}
