package createreturn

import (
	"fmt"
	"strings"

	"ReturnsAgent/entity"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultEligibilityRule offers every item the backend marks as returnable.
const DefaultEligibilityRule = "AvailableForReturns"

// Eligibility decides which order items may be offered for return. The rule
// is an expr boolean expression over entity.OrderItem fields, for example
// `AvailableForReturns && UnitPrice.Amount > 0`.
type Eligibility struct {
	rule    string
	program *vm.Program
}

func NewEligibility(rule string) (*Eligibility, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		rule = DefaultEligibilityRule
	}
	program, err := expr.Compile(rule, expr.Env(entity.OrderItem{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile eligibility rule %q: %w", rule, err)
	}
	return &Eligibility{rule: rule, program: program}, nil
}

func (e *Eligibility) Rule() string { return e.rule }

func (e *Eligibility) Eligible(item entity.OrderItem) (bool, error) {
	out, err := expr.Run(e.program, item)
	if err != nil {
		return false, fmt.Errorf("evaluate eligibility for item %s: %w", item.ID, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Filter keeps the eligible items in order.
func (e *Eligibility) Filter(items []entity.OrderItem) ([]entity.OrderItem, error) {
	eligible := make([]entity.OrderItem, 0, len(items))
	for _, item := range items {
		ok, err := e.Eligible(item)
		if err != nil {
			return nil, err
		}
		if ok {
			eligible = append(eligible, item)
		}
	}
	return eligible, nil
}
