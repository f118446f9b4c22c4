package validation

import (
	"fmt"
	"sort"
	"strings"

	"bankledger/internal/errors"
	"bankledger/internal/models"

	"github.com/shopspring/decimal"
)

// Validator collects field errors
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records the first error for a field
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks that a string is not empty. Whitespace counts as content.
func (v *Validator) Required(field, value string) {
	v.Check(value != "", field, "must not be empty")
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// NonNegative checks that d is zero or greater
func (v *Validator) NonNegative(field string, d decimal.Decimal) {
	v.Check(!d.IsNegative(), field, "must not be negative")
}

// Scale checks that d has no more fractional digits than the store keeps
func (v *Validator) Scale(field string, d decimal.Decimal) {
	v.Check(models.FitsScale(d), field, fmt.Sprintf("must not have more than %d decimal places", models.MaxScale))
}

// Precision checks that d has no more integer digits than the store keeps
func (v *Validator) Precision(field string, d decimal.Decimal) {
	v.Check(models.FitsPrecision(d), field, fmt.Sprintf("must not have more than %d integer digits", models.MaxIntegerDigits))
}

// Err returns nil when valid, otherwise base carrying the field errors in
// a stable order.
func (v *Validator) Err(base *errors.DomainError) error {
	if v.Valid() {
		return nil
	}

	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+v.Errors[field])
	}
	return base.WithMessage(base.Message + ": " + strings.Join(parts, ", "))
}
