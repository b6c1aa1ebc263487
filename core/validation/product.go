package validation

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// MaxTitleLength is the longest product title accepted.
const MaxTitleLength = 200

// ProductRules are the CEL rules every product must satisfy before it is created or updated.
var ProductRules = []Rule{
	{
		Field:      "title",
		Type:       ValidationErrorTypeRequired,
		Expression: "has(self.title) && size(self.title) > 0",
		Message:    "title is required",
	},
	{
		Field:      "title",
		Type:       ValidationErrorTypeTooLong,
		Expression: fmt.Sprintf("!has(self.title) || size(self.title) <= %d", MaxTitleLength),
		Message:    fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
	},
	{
		Field:      "price",
		Type:       ValidationErrorTypeRange,
		Expression: "has(self.price) && self.price > 0",
		Message:    "price must be a positive number",
	},
	{
		Field:      "category",
		Type:       ValidationErrorTypeRequired,
		Expression: "has(self.category) && size(self.category) > 0",
		Message:    "category is required",
	},
	{
		Field:      "image",
		Type:       ValidationErrorTypeFormat,
		Expression: "!has(self.image) || size(self.image) == 0 || self.image.matches('^https?://[^ ]+$')",
		Message:    "image must be an http(s) URL",
	},
}

// ProductValidator checks products against a set of CEL rules.
type ProductValidator struct {
	rules    []Rule
	programs []Program
}

// NewProductValidator compiles ProductRules once and returns a ready validator.
func NewProductValidator() (*ProductValidator, error) {
	compiler, err := NewCompiler()
	if err != nil {
		return nil, err
	}
	return NewRuleValidator(compiler, ProductRules)
}

// NewRuleValidator compiles the given rules.
func NewRuleValidator(compiler Compiler, rules []Rule) (*ProductValidator, error) {
	v := &ProductValidator{
		rules:    rules,
		programs: make([]Program, 0, len(rules)),
	}

	for _, rule := range rules {
		program, err := compiler.Compile(rule.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule for field %q: %w", rule.Field, err)
		}
		v.programs = append(v.programs, program)
	}

	return v, nil
}

// Validate implements Validator. It returns ValidationErrors when one or more rules fail.
func (v *ProductValidator) Validate(ctx context.Context, obj runtime.Object) error {
	product, ok := obj.(*storev1alpha1.Product)
	if !ok {
		return fmt.Errorf("expected *Product, got %T", obj)
	}

	if math.IsNaN(product.Price) || math.IsInf(product.Price, 0) {
		return ValidationErrors{{
			Field:   "price",
			Value:   product.Price,
			Type:    ValidationErrorTypeRange,
			Message: "price must be a finite number",
		}}
	}

	self, err := runtime.DefaultUnstructuredConverter.ToUnstructured(product)
	if err != nil {
		return fmt.Errorf("failed to convert product: %w", err)
	}

	var errs ValidationErrors
	for i, rule := range v.rules {
		ok, err := v.programs[i].Eval(ctx, self)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   rule.Field,
				Value:   self[rule.Field],
				Type:    ValidationErrorTypeInvalid,
				Message: fmt.Sprintf("failed to evaluate rule: %v", err),
				Rule:    rule.Expression,
			})
			continue
		}
		if !ok {
			errs = append(errs, ValidationError{
				Field:   rule.Field,
				Value:   self[rule.Field],
				Type:    rule.Type,
				Message: rule.Message,
				Rule:    rule.Expression,
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsePrice parses a price given on the command line or in a form field.
func ParsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("price must be a valid number: %q", s)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("price must be a positive number: %q", s)
	}
	return price, nil
}
