package validation

import (
	"context"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"
)

// Validator provides the interface for validating objects.
type Validator interface {
	// Validate validates an object before it is sent to the catalog.
	Validate(ctx context.Context, obj runtime.Object) error
}

// Compiler turns rule expressions into programs.
type Compiler interface {
	Compile(expression string) (Program, error)
}

// Program is a compiled rule. Eval reports whether self satisfies it.
type Program interface {
	Eval(ctx context.Context, self map[string]interface{}) (bool, error)
}

// Rule is a single CEL rule evaluated with the object bound to `self`.
type Rule struct {
	// Field is the JSON name of the field the rule is about
	Field string

	// Type classifies the failure
	Type ValidationErrorType

	// Expression is the CEL expression that must evaluate to true
	Expression string

	// Message is reported when the expression evaluates to false
	Message string
}

// ValidationError represents a validation error with context information.
type ValidationError struct {
	// Field is the JSON name of the field that failed validation
	Field string

	// Value is the invalid value that caused the error
	Value interface{}

	// Type describes the type of validation that failed
	Type ValidationErrorType

	// Message is a human-readable error message
	Message string

	// Rule is the validation rule that was violated (optional)
	Rule string
}

// Error implements the error interface.
func (v ValidationError) Error() string {
	if v.Field != "" {
		return v.Field + ": " + v.Message
	}
	return v.Message
}

// ValidationErrors is the aggregated result of a failed validation.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return "invalid product: " + strings.Join(msgs, "; ")
}

// ValidationErrorType defines the type of validation error.
type ValidationErrorType string

const (
	// ValidationErrorTypeRequired indicates a required field is missing
	ValidationErrorTypeRequired ValidationErrorType = "Required"

	// ValidationErrorTypeInvalid indicates a field has an invalid value
	ValidationErrorTypeInvalid ValidationErrorType = "Invalid"

	// ValidationErrorTypeTooLong indicates a string field is too long
	ValidationErrorTypeTooLong ValidationErrorType = "TooLong"

	// ValidationErrorTypeFormat indicates a field has an invalid format
	ValidationErrorTypeFormat ValidationErrorType = "Format"

	// ValidationErrorTypeRange indicates a numeric field is out of range
	ValidationErrorTypeRange ValidationErrorType = "Range"
)
