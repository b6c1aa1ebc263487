package handlers

import (
	"context"
	"errors"
	"fmt"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/events"
	"github.com/dtomasi/storectl/core/validation"
)

// prepare applies defaults to and validates a product before it is written.
func (f *HandlerFactory) prepare(ctx context.Context, p *storev1alpha1.Product) error {
	if err := f.defaulter.Default(ctx, p); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}
	// Validation errors are returned unwrapped so callers can report them as bad input.
	return f.validator.Validate(ctx, p)
}

// recordPrepareFailure records rule violations found by prepare.
func recordPrepareFailure(recorder events.EventRecorder, p *storev1alpha1.Product, err error) {
	var invalid validation.ValidationErrors
	if errors.As(err, &invalid) {
		recorder.Event(p, events.EventTypeWarning, events.ReasonFailedValidation, invalid.Error())
	}
}
