package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrClassificationService is matched by every ServiceError.
	ErrClassificationService = errors.New("classification service error")
)

// Violation names one offending input field using its wire name.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or out-of-range input. It is the only
// failure a caller of the decision engine can observe.
type ValidationError struct {
	Violations []Violation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []Violation{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidInput) hold.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Fields returns the offending field names in report order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

// JoinValidationErrors merges the violations of every *ValidationError in
// errs, skipping nils. A non-validation error is returned unchanged. The
// result is nil when nothing was violated.
func JoinValidationErrors(errs ...error) error {
	merged := &ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		merged.Violations = append(merged.Violations, verr.Violations...)
	}
	return merged.orNil()
}

func (e *ValidationError) add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// ServiceError reports that the external classification service could not
// produce a usable result.
type ServiceError struct {
	Reason string
	Err    error
}

// NewServiceError wraps cause (which may be nil) with a short reason such as
// "timeout" or "invalid payload".
func NewServiceError(reason string, cause error) *ServiceError {
	return &ServiceError{Reason: reason, Err: cause}
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("classification service: %s", e.Reason)
	}
	return fmt.Sprintf("classification service: %s: %v", e.Reason, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrClassificationService) hold.
func (e *ServiceError) Is(target error) bool { return target == ErrClassificationService }
