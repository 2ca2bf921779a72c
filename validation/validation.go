package validation

import "fmt"

// FieldError is a single failed rule on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result holds every rule failure found while validating an object.
// An empty Result means the object is valid.
type Result struct {
	Errors []FieldError
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Merge appends another object's failures, keeping this result's own
// errors first. Used to fold a nested value object's result into its
// parent without discarding independently checked parent rules.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
}

// Add records a failure directly, for rules that don't fit the field
// validators below (e.g. a missing nested object).
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Collect builds a Result from individual validator outcomes,
// preserving order and dropping passes. Every validator is evaluated
// by the caller before Collect runs, so there is no early exit on the
// first failure.
func Collect(errs ...*FieldError) Result {
	var r Result
	for _, e := range errs {
		if e != nil {
			r.Errors = append(r.Errors, *e)
		}
	}
	return r
}

// Required fails when value is empty.
func Required(field, value string) *FieldError {
	if value == "" {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must not be empty", field)}
	}
	return nil
}

// MaxLength fails when value is longer than max. An empty value
// passes; pair with Required to also forbid it.
func MaxLength(field, value string, max int) *FieldError {
	if len([]rune(value)) > max {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must have at most %d characters", field, max)}
	}
	return nil
}

// ExactLength fails when value is non-empty and not exactly length
// characters long.
func ExactLength(field, value string, length int) *FieldError {
	if value != "" && len([]rune(value)) != length {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must have exactly %d characters", field, length)}
	}
	return nil
}

// IntBetween fails when value is outside [min, max].
func IntBetween(field string, value, min, max int) *FieldError {
	if value < min || value > max {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must be between %d and %d", field, min, max)}
	}
	return nil
}
