// Package apperrors defines the error taxonomy shared by the HTTP handlers:
// validation failures map to 400, remote table service failures to 500 with
// the upstream body passed through verbatim, and store failures to 500.
package apperrors

import "fmt"

// ValidationError reports a missing or malformed required field. It never
// reaches a backing store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func NewValidation(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// UpstreamError wraps a failed call to the remote table service. Body holds
// the upstream response payload verbatim so the caller can surface it.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote table service call failed: %v", e.Err)
	}
	return fmt.Sprintf("remote table service returned status %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StoreError wraps a document or queue read/write failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
