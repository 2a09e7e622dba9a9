package corpus

import (
	"fmt"

	openapierrors "github.com/go-openapi/errors"
)

// integrityErrorCode is an arbitrary stable code for corpus-integrity
// failures, reusing go-openapi/errors' coded Error type purely for its
// Code()/formatting behavior rather than anything HTTP-specific.
const integrityErrorCode = 1001

// IntegrityError reports a malformed bimap row; per spec.md section 7 it
// is always fatal and aborts the enclosing run.
type IntegrityError struct {
	inner openapierrors.Error
	Value string
}

func (e *IntegrityError) Error() string { return e.inner.Error() }

// Unwrap exposes the go-openapi coded error so callers can still inspect
// Code() via errors.As against openapierrors.Error.
func (e *IntegrityError) Unwrap() error { return e.inner }

// NewIntegrityError builds an IntegrityError for reason, optionally
// carrying the offending value for diagnostics.
func NewIntegrityError(reason, value string) *IntegrityError {
	msg := reason
	if value != "" {
		msg = fmt.Sprintf("%s: %q", reason, value)
	}
	return &IntegrityError{
		inner: openapierrors.New(integrityErrorCode, msg),
		Value: value,
	}
}
