package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the escrow engine. Every state-changing operation
// returns one of these at the service boundary; handlers translate them to
// HTTP responses, nothing is allowed to fail silently.
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidState        = errors.New("invalid state for this operation")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfPurchase        = errors.New("cannot purchase your own product")
	ErrForbidden           = errors.New("not allowed")
	ErrExternalRelay       = errors.New("proof delivery to relay failed")
)

// ValidationError carries a user-facing reason for a rejected request
// (malformed destination, non-positive amount, unknown method).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
