package errors

import "fmt"

// ErrValidation signals malformed input to a constructor or setter,
// e.g. a non-3-letter currency code or a negative quantity.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrNotFound signals a missing entity during resolution.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// ErrNotAllowed signals an operation rejected by a business rule.
type ErrNotAllowed struct {
	Reason string
}

func (e *ErrNotAllowed) Error() string {
	return e.Reason
}

// ErrCurrencyMismatch signals arithmetic between two Money values of
// different currencies.
type ErrCurrencyMismatch struct {
	Left  string
	Right string
}

func (e *ErrCurrencyMismatch) Error() string {
	return fmt.Sprintf("currency mismatch: %s != %s", e.Left, e.Right)
}

// ErrInsufficientQuantity signals a sell larger than the held quantity.
// Kept distinct from ErrNotAllowed so callers can report the shortfall.
type ErrInsufficientQuantity struct {
	Available string
	Requested string
}

func (e *ErrInsufficientQuantity) Error() string {
	return fmt.Sprintf("insufficient quantity: have %s, requested %s", e.Available, e.Requested)
}

// NotAllowed builds an ErrNotAllowed with a formatted reason.
func NotAllowed(format string, args ...interface{}) *ErrNotAllowed {
	return &ErrNotAllowed{Reason: fmt.Sprintf(format, args...)}
}
