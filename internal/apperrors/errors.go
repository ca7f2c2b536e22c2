package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of a resource.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrInvalidTransition indicates a cheque status change that is not permitted
// from the cheque's current status. Rejected before any write.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrAlreadyProcessed indicates an idempotency guard was tripped, e.g. cashing
// a cheque that already has a linked payment. Rejected before any write.
var ErrAlreadyProcessed = errors.New("cheque already processed")

// ErrDataIntegrity indicates a computed balance would violate a ledger
// invariant (a total-paid going negative on reversal). Operations fail fast on
// this rather than clamp, since it implies duplicate reversal or corrupted
// prior state needing manual reconciliation.
var ErrDataIntegrity = errors.New("ledger data integrity fault")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
// Repositories use it to report storage failures distinctly from domain errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
