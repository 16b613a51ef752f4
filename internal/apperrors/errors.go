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

// ErrForbidden indicates the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInsufficientFunds indicates a balance precondition failed; the operation
// had no effect and must not be retried with the same amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrCrossTenantViolation indicates the source and target accounts of a
// transfer belong to different tenants. Always a caller bug.
var ErrCrossTenantViolation = errors.New("transfer crosses tenant boundary")

// ErrInvalidReversalAmount indicates a clawback or reversal exceeds the amount
// historically transferred along that path.
var ErrInvalidReversalAmount = errors.New("reversal exceeds historically allocated amount")

// ErrConcurrentModification indicates a locking conflict with a competing
// writer. Transient; callers should retry with a fresh read.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// ErrDuplicateReference indicates a transfer with the same reference and
// transaction type was already committed. Callers treat this as an idempotent
// replay and return the prior receipt.
var ErrDuplicateReference = errors.New("reference already used for this transaction type")

// ErrStorageFailure indicates the underlying persistence layer failed. The
// transaction guarantees no partial write occurred; retry the whole operation.
var ErrStorageFailure = errors.New("storage failure")

// AppError carries an HTTP-ish status code alongside a message and the
// wrapped cause. Repositories use it for infrastructure failures.
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

// NewAppError creates an AppError wrapping err. A 5xx code additionally marks
// the error as a storage failure so callers can match on ErrStorageFailure.
func NewAppError(code int, message string, err error) *AppError {
	if code >= 500 {
		if err == nil {
			err = ErrStorageFailure
		} else if !errors.Is(err, ErrStorageFailure) {
			err = fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
