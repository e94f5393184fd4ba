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

// ErrConflict indicates that an idempotency key was already recorded; callers treat
// this as "already handled", not as a failure.
var ErrConflict = errors.New("already processed")

// ErrOverpayment indicates that applying a payment would drive a debt's remaining
// amount below zero.
var ErrOverpayment = errors.New("payment exceeds remaining amount")

// ErrDebtClosed indicates an attempt to pay a cancelled debt.
var ErrDebtClosed = errors.New("debt is cancelled")

// ErrInvalidPlan indicates an installment plan request with a non-positive count
// or total amount.
var ErrInvalidPlan = errors.New("invalid installment plan")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with a code and message, mostly used by the
// repository layer to classify storage failures.
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

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsTransient reports whether err is a storage-level failure worth retrying on the
// next trigger, as opposed to a domain rejection.
func IsTransient(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code >= 500
	}
	return false
}
