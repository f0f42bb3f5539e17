package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that an account balance cannot cover a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrStateConflict indicates that an operation is invalid for the current
// lifecycle state of the resource (closed block, suspended account, ...).
var ErrStateConflict = errors.New("operation conflicts with resource state")

// ErrForbidden indicates that the caller does not own the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that no valid identity accompanied the request.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure inside the service or a dependency.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish code and a caller-facing message alongside
// the wrapped cause. Repositories return these for infrastructure failures.
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

// NewAppError builds an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

func NewInternalServerError(message string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	} else if !errors.Is(err, ErrInternal) {
		err = fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err}
}
