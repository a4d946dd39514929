package service

import (
	"errors"
	"fmt"
)

// ErrPersistence is matched by every *PersistenceError. The API layer maps it
// to a 500 with a generic message.
var ErrPersistence = errors.New("operation failed")

// PersistenceError reports that the record store could not complete an
// operation. The store's error is logged where it occurs and deliberately not
// wrapped, so callers cannot leak it.
type PersistenceError struct {
	Operation string
}

// Error implements the error interface for PersistenceError.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: the measurement could not be processed", e.Operation)
}

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// UserServiceError wraps failures from user operations with the operation name.
type UserServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for UserServiceError.
func (e *UserServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("user service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *UserServiceError) Unwrap() error {
	return e.Err
}

// NewUserServiceError creates a new UserServiceError.
func NewUserServiceError(operation, message string, err error) *UserServiceError {
	return &UserServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
