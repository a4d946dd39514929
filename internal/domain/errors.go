// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input or a domain entity fails validation.
	// It is usually wrapped by a *ValidationError carrying the specific reason.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidCategory is returned when a string does not name a known BMI category.
	ErrInvalidCategory = errors.New("invalid BMI category")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
