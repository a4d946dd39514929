// Package service contains the application use cases. It coordinates domain
// rules with the stores defined in internal/store and never depends on a
// concrete storage engine or transport.
//
// MeasurementService owns the measurement lifecycle: validate, calculate,
// persist once and present. Store failures surface as *PersistenceError,
// client mistakes as *domain.ValidationError.
//
// UserService manages accounts and runs its writes inside transactions.
package service
