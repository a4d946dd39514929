// Package store defines interfaces for data persistence operations.
// These interfaces keep the BMI services independent of the database that
// backs them: Postgres in production and in-memory fakes in tests.
package store
