// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. It also owns the schema: goose migrations are
// embedded in the package and applied with Migrate.
package postgres
