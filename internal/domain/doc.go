// Package domain contains the core business entities, value objects, and
// domain logic of the application: BMI measurement validation, calculation,
// categorization and monthly aggregation. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
