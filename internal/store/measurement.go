package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
)

// MeasurementStore persists BMI measurements. Every read is scoped to a
// single owner. Records are append-only.
type MeasurementStore interface {
	// Create stores the draft and returns it with its assigned id.
	Create(ctx context.Context, draft *domain.MeasurementDraft) (*domain.Measurement, error)

	// FindByOwner returns the owner's measurements ordered by RecordedAt,
	// skipping q.Skip records and returning at most q.Take (all when zero).
	// An owner with no records gets an empty slice.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, q domain.HistoryQuery) ([]*domain.Measurement, error)
}
