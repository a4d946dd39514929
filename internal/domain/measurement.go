package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordID identifies a stored measurement. Its format belongs to the store.
type RecordID string

// String returns the id as text.
func (id RecordID) String() string {
	return string(id)
}

// Measurement is a persisted BMI calculation owned by one user.
// Records are immutable once stored.
type Measurement struct {
	ID         RecordID
	OwnerID    uuid.UUID
	WeightKg   decimal.Decimal
	HeightM    decimal.Decimal
	BMI        decimal.Decimal
	Category   Category
	RecordedAt time.Time
}

// MeasurementDraft is a measurement that has not been assigned an id yet.
type MeasurementDraft struct {
	OwnerID    uuid.UUID
	WeightKg   decimal.Decimal
	HeightM    decimal.Decimal
	BMI        decimal.Decimal
	Category   Category
	RecordedAt time.Time
}

// NewMeasurementDraft calculates BMI and category for a validated input.
func NewMeasurementDraft(ownerID uuid.UUID, in MeasurementInput, recordedAt time.Time) (*MeasurementDraft, error) {
	if ownerID == uuid.Nil {
		return nil, ErrEmptyUserID
	}

	bmi, category := CalculateBMI(in)

	return &MeasurementDraft{
		OwnerID:    ownerID,
		WeightKg:   in.WeightKg,
		HeightM:    in.HeightM,
		BMI:        bmi,
		Category:   category,
		RecordedAt: recordedAt.UTC(),
	}, nil
}

// HistoryQuery selects a window of an owner's measurements ordered by
// RecordedAt. Take of zero returns every record after Skip.
type HistoryQuery struct {
	Skip       int
	Take       int
	Descending bool
}

// Validate rejects negative offsets and limits.
func (q HistoryQuery) Validate() error {
	if q.Skip < 0 {
		return newReasonError(ReasonInvalidPagination, FieldSkip, "must be zero or greater")
	}
	if q.Take < 0 {
		return newReasonError(ReasonInvalidPagination, FieldTake, "must be zero or greater")
	}
	return nil
}
