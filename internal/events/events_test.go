package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeasurementRecordedEvent(t *testing.T) {
	m := &domain.Measurement{
		ID:         "rec-1",
		OwnerID:    uuid.New(),
		WeightKg:   decimal.RequireFromString("70"),
		HeightM:    decimal.RequireFromString("1.75"),
		BMI:        decimal.RequireFromString("22.86"),
		Category:   domain.CategoryNormal,
		RecordedAt: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC),
	}

	event, err := NewMeasurementRecordedEvent(m)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, MeasurementRecordedType, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var payload MeasurementRecorded
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, m.ID, payload.RecordID)
	assert.Equal(t, m.OwnerID, payload.OwnerID)
	assert.True(t, payload.BMI.Equal(m.BMI))
	assert.Equal(t, domain.CategoryNormal, payload.Category)
	assert.True(t, payload.RecordedAt.Equal(m.RecordedAt))
}

func TestNewEvent_UnsupportedPayload(t *testing.T) {
	_, err := NewEvent("bad", make(chan int))
	assert.Error(t, err)
}
