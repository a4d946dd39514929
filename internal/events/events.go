package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Event types.
const (
	// MeasurementRecordedType is emitted after a measurement is stored.
	MeasurementRecordedType = "measurement.recorded"
)

// Event is an envelope around a JSON payload.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEvent serialises payload into a new Event of the given type.
func NewEvent(eventType string, payload any) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// MeasurementRecorded is the payload of a MeasurementRecordedType event.
type MeasurementRecorded struct {
	RecordID   domain.RecordID `json:"record_id"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	WeightKg   decimal.Decimal `json:"weight_kg"`
	HeightM    decimal.Decimal `json:"height_m"`
	BMI        decimal.Decimal `json:"bmi"`
	Category   domain.Category `json:"category"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// NewMeasurementRecordedEvent builds the event announcing m.
func NewMeasurementRecordedEvent(m *domain.Measurement) (*Event, error) {
	return NewEvent(MeasurementRecordedType, MeasurementRecorded{
		RecordID:   m.ID,
		OwnerID:    m.OwnerID,
		WeightKg:   m.WeightKg,
		HeightM:    m.HeightM,
		BMI:        m.BMI,
		Category:   m.Category,
		RecordedAt: m.RecordedAt,
	})
}

// EventHandler processes events delivered by an emitter.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events to interested handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}
