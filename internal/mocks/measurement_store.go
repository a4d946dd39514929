package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/store"
)

// MockMeasurementStore is an in-memory store.MeasurementStore. Records are
// partitioned by owner exactly like the Postgres implementation.
type MockMeasurementStore struct {
	CreateFn      func(ctx context.Context, draft *domain.MeasurementDraft) (*domain.Measurement, error)
	FindByOwnerFn func(ctx context.Context, ownerID uuid.UUID, q domain.HistoryQuery) ([]*domain.Measurement, error)

	// CreateError and FindError short-circuit the default behavior.
	CreateError error
	FindError   error

	mu          sync.Mutex
	records     map[uuid.UUID][]*domain.Measurement
	nextID      int
	CreateCalls int
	FindCalls   int
}

var _ store.MeasurementStore = (*MockMeasurementStore)(nil)

// NewMockMeasurementStore creates an empty MockMeasurementStore.
func NewMockMeasurementStore() *MockMeasurementStore {
	return &MockMeasurementStore{
		records: make(map[uuid.UUID][]*domain.Measurement),
	}
}

// Create assigns a sequential id and stores the record.
func (m *MockMeasurementStore) Create(
	ctx context.Context,
	draft *domain.MeasurementDraft,
) (*domain.Measurement, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, draft)
	}
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	if !draft.Category.Valid() {
		return nil, store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records == nil {
		m.records = make(map[uuid.UUID][]*domain.Measurement)
	}
	m.nextID++
	rec := &domain.Measurement{
		ID:         domain.RecordID("rec-" + strconv.Itoa(m.nextID)),
		OwnerID:    draft.OwnerID,
		WeightKg:   draft.WeightKg,
		HeightM:    draft.HeightM,
		BMI:        draft.BMI,
		Category:   draft.Category,
		RecordedAt: draft.RecordedAt,
	}
	m.records[draft.OwnerID] = append(m.records[draft.OwnerID], rec)

	out := *rec
	return &out, nil
}

// Seed stores records as given, bypassing validation. Useful for statistics
// tests that need malformed or backdated rows.
func (m *MockMeasurementStore) Seed(records ...*domain.Measurement) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records == nil {
		m.records = make(map[uuid.UUID][]*domain.Measurement)
	}
	for _, r := range records {
		rec := *r
		if rec.ID == "" {
			m.nextID++
			rec.ID = domain.RecordID("rec-" + strconv.Itoa(m.nextID))
		}
		m.records[rec.OwnerID] = append(m.records[rec.OwnerID], &rec)
	}
}

// FindByOwner returns copies of the owner's records ordered by RecordedAt
// then id, windowed by q.
func (m *MockMeasurementStore) FindByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	q domain.HistoryQuery,
) ([]*domain.Measurement, error) {
	m.mu.Lock()
	m.FindCalls++
	m.mu.Unlock()

	if m.FindByOwnerFn != nil {
		return m.FindByOwnerFn(ctx, ownerID, q)
	}
	if m.FindError != nil {
		return nil, m.FindError
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	owned := m.records[ownerID]
	sorted := make([]*domain.Measurement, len(owned))
	for i, r := range owned {
		rec := *r
		sorted[i] = &rec
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.RecordedAt.Equal(b.RecordedAt) {
			if q.Descending {
				return a.RecordedAt.After(b.RecordedAt)
			}
			return a.RecordedAt.Before(b.RecordedAt)
		}
		if q.Descending {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})

	if q.Skip >= len(sorted) {
		return []*domain.Measurement{}, nil
	}
	sorted = sorted[q.Skip:]
	if q.Take > 0 && q.Take < len(sorted) {
		sorted = sorted[:q.Take]
	}
	return sorted, nil
}
