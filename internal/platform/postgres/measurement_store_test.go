package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/platform/postgres"
	"github.com/phrazzld/bmi-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var measurementColumns = []string{"id", "owner_id", "weight_kg", "height_m", "bmi", "category", "recorded_at"}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testDraft(owner uuid.UUID) *domain.MeasurementDraft {
	return &domain.MeasurementDraft{
		OwnerID:    owner,
		WeightKg:   decimal.RequireFromString("70"),
		HeightM:    decimal.RequireFromString("1.75"),
		BMI:        decimal.RequireFromString("22.86"),
		Category:   domain.CategoryNormal,
		RecordedAt: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestMeasurementStore_Create(t *testing.T) {
	t.Parallel()

	db, mock := newSQLMock(t)
	s := postgres.NewPostgresMeasurementStore(db, nil)
	owner := uuid.New()
	draft := testDraft(owner)

	mock.ExpectQuery("INSERT INTO measurements").
		WithArgs(owner, "70", "1.75", "22.86", "Normal", draft.RecordedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("7f0c1b9e-0000-4000-8000-000000000001"))

	m, err := s.Create(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, domain.RecordID("7f0c1b9e-0000-4000-8000-000000000001"), m.ID)
	assert.Equal(t, owner, m.OwnerID)
	assert.True(t, m.BMI.Equal(draft.BMI))
	assert.Equal(t, domain.CategoryNormal, m.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeasurementStore_CreateMapsDatabaseErrors(t *testing.T) {
	t.Parallel()

	db, mock := newSQLMock(t)
	s := postgres.NewPostgresMeasurementStore(db, nil)

	mock.ExpectQuery("INSERT INTO measurements").
		WillReturnError(newPgError("23503"))

	_, err := s.Create(context.Background(), testDraft(uuid.New()))
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeasurementStore_CreateRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	db, mock := newSQLMock(t)
	s := postgres.NewPostgresMeasurementStore(db, nil)

	draft := testDraft(uuid.New())
	draft.Category = "Huge"

	_, err := s.Create(context.Background(), draft)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeasurementStore_FindByOwner(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	t1 := time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, time.February, 5, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     domain.HistoryQuery
		sqlOrder  string
		wantLimit any
	}{
		{"descending page", domain.HistoryQuery{Skip: 1, Take: 2, Descending: true}, "ORDER BY recorded_at DESC, id DESC", int64(2)},
		{"ascending all", domain.HistoryQuery{}, "ORDER BY recorded_at ASC, id ASC", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newSQLMock(t)
			s := postgres.NewPostgresMeasurementStore(db, nil)

			rows := sqlmock.NewRows(measurementColumns).
				AddRow("a", owner.String(), "70", "1.75", "22.86", "Normal", t1).
				AddRow("b", owner.String(), "85.5", "1.75", "27.92", "OverWeight", t2)

			mock.ExpectQuery(tc.sqlOrder).
				WithArgs(owner, tc.query.Skip, tc.wantLimit).
				WillReturnRows(rows)

			got, err := s.FindByOwner(context.Background(), owner, tc.query)
			require.NoError(t, err)
			require.Len(t, got, 2)

			assert.Equal(t, domain.RecordID("a"), got[0].ID)
			assert.Equal(t, owner, got[0].OwnerID)
			assert.Equal(t, "22.86", got[0].BMI.StringFixed(2))
			assert.Equal(t, domain.CategoryOverWeight, got[1].Category)
			assert.Equal(t, "85.5", got[1].WeightKg.String())
			assert.True(t, got[1].RecordedAt.Equal(t2))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMeasurementStore_FindByOwnerEmpty(t *testing.T) {
	t.Parallel()

	db, mock := newSQLMock(t)
	s := postgres.NewPostgresMeasurementStore(db, nil)

	mock.ExpectQuery("FROM measurements").WillReturnRows(sqlmock.NewRows(measurementColumns))

	got, err := s.FindByOwner(context.Background(), uuid.New(), domain.HistoryQuery{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMeasurementStore_FindByOwnerErrors(t *testing.T) {
	t.Parallel()

	t.Run("query failure", func(t *testing.T) {
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresMeasurementStore(db, nil)
		dbErr := errors.New("connection refused")

		mock.ExpectQuery("FROM measurements").WillReturnError(dbErr)

		_, err := s.FindByOwner(context.Background(), uuid.New(), domain.HistoryQuery{})
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("unknown category in row", func(t *testing.T) {
		db, mock := newSQLMock(t)
		s := postgres.NewPostgresMeasurementStore(db, nil)
		owner := uuid.New()

		mock.ExpectQuery("FROM measurements").WillReturnRows(
			sqlmock.NewRows(measurementColumns).
				AddRow("a", owner.String(), "70", "1.75", "22.86", "Chonky", time.Now()))

		_, err := s.FindByOwner(context.Background(), owner, domain.HistoryQuery{})
		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})

	t.Run("negative pagination", func(t *testing.T) {
		db, _ := newSQLMock(t)
		s := postgres.NewPostgresMeasurementStore(db, nil)

		_, err := s.FindByOwner(context.Background(), uuid.New(), domain.HistoryQuery{Skip: -1})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestNewPostgresMeasurementStore_PanicsOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postgres.NewPostgresMeasurementStore(nil, nil) })
}
