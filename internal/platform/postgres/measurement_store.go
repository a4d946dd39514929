package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/platform/logger"
	"github.com/phrazzld/bmi-api/internal/store"
)

// PostgresMeasurementStore implements store.MeasurementStore on PostgreSQL.
// Ids are generated by the database.
type PostgresMeasurementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMeasurementStore creates a measurement store. If logger is nil,
// slog.Default() is used.
func NewPostgresMeasurementStore(db store.DBTX, logger *slog.Logger) *PostgresMeasurementStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMeasurementStore{
		db:     db,
		logger: logger.With(slog.String("component", "measurement_store")),
	}
}

var _ store.MeasurementStore = (*PostgresMeasurementStore)(nil)

// Create inserts the draft and returns the stored measurement.
func (s *PostgresMeasurementStore) Create(
	ctx context.Context,
	draft *domain.MeasurementDraft,
) (*domain.Measurement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if draft == nil {
		return nil, fmt.Errorf("%w: nil measurement draft", store.ErrInvalidEntity)
	}
	if !draft.Category.Valid() {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidCategory)
	}

	query := `
		INSERT INTO measurements (owner_id, weight_kg, height_m, bmi, category, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text
	`
	var id string
	err := s.db.QueryRowContext(ctx, query,
		draft.OwnerID,
		draft.WeightKg,
		draft.HeightM,
		draft.BMI,
		string(draft.Category),
		draft.RecordedAt,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create measurement",
			slog.String("error", err.Error()),
			slog.String("owner_id", draft.OwnerID.String()))
		return nil, MapError(err)
	}

	log.Debug("measurement created",
		slog.String("measurement_id", id),
		slog.String("owner_id", draft.OwnerID.String()),
		slog.String("category", draft.Category.String()))

	return &domain.Measurement{
		ID:         domain.RecordID(id),
		OwnerID:    draft.OwnerID,
		WeightKg:   draft.WeightKg,
		HeightM:    draft.HeightM,
		BMI:        draft.BMI,
		Category:   draft.Category,
		RecordedAt: draft.RecordedAt.UTC(),
	}, nil
}

// FindByOwner returns a page of the owner's measurements. Ties on
// recorded_at are broken by id so pages are stable.
func (s *PostgresMeasurementStore) FindByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	q domain.HistoryQuery,
) ([]*domain.Measurement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := q.Validate(); err != nil {
		return nil, err
	}

	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}
	query := fmt.Sprintf(`
		SELECT id::text, owner_id, weight_kg, height_m, bmi, category, recorded_at
		FROM measurements
		WHERE owner_id = $1
		ORDER BY recorded_at %[1]s, id %[1]s
		LIMIT $3
		OFFSET $2
	`, direction)

	// LIMIT NULL returns every remaining row.
	limit := sql.NullInt64{Int64: int64(q.Take), Valid: q.Take > 0}

	rows, err := s.db.QueryContext(ctx, query, ownerID, q.Skip, limit)
	if err != nil {
		log.Error("failed to query measurements",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	measurements := make([]*domain.Measurement, 0)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			log.Error("failed to scan measurement row",
				slog.String("error", err.Error()),
				slog.String("owner_id", ownerID.String()))
			return nil, err
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed to iterate measurement rows",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}

	log.Debug("measurements retrieved",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(measurements)))
	return measurements, nil
}

func scanMeasurement(row rowScanner) (*domain.Measurement, error) {
	var (
		m        domain.Measurement
		id       string
		category string
	)
	if err := row.Scan(&id, &m.OwnerID, &m.WeightKg, &m.HeightM, &m.BMI, &category, &m.RecordedAt); err != nil {
		return nil, err
	}

	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("measurement %s: %w", id, err)
	}

	m.ID = domain.RecordID(id)
	m.Category = c
	m.RecordedAt = m.RecordedAt.UTC()
	return &m, nil
}
