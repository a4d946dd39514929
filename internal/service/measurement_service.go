package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/events"
	"github.com/phrazzld/bmi-api/internal/platform/logger"
	"github.com/phrazzld/bmi-api/internal/redact"
	"github.com/phrazzld/bmi-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// Operation names, used in errors, logs and metrics.
const (
	OpCalculate  = "calculate"
	OpHistory    = "history"
	OpStatistics = "statistics"
	OpExport     = "export"
)

// OperationObserver is told about every completed service operation.
type OperationObserver interface {
	ObserveOperation(operation string, err error, duration time.Duration)
}

// MeasurementService records BMI measurements and reads them back for their owner.
type MeasurementService interface {
	// Calculate validates the raw weight and height, computes the BMI and
	// stores the result as a new measurement owned by ownerID.
	Calculate(ctx context.Context, ownerID uuid.UUID, weight, height domain.RawNumber) (*domain.Measurement, error)

	// History returns a page of the owner's measurements.
	History(ctx context.Context, ownerID uuid.UUID, q domain.HistoryQuery) ([]*domain.Measurement, error)

	// Statistics returns the owner's monthly BMI and weight averages.
	Statistics(ctx context.Context, ownerID uuid.UUID) (*domain.Statistics, error)

	// Export returns the full ascending history together with its statistics.
	Export(ctx context.Context, ownerID uuid.UUID) (*ExportData, error)
}

// ExportData is everything an export document contains. Statistics are
// aggregated from History, so both describe the same read.
type ExportData struct {
	OwnerEmail string
	History    []*domain.Measurement
	Statistics *domain.Statistics
}

// MeasurementServiceOption configures a MeasurementService.
type MeasurementServiceOption func(*measurementServiceImpl)

// WithClock overrides the time source used for RecordedAt.
func WithClock(now func() time.Time) MeasurementServiceOption {
	return func(s *measurementServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEventEmitter publishes a MeasurementRecorded event after every create.
func WithEventEmitter(emitter events.EventEmitter) MeasurementServiceOption {
	return func(s *measurementServiceImpl) {
		s.emitter = emitter
	}
}

// WithOwnerLookup lets Export put the owner's email in the document header.
func WithOwnerLookup(users store.UserStore) MeasurementServiceOption {
	return func(s *measurementServiceImpl) {
		s.users = users
	}
}

// WithObserver reports operation outcomes, typically to metrics.
func WithObserver(observer OperationObserver) MeasurementServiceOption {
	return func(s *measurementServiceImpl) {
		s.observer = observer
	}
}

type measurementServiceImpl struct {
	store    store.MeasurementStore
	users    store.UserStore
	logger   *slog.Logger
	now      func() time.Time
	emitter  events.EventEmitter
	observer OperationObserver
}

var _ MeasurementService = (*measurementServiceImpl)(nil)

// NewMeasurementService creates a MeasurementService backed by measurementStore.
func NewMeasurementService(
	measurementStore store.MeasurementStore,
	logger *slog.Logger,
	opts ...MeasurementServiceOption,
) (MeasurementService, error) {
	if measurementStore == nil {
		return nil, errors.New("measurement store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &measurementServiceImpl{
		store:  measurementStore,
		logger: logger.With("component", "measurement_service"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *measurementServiceImpl) Calculate(
	ctx context.Context,
	ownerID uuid.UUID,
	weight, height domain.RawNumber,
) (m *domain.Measurement, err error) {
	defer s.observe(OpCalculate, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	input, err := domain.ValidateMeasurementInput(weight, height)
	if err != nil {
		log.Debug("measurement input rejected", "error", err, "owner_id", ownerID)
		return nil, err
	}

	draft, err := domain.NewMeasurementDraft(ownerID, input, s.now())
	if err != nil {
		log.Debug("measurement draft rejected", "error", err, "owner_id", ownerID)
		return nil, err
	}

	m, err = s.store.Create(ctx, draft)
	if err != nil {
		return nil, s.persistenceFailure(log, OpCalculate, ownerID, err)
	}

	log.Info("measurement recorded",
		"record_id", m.ID,
		"owner_id", ownerID,
		"category", m.Category)

	s.emitRecorded(ctx, log, m)
	return m, nil
}

func (s *measurementServiceImpl) History(
	ctx context.Context,
	ownerID uuid.UUID,
	q domain.HistoryQuery,
) (records []*domain.Measurement, err error) {
	defer s.observe(OpHistory, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err = s.store.FindByOwner(ctx, ownerID, q)
	if err != nil {
		return nil, s.persistenceFailure(log, OpHistory, ownerID, err)
	}
	if records == nil {
		records = []*domain.Measurement{}
	}

	log.Debug("history retrieved",
		"owner_id", ownerID,
		"count", len(records),
		"skip", q.Skip,
		"take", q.Take)
	return records, nil
}

func (s *measurementServiceImpl) Statistics(
	ctx context.Context,
	ownerID uuid.UUID,
) (stats *domain.Statistics, err error) {
	defer s.observe(OpStatistics, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.store.FindByOwner(ctx, ownerID, domain.HistoryQuery{})
	if err != nil {
		return nil, s.persistenceFailure(log, OpStatistics, ownerID, err)
	}

	return domain.AggregateMonthly(records), nil
}

func (s *measurementServiceImpl) Export(ctx context.Context, ownerID uuid.UUID) (data *ExportData, err error) {
	defer s.observe(OpExport, time.Now(), &err)
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		history []*domain.Measurement
		email   string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = s.store.FindByOwner(gctx, ownerID, domain.HistoryQuery{})
		return err
	})
	if s.users != nil {
		g.Go(func() error {
			owner, err := s.users.GetByID(gctx, ownerID)
			if err != nil {
				return err
			}
			email = owner.Email
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, s.persistenceFailure(log, OpExport, ownerID, err)
	}

	if history == nil {
		history = []*domain.Measurement{}
	}
	return &ExportData{
		OwnerEmail: email,
		History:    history,
		Statistics: domain.AggregateMonthly(history),
	}, nil
}

// persistenceFailure logs the store error and returns the opaque error the
// caller is allowed to see.
func (s *measurementServiceImpl) persistenceFailure(
	log *slog.Logger,
	operation string,
	ownerID uuid.UUID,
	cause error,
) error {
	log.Error("measurement store failure",
		"operation", operation,
		"owner_id", ownerID,
		"error", redact.Error(cause))
	return &PersistenceError{Operation: operation}
}

func (s *measurementServiceImpl) emitRecorded(ctx context.Context, log *slog.Logger, m *domain.Measurement) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewMeasurementRecordedEvent(m)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to emit measurement event",
			"record_id", m.ID,
			"error", redact.Error(err))
	}
}

func (s *measurementServiceImpl) observe(operation string, start time.Time, err *error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(operation, *err, time.Since(start))
}
