package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bmi-api/internal/config"
	"github.com/phrazzld/bmi-api/internal/events"
	"github.com/phrazzld/bmi-api/internal/platform/metrics"
	"github.com/phrazzld/bmi-api/internal/platform/postgres"
	"github.com/phrazzld/bmi-api/internal/redact"
	"github.com/phrazzld/bmi-api/internal/service"
	"github.com/phrazzld/bmi-api/internal/service/auth"
	"github.com/phrazzld/bmi-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore        store.UserStore
	measurementStore store.MeasurementStore

	jwtService         auth.JWTService
	passwordVerifier   auth.PasswordVerifier
	userService        service.UserService
	measurementService service.MeasurementService

	eventEmitter *events.InMemoryEventEmitter
	publisher    *events.AMQPPublisher
	metrics      *metrics.Recorder
}

// newApplication wires stores, services, events and metrics. reg receives
// the application collectors.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	reg prometheus.Registerer,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.measurementStore = postgres.NewPostgresMeasurementStore(db, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	if cfg.Events.AMQPURL != "" {
		app.publisher, err = events.DialAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect event publisher: %w", err)
		}
		app.eventEmitter.RegisterHandler(app.publisher)
		logger.Info("publishing events to broker", "exchange", cfg.Events.Exchange)
	}

	opts := []service.MeasurementServiceOption{
		service.WithEventEmitter(app.eventEmitter),
		service.WithOwnerLookup(app.userStore),
	}
	if cfg.Metrics.Enabled {
		app.metrics = metrics.New(reg)
		metrics.RegisterDB(reg, db, logger)
		opts = append(opts, service.WithObserver(app.metrics))
	}

	app.measurementService, err = service.NewMeasurementService(app.measurementStore, logger, opts...)
	if err != nil {
		app.closePublisher()
		return nil, fmt.Errorf("failed to create measurement service: %w", err)
	}
	app.userService = service.NewUserService(app.userStore, db, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) closePublisher() {
	if app.publisher == nil {
		return
	}
	if err := app.publisher.Close(); err != nil {
		app.logger.Error("error closing event publisher", "error", redact.Error(err))
	}
}

// cleanup releases the broker connection and the database pool.
func (app *application) cleanup() {
	app.closePublisher()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", redact.Error(err))
		}
	}

	app.logger.Info("application shutdown completed")
}
