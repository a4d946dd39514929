package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/bmi-api/internal/api"
	"github.com/phrazzld/bmi-api/internal/config"
	"github.com/phrazzld/bmi-api/internal/events"
	"github.com/phrazzld/bmi-api/internal/mocks"
	"github.com/phrazzld/bmi-api/internal/platform/logger"
	"github.com/phrazzld/bmi-api/internal/platform/metrics"
	"github.com/phrazzld/bmi-api/internal/service"
	"github.com/phrazzld/bmi-api/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

// newTestApplication wires the real services over in-memory stores and a
// sqlmock database used only for user transactions.
func newTestApplication(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.NewTestLogger(t)
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Auth: config.AuthConfig{
			JWTSecret:                   testSecret,
			TokenLifetimeMinutes:        60,
			RefreshTokenLifetimeMinutes: 1440,
			BcryptCost:                  4,
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	userStore := mocks.NewMockUserStore()
	recorder := metrics.New(prometheus.NewRegistry())
	emitter := events.NewInMemoryEventEmitter(log)

	measurementService, err := service.NewMeasurementService(mocks.NewMockMeasurementStore(), log,
		service.WithEventEmitter(emitter),
		service.WithOwnerLookup(userStore),
		service.WithObserver(recorder))
	require.NoError(t, err)

	return &application{
		config:             cfg,
		logger:             log,
		db:                 db,
		userStore:          userStore,
		jwtService:         jwtService,
		passwordVerifier:   auth.NewBcryptVerifier(),
		userService:        service.NewUserService(userStore, db, log),
		measurementService: measurementService,
		eventEmitter:       emitter,
		metrics:            recorder,
	}, dbMock
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := doJSON(t, app.setupRouter(), http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestRouter_MeasurementsRequireToken(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	for _, path := range []string{
		"/api/measurements",
		"/api/measurements/statistics",
		"/api/measurements/export",
		"/api/users/me",
		"/api/users",
	} {
		t.Run(path, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_RegisterMeasureAndRead(t *testing.T) {
	app, dbMock := newTestApplication(t)
	router := app.setupRouter()

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Email:    "walker@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var registered api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.AccessToken)
	require.NoError(t, dbMock.ExpectationsWereMet())

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Email:    "walker@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, registered.UserID, session.UserID)

	for _, body := range []string{
		`{"weight":70,"height":1.75}`,
		`{"weight":85,"height":1.75}`,
	} {
		rec = doJSON(t, router, http.MethodPost, "/api/measurements", session.AccessToken, json.RawMessage(body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/measurements", session.AccessToken,
		json.RawMessage(`{"weight":70,"height":1.755}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/measurements?take=1", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []api.MeasurementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/measurements/statistics", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats api.StatisticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats.MonthlyBMI, 1)
	assert.Equal(t, "25.31", stats.MonthlyBMI[0].Value.String())

	rec = doJSON(t, router, http.MethodGet, "/api/users", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "walker@example.com", users[0].Email)

	rec = doJSON(t, router, http.MethodGet, "/api/measurements/export", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	rec = doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bmi_operations_total{operation="calculate",result="success"} 2`)
	assert.Contains(t, rec.Body.String(), `route="/api/measurements"`)
}

func TestRouter_RefreshRejectsAccessToken(t *testing.T) {
	app, dbMock := newTestApplication(t)
	router := app.setupRouter()

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Email:    "refresh@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var tokens api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))

	rec = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "",
		api.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/refresh", "",
		api.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigurePool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	configurePool(db, config.DatabaseConfig{MaxOpenConns: 8})
	assert.Equal(t, 8, db.Stats().MaxOpenConnections)

	configurePool(db, config.DatabaseConfig{})
	assert.Equal(t, 10, db.Stats().MaxOpenConnections)
}
