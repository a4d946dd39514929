package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/bmi-api/internal/api"
	apiMiddleware "github.com/phrazzld/bmi-api/internal/api/middleware"
)

const requestTimeout = 30 * time.Second

// setupRouter registers every route and the middleware stack.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
	}

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.passwordVerifier)
	userHandler := api.NewUserHandler(app.userService)
	measurementHandler := api.NewMeasurementHandler(app.measurementService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users", userHandler.List)
			r.Get("/users/me", userHandler.GetMe)
			r.Patch("/users/me", userHandler.UpdateMe)

			r.Post("/measurements", measurementHandler.Calculate)
			r.Get("/measurements", measurementHandler.History)
			r.Get("/measurements/statistics", measurementHandler.Statistics)
			r.Get("/measurements/export", measurementHandler.Export)
		})
	})

	if app.metrics != nil {
		r.Handle("/metrics", app.metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
