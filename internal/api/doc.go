// Package api holds the HTTP handlers of the BMI service. Handlers decode and
// validate requests, call the measurement and user services and translate
// their errors into sanitized JSON responses. Routing lives in cmd/server.
package api
