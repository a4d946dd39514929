// Package logger provides structured logging for the application.
//
// It builds JSON log/slog loggers at the configured level and carries a
// request-scoped logger through context.Context so that every log line for a
// request shares the same trace_id.
package logger
