// Package logger provides structured logging functionality for the application.
//
// It configures log/slog with a JSON handler at the configured level,
// decorates records with OpenTelemetry trace identifiers, and carries
// request-scoped loggers through context.Context.
package logger
