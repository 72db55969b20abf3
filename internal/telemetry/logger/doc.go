// Package logger provides structured logging for Jubilee.
//
// It builds log/slog loggers with JSON or text output, a process-wide level
// that can be changed at runtime, and redaction of attributes whose keys
// look like secrets (ssl_password and friends). context.go carries
// request-scoped loggers and request IDs.
package logger
