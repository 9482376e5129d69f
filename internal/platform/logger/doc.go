// Package logger provides structured logging functionality for the client.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and carries loggers on contexts so that a request's
// attributes follow it through the gateway and session layers.
package logger
