// Package logging provides structured logging configuration for crudsync.
//
// This package wraps log/slog so that stores, transports and the CLI log
// the same way. It supports configurable log levels and output formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//
//	reg := stateful.NewRegistry(stateful.WithLogger(logger))
//
// # Integration
//
// Components accept a *slog.Logger through an option. If no logger is
// provided they use logging.Nop().
package logging
