// Package logging provides structured logging utilities for tilda.
//
// All logging goes through the standard library's slog package. New builds
// the process logger (text or JSON, leveled) and the helpers here keep
// attribute names consistent across packages.
//
// # Usage Patterns
//
//	logger := logging.WithOperation(slog.Default(), "delete_event_by_title")
//	logger.Info("event deleted",
//	    logging.Calendar("Work"),
//	    logging.Event("Lunch"))
//
// Packages that should not depend on slog directly accept the Logger
// interface and receive a SlogAdapter.
package logging
