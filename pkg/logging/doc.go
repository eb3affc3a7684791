// Package logging provides structured logging utilities for autotag.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults:
// JSON output to stderr, environment-based level configuration via LOG_LEVEL,
// module/version context on every record, and source location tracking for
// debug logs. Stdout is reserved for serialized command output, so all logs
// go to stderr.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("autotag", "v1.0.0")
//
//	    slog.Info("decision computed", "prior", "1.2.0", "next", "1.3.0")
//	}
//
// Creating a custom logger for injection (the decision engine takes the
// logger as an explicit parameter so the core stays side-effect free):
//
//	logger := logging.NewStructuredLogger(os.Stderr, "autotag", "v1.0.0", "debug")
//	eng := engine.New(scanner, logger)
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug autotag decide
//
// If LOG_LEVEL is not set, defaults to INFO level.
package logging
