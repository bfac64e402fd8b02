// Package logging provides structured logging for tessel.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation. Every lifecycle decision the shell adapter makes
// (declined roles, ignored signals, variant mismatches) is only observable
// through these logs, so entries carry the surface and view they concern.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (surface ID, view ID, component)
//   - Log rotation with configurable size limits and optional gzip
//   - Parsing and filtering of debug.log for the logs command
//
// # Basic Usage
//
//	logger, err := logging.NewLoggerWithRotation("/var/log/tessel", "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	shellLog := logger.WithComponent("shell")
//	shellLog.WithSurface("s-1").Debug("new toplevel", "title", "Editor")
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"new toplevel","component":"shell","surface_id":"s-1","title":"Editor"}
//
// # Reading Logs Back
//
//	entries, err := logging.AggregateLogs("/var/log/tessel")
//	warnings := logging.FilterLogs(entries, logging.LogFilter{Level: "WARN", SurfaceID: "s-1"})
//	_ = logging.WriteText(os.Stdout, warnings)
package logging
