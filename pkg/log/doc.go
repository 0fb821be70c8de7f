// Package log captures option events for scanner sessions.
//
// Every read, write, button transition, visibility change, reload, and scan
// boundary of a scanner.Device can be recorded as an Event. This is separate
// from operational logging (slog): event capture is a complete,
// machine-readable trace of what was asked of the device and how it answered.
//
// # Basic Usage
//
// Applications enable capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to a binary file
//	cfg.EventLogger, _ = log.NewFileLogger("session.olog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Event files are a sequence of CBOR maps with integer keys, using the .olog
// extension. A truncated last event is reported as ErrCorrupt; the events
// before it stay readable. The scanopt-log tool works on these files.
package log
