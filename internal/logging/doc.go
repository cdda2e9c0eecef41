// Package logging builds the application's slog loggers.
//
// Two output formats are supported: a human-oriented console format with
// optional ANSI colors, and line-delimited JSON for log files and scripting.
// Attr helpers keep call sites terse and the component/run_id field names
// consistent across packages.
package logging
