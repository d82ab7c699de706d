// Package logging provides structured logging for lber tools and trace output.
//
// # Overview
//
// The logging package wraps zerolog behind a small interface with support for:
//
//   - Multiple log levels (debug, info, warn, error)
//   - Text and JSON output formats
//   - Field-based contextual logging
//
// # Creating a Logger
//
// Create a logger with configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/berdump.log",
//	})
//
// Or use defaults:
//
//	logger := logging.NewDefault() // Info level, text format, stdout
//
// For testing, use a no-op logger or write into a buffer:
//
//	logger := logging.NewNop()
//	logger := logging.NewWithOutput(logging.Config{Level: "debug", Format: "json"}, &buf)
//
// # Structured Logging
//
// Add key-value pairs to log entries:
//
//	logger.Debug("ber put",
//	    "tag", "SEQUENCE",
//	    "offset", 0,
//	    "len", 5,
//	    "dump", "3003020105",
//	)
//
// Output (JSON format):
//
//	{"level":"debug","tag":"SEQUENCE","offset":0,"len":5,"dump":"3003020105","time":"2026-02-18T10:30:00Z","message":"ber put"}
//
// # Output Formats
//
// Text format goes through zerolog.ConsoleWriter. Colors are used only when
// the output is a terminal:
//
//	2026-02-18T10:30:00Z DBG ber put dump=3003020105 len=5 offset=0 tag=SEQUENCE
//
// # Output Destinations
//
// Configure output destination:
//
//	logging.Config{Output: "stdout"}               // Standard output
//	logging.Config{Output: "stderr"}               // Standard error
//	logging.Config{Output: "/var/log/berdump.log"} // File path
package logging
