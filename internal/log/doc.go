// Package log provides logging functionality with automatic truncation of
// oversized attribute values, built on top of the standard slog package.
//
// Scan output and model responses routinely run to tens of kilobytes. Logging
// them verbatim makes debug output unreadable and can leak the entire scan
// into shared terminal logs, so the TruncatingHandler caps long string
// attributes before they reach the underlying handler.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("scan finished",
//	    "output", raw, // Truncated if longer than the cap
//	    "target", target,
//	)
//
//	slog.SetDefault(logger)
package log
