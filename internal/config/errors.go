package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no target was given on the command line
	// and the interactive prompt received an empty answer.
	ErrNoTarget = errors.New("no target specified: provide an IP address or hostname")

	// ErrInvalidMode is returned when the scan mode is outside the known set.
	ErrInvalidMode = errors.New("invalid scan mode: choose 1-5 or a mode name")

	// ErrInvalidScanTimeout is returned when the scan timeout is not positive.
	// A zero or negative timeout would kill the scan before it starts.
	ErrInvalidScanTimeout = errors.New("invalid scan timeout: must be positive")

	// ErrInvalidAnalysisTimeout is returned when the analysis timeout is not
	// positive.
	ErrInvalidAnalysisTimeout = errors.New("invalid analysis timeout: must be positive")

	// ErrInvalidNumCtx is returned when the model context window is not positive.
	ErrInvalidNumCtx = errors.New("invalid context window: must be positive")

	// ErrInvalidTemperature is returned when the sampling temperature is
	// negative. Zero is valid and means deterministic output.
	ErrInvalidTemperature = errors.New("invalid temperature: must be non-negative")

	// ErrEmptyPortSpec is returned when the ports scan mode is selected but
	// no port specification was given.
	ErrEmptyPortSpec = errors.New("empty port specification: provide a range like 1-10000")
)
