package scanner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/ctfenum/ctfenum/internal/model"
)

// Invocation-level failure reasons. Unlike the classification reasons, these
// indicate the scan never produced output to classify.
const (
	// ReasonTimeout is returned when the scan hit the hard timeout.
	ReasonTimeout = "Timeout"

	// ReasonScanFailed is returned when nmap exited non-zero.
	ReasonScanFailed = "Scan failed"
)

// DefaultScanTimeout bounds one nmap invocation. Full scans of all 65535
// ports against a slow target can legitimately run for a long time, so the
// bound is one hour.
const DefaultScanTimeout = 3600 * time.Second

// DefaultBinary is the scanner executable looked up on PATH.
const DefaultBinary = "nmap"

// Runner executes nmap against a target and classifies the output.
type Runner struct {
	// bin is the nmap executable name or path.
	bin string

	// timeout bounds one invocation.
	timeout time.Duration

	// validator classifies captured standard output.
	validator *Validator

	// logger for structured logging.
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBinary overrides the nmap executable.
func WithBinary(bin string) RunnerOption {
	return func(r *Runner) {
		r.bin = bin
	}
}

// WithTimeout overrides the invocation timeout.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithValidator overrides the output validator.
func WithValidator(v *Validator) RunnerOption {
	return func(r *Runner) {
		r.validator = v
	}
}

// WithRunnerLogger sets a custom logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner with sensible defaults.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		bin:     DefaultBinary,
		timeout: DefaultScanTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.validator == nil {
		r.validator = NewValidator()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// CommandLine returns the full command as it will be executed, for display.
func (r *Runner) CommandLine(target string, options []string) string {
	parts := append([]string{r.bin}, options...)
	parts = append(parts, target)
	return strings.Join(parts, " ")
}

// Run executes one scan and returns its classified outcome. It never returns
// an error: every failure mode, including a missing executable, is folded
// into the outcome's Reason so the caller can present it uniformly.
//
// On timeout or launch failure Raw is empty. On non-zero exit Raw is empty
// and Stderr carries the captured error text. On zero exit Raw is always the
// captured standard output, even when classification failed.
func (r *Runner) Run(ctx context.Context, target string, options []string) *model.ScanOutcome {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, options...), target)
	cmd := exec.CommandContext(runCtx, r.bin, args...) //nolint:gosec // argument list comes from the mode tables and user flags

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("starting scan", "bin", r.bin, "args", args, "timeout", r.timeout)
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		// The deadline check must come first: a killed process also
		// reports a non-zero exit.
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			r.logger.Warn("scan timed out", "target", target, "elapsed", elapsed)
			return &model.ScanOutcome{Reason: ReasonTimeout}
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Warn("scan exited non-zero",
				"target", target,
				"exitCode", exitErr.ExitCode(),
				"stderr", stderr.String(),
			)
			return &model.ScanOutcome{
				Reason: ReasonScanFailed,
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}

		// Launch failure: executable missing, permission denied, etc.
		r.logger.Error("scan could not start", "bin", r.bin, "error", err)
		return &model.ScanOutcome{Reason: err.Error()}
	}

	raw := stdout.String()
	c := r.validator.Validate(raw)

	r.logger.Info("scan finished",
		"target", target,
		"elapsed", elapsed,
		"succeeded", c.Succeeded,
		"reason", c.Reason,
	)

	return &model.ScanOutcome{
		Raw:       raw,
		Succeeded: c.Succeeded,
		Reason:    c.Reason,
		Ports:     c.Ports,
	}
}
