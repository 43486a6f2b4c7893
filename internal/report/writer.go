package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctfenum/ctfenum/internal/model"
)

// Report completeness errors.
//
// Design decision: package-level sentinel errors rather than ad hoc
// fmt.Errorf values, so callers can branch with errors.Is while the messages
// stay human-readable.
var (
	// ErrNoScanText is returned when the run carries no raw scan output.
	ErrNoScanText = errors.New("report requires raw scan output")

	// ErrNoAnalysis is returned when the run carries no analysis.
	ErrNoAnalysis = errors.New("report requires a completed analysis")

	// ErrFailedAnalysis is returned when the analysis carries the error
	// marker. Failed analyses must never be persisted.
	ErrFailedAnalysis = errors.New("report refused: analysis failed")
)

// Writer defines the interface for report output.
//
// Design decision: an interface rather than a concrete type so tests can
// substitute an in-memory writer and future formats can be added without
// touching the pipeline.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(rep *model.EnumReport) (int, error)
}

// sanitizer replaces target separators that are unsafe in file names.
var sanitizer = strings.NewReplacer(".", "_", "/", "_")

// FileName derives the report file name for a target. Every "." and "/" is
// replaced with "_", so "10.10.10.5" becomes "analysis_10_10_10_5.md".
func FileName(target string) string {
	return "analysis_" + sanitizer.Replace(target) + ".md"
}

// Save writes the markdown report into dir, overwriting any previous report
// for the same target, and returns the written path.
func Save(dir string, rep *model.EnumReport) (string, error) {
	if err := validate(rep); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(rep.Target))

	// 0600: triage output enumerates attack surface and should only be
	// readable by the owner.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path derives from a sanitized target
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if _, err := NewMarkdownWriter(f).Write(rep); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file: %w", err)
	}

	return path, nil
}

// validate enforces report completeness before anything touches the disk.
func validate(rep *model.EnumReport) error {
	if !rep.Scan.HasOutput() {
		return ErrNoScanText
	}
	if rep.Analysis == nil {
		return ErrNoAnalysis
	}
	if rep.Analysis.IsError || model.IsAnalysisError(rep.Analysis.Text) {
		return ErrFailedAnalysis
	}
	return nil
}
