package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ctfenum/ctfenum/internal/model"
	"github.com/ctfenum/ctfenum/internal/report"
	"github.com/ctfenum/ctfenum/internal/ui"
)

// Run-ending errors.
var (
	// ErrScanFailed ends the run when the scan produced nothing usable
	// and the user was not offered (or not given) a way to continue.
	ErrScanFailed = errors.New("scan failed")

	// ErrScanAborted ends the run when the user declined to analyze an
	// inconclusive scan. It is a clean stop, not a failure.
	ErrScanAborted = errors.New("scan aborted by user")

	// ErrAnalysisFailed ends the run when the backend returned the error
	// marker. No report is written.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// noOpenPortsMarker gates the proceed-anyway prompt. When the failure reason
// contains this text the scan genuinely found nothing to analyze, so the
// prompt is suppressed. The boundary matches the reason wording exactly;
// see scanner.ReasonAllClosed.
const noOpenPortsMarker = "No open ports"

// scanPreviewLen caps the raw-output preview shown after a failed scan.
const scanPreviewLen = 500

// PortScanner runs one scan invocation. Implemented by scanner.Runner.
type PortScanner interface {
	// CommandLine returns the invocation in display form.
	CommandLine(target string, options []string) string

	// Run executes the scan and returns its classified outcome.
	Run(ctx context.Context, target string, options []string) *model.ScanOutcome
}

// Analyzer requests triage for one scan. Implemented by analyzer.Client.
type Analyzer interface {
	// Analyze returns the triage text or a marker-carrying error result.
	Analyze(ctx context.Context, target, scanText string) model.AnalysisResult
}

// ScanStep runs nmap and decides whether the run may continue.
type ScanStep struct {
	scanner PortScanner
	out     ui.Reporter
	confirm ui.Confirmer
}

// NewScanStep creates the scan step. The confirmer is consulted only for
// inconclusive scans that still produced output.
func NewScanStep(scanner PortScanner, out ui.Reporter, confirm ui.Confirmer) *ScanStep {
	return &ScanStep{
		scanner: scanner,
		out:     out,
		confirm: confirm,
	}
}

// Name returns the step name.
func (s *ScanStep) Name() string {
	return "scan"
}

// Do executes the scan and applies the continuation rules:
//   - classification succeeded: continue
//   - output exists and the reason is not a "No open ports" condition:
//     offer to proceed anyway; decline aborts the run
//   - anything else (timeout, non-zero exit, launch failure, no open
//     ports): the run ends here
func (s *ScanStep) Do(ctx context.Context, rep *model.EnumReport) error {
	s.out.Infof("Running: %s", s.scanner.CommandLine(rep.Target, rep.Options))

	stop := s.out.Status("Scanning (this may take a while)...")
	outcome := s.scanner.Run(ctx, rep.Target, rep.Options)
	stop()

	rep.Scan = outcome

	if outcome.Succeeded {
		s.out.Successf("Scan complete! %s", outcome.Reason)
		s.out.PortTable(outcome.Ports)
		return nil
	}

	if outcome.HasOutput() {
		s.out.Warnf("Scan completed but: %s", outcome.Reason)
	} else {
		s.out.Errorf("%s", outcome.Reason)
		if outcome.Stderr != "" {
			s.out.Hintf("%s", outcome.Stderr)
		}
	}

	s.printFailureGuidance(outcome)

	if outcome.HasOutput() && !strings.Contains(outcome.Reason, noOpenPortsMarker) {
		if s.confirm.Confirm("\nProceed with AI analysis anyway?") {
			return nil
		}
		return ErrScanAborted
	}

	return fmt.Errorf("%w: %s", ErrScanFailed, outcome.Reason)
}

// printFailureGuidance shows the failure banner, an output preview when one
// exists, and connectivity troubleshooting hints.
func (s *ScanStep) printFailureGuidance(outcome *model.ScanOutcome) {
	s.out.Section("SCAN FAILED - NO ANALYSIS")

	if outcome.HasOutput() {
		preview := outcome.Raw
		if len(preview) > scanPreviewLen {
			preview = preview[:scanPreviewLen] + "..."
		}
		s.out.Warnf("Scan output:")
		s.out.Hintf("%s", preview)
	}

	s.out.Infof("Troubleshooting suggestions:")
	s.out.Hintf("• Check VPN connection: ip a | grep tun")
	s.out.Hintf("• Try manual nmap: nmap -Pn -p 22 TARGET")
	s.out.Hintf("• Test connectivity: ping TARGET")
	s.out.Hintf("• Verify correct IP address")
	s.out.Hintf("• Try slower scan: nmap -Pn -sV -sC -T2 TARGET")
}

// AnalyzeStep sends the scan output to the generation backend.
type AnalyzeStep struct {
	analyzer Analyzer
	out      ui.Reporter
}

// NewAnalyzeStep creates the analysis step.
func NewAnalyzeStep(analyzer Analyzer, out ui.Reporter) *AnalyzeStep {
	return &AnalyzeStep{
		analyzer: analyzer,
		out:      out,
	}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do requests triage for the scan output and displays the result. A marker
// result ends the run so that no report is written for it.
func (s *AnalyzeStep) Do(ctx context.Context, rep *model.EnumReport) error {
	if !rep.Scan.HasOutput() {
		return fmt.Errorf("%w: no scan output to analyze", ErrAnalysisFailed)
	}

	s.out.Section("Starting AI Analysis")

	stop := s.out.Status("Analyzing with AI (30-90 seconds)...")
	res := s.analyzer.Analyze(ctx, rep.Target, rep.Scan.Raw)
	stop()

	rep.Analysis = &res

	if res.IsError {
		s.out.Errorf("%s", res.Text)
		return fmt.Errorf("%w: %s", ErrAnalysisFailed, res.Text)
	}

	s.out.Successf("Analysis complete!")
	s.out.Panel("AI Analysis for "+rep.Target, res.Text)

	return nil
}

// ReportStep persists the combined report.
type ReportStep struct {
	dir string
	out ui.Reporter
}

// NewReportStep creates the report step writing into dir.
func NewReportStep(dir string, out ui.Reporter) *ReportStep {
	return &ReportStep{
		dir: dir,
		out: out,
	}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Do writes the markdown report. A write failure is fatal for the run.
func (s *ReportStep) Do(_ context.Context, rep *model.EnumReport) error {
	path, err := report.Save(s.dir, rep)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	rep.ReportPath = path
	s.out.Successf("Results saved to: %s", path)

	return nil
}
