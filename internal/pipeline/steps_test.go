package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctfenum/ctfenum/internal/model"
	"github.com/ctfenum/ctfenum/internal/scanner"
)

// stubReporter records every message for assertions.
type stubReporter struct {
	lines []string
}

func (r *stubReporter) record(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *stubReporter) Infof(format string, args ...any)    { r.record(format, args...) }
func (r *stubReporter) Successf(format string, args ...any) { r.record(format, args...) }
func (r *stubReporter) Warnf(format string, args ...any)    { r.record(format, args...) }
func (r *stubReporter) Errorf(format string, args ...any)   { r.record(format, args...) }
func (r *stubReporter) Hintf(format string, args ...any)    { r.record(format, args...) }
func (r *stubReporter) Section(title string)                { r.record("%s", title) }
func (r *stubReporter) Panel(title, body string)            { r.record("%s\n%s", title, body) }
func (r *stubReporter) Status(string) func()                { return func() {} }
func (r *stubReporter) PortTable([]model.PortMatch)         {}

func (r *stubReporter) contains(substr string) bool {
	for _, line := range r.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// stubScanner returns a fixed outcome.
type stubScanner struct {
	outcome    *model.ScanOutcome
	gotTarget  string
	gotOptions []string
}

func (s *stubScanner) CommandLine(target string, options []string) string {
	return "nmap " + strings.Join(options, " ") + " " + target
}

func (s *stubScanner) Run(_ context.Context, target string, options []string) *model.ScanOutcome {
	s.gotTarget = target
	s.gotOptions = options
	return s.outcome
}

// stubAnalyzer returns a fixed result and records whether it was called.
type stubAnalyzer struct {
	result model.AnalysisResult
	called bool
}

func (a *stubAnalyzer) Analyze(context.Context, string, string) model.AnalysisResult {
	a.called = true
	return a.result
}

// stubConfirmer answers with a fixed value and records whether it was asked.
type stubConfirmer struct {
	answer bool
	asked  bool
}

func (c *stubConfirmer) Confirm(string) bool {
	c.asked = true
	return c.answer
}

// longRaw pads fixture output past the validator minimum.
const longRaw = "Starting Nmap 7.95 ( https://nmap.org )\nNmap scan report for 10.10.10.5\n"

// TestScanStep tests the scan continuation rules.
func TestScanStep(t *testing.T) {
	t.Parallel()

	t.Run("successful scan continues without prompting", func(t *testing.T) {
		t.Parallel()

		sc := &stubScanner{outcome: &model.ScanOutcome{
			Raw:       longRaw + "80/tcp open http\n",
			Succeeded: true,
			Reason:    "Found 1 open port(s): 80",
			Ports:     []model.PortMatch{{Number: "80", Service: "http"}},
		}}
		out := &stubReporter{}
		confirm := &stubConfirmer{}

		rep := model.NewEnumReport("10.10.10.5")
		rep.Options = []string{"-Pn", "-sV"}

		step := NewScanStep(sc, out, confirm)
		if err := step.Do(context.Background(), rep); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rep.Scan == nil || !rep.Scan.Succeeded {
			t.Error("expected successful outcome recorded on the report")
		}
		if confirm.asked {
			t.Error("successful scan must not prompt")
		}
		if sc.gotTarget != "10.10.10.5" {
			t.Errorf("unexpected target %q", sc.gotTarget)
		}
		if !out.contains("Scan complete!") {
			t.Error("expected success message")
		}
	})

	t.Run("inconclusive scan with output prompts and continues on yes", func(t *testing.T) {
		t.Parallel()

		sc := &stubScanner{outcome: &model.ScanOutcome{
			Raw:    longRaw + "Host seems down\n",
			Reason: scanner.ReasonHostDown,
		}}
		out := &stubReporter{}
		confirm := &stubConfirmer{answer: true}

		step := NewScanStep(sc, out, confirm)
		if err := step.Do(context.Background(), model.NewEnumReport("10.10.10.5")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !confirm.asked {
			t.Error("expected proceed-anyway prompt")
		}
	})

	t.Run("inconclusive scan aborts cleanly on no", func(t *testing.T) {
		t.Parallel()

		sc := &stubScanner{outcome: &model.ScanOutcome{
			Raw:    longRaw + "Host seems down\n",
			Reason: scanner.ReasonHostDown,
		}}
		confirm := &stubConfirmer{answer: false}

		step := NewScanStep(sc, &stubReporter{}, confirm)
		err := step.Do(context.Background(), model.NewEnumReport("10.10.10.5"))

		if !errors.Is(err, ErrScanAborted) {
			t.Errorf("expected ErrScanAborted, got %v", err)
		}
	})

	t.Run("no-open-ports reason suppresses the prompt", func(t *testing.T) {
		t.Parallel()

		sc := &stubScanner{outcome: &model.ScanOutcome{
			Raw:    longRaw + "All 1000 scanned ports are filtered\n",
			Reason: scanner.ReasonAllClosed,
		}}
		confirm := &stubConfirmer{answer: true}

		step := NewScanStep(sc, &stubReporter{}, confirm)
		err := step.Do(context.Background(), model.NewEnumReport("10.10.10.5"))

		if !errors.Is(err, ErrScanFailed) {
			t.Errorf("expected ErrScanFailed, got %v", err)
		}
		if confirm.asked {
			t.Error("no-open-ports failures must not prompt")
		}
	})

	t.Run("timeout without output skips the prompt", func(t *testing.T) {
		t.Parallel()

		sc := &stubScanner{outcome: &model.ScanOutcome{Reason: scanner.ReasonTimeout}}
		confirm := &stubConfirmer{answer: true}
		out := &stubReporter{}

		step := NewScanStep(sc, out, confirm)
		err := step.Do(context.Background(), model.NewEnumReport("10.10.10.5"))

		if !errors.Is(err, ErrScanFailed) {
			t.Errorf("expected ErrScanFailed, got %v", err)
		}
		if confirm.asked {
			t.Error("output-less failures must not prompt")
		}
		if !out.contains("Troubleshooting") {
			t.Error("expected troubleshooting hints")
		}
	})

	t.Run("failure guidance shows truncated preview", func(t *testing.T) {
		t.Parallel()

		sc := &stubScanner{outcome: &model.ScanOutcome{
			Raw:    strings.Repeat("x", 800),
			Reason: scanner.ReasonHostDown,
		}}
		out := &stubReporter{}

		step := NewScanStep(sc, out, &stubConfirmer{answer: true})
		if err := step.Do(context.Background(), model.NewEnumReport("10.10.10.5")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !out.contains(strings.Repeat("x", 500) + "...") {
			t.Error("expected preview truncated to 500 characters")
		}
	})
}

// TestAnalyzeStep tests the analysis gate.
func TestAnalyzeStep(t *testing.T) {
	t.Parallel()

	t.Run("successful analysis is recorded and displayed", func(t *testing.T) {
		t.Parallel()

		an := &stubAnalyzer{result: model.NewAnalysisResult("## Findings")}
		out := &stubReporter{}

		rep := model.NewEnumReport("10.10.10.5")
		rep.Scan = &model.ScanOutcome{Raw: longRaw, Succeeded: true}

		step := NewAnalyzeStep(an, out)
		if err := step.Do(context.Background(), rep); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rep.Analysis == nil || rep.Analysis.Text != "## Findings" {
			t.Error("expected analysis recorded on the report")
		}
		if !out.contains("AI Analysis for 10.10.10.5") {
			t.Error("expected analysis panel")
		}
	})

	t.Run("marker result ends the run", func(t *testing.T) {
		t.Parallel()

		an := &stubAnalyzer{result: model.NewAnalysisError("%d", 500)}
		out := &stubReporter{}

		rep := model.NewEnumReport("10.10.10.5")
		rep.Scan = &model.ScanOutcome{Raw: longRaw}

		step := NewAnalyzeStep(an, out)
		err := step.Do(context.Background(), rep)

		if !errors.Is(err, ErrAnalysisFailed) {
			t.Errorf("expected ErrAnalysisFailed, got %v", err)
		}
		if !out.contains("Error: 500") {
			t.Error("expected the error text to be displayed")
		}
	})

	t.Run("missing scan output is rejected", func(t *testing.T) {
		t.Parallel()

		an := &stubAnalyzer{result: model.NewAnalysisResult("unused")}
		rep := model.NewEnumReport("10.10.10.5")
		rep.Scan = &model.ScanOutcome{}

		step := NewAnalyzeStep(an, &stubReporter{})
		if err := step.Do(context.Background(), rep); !errors.Is(err, ErrAnalysisFailed) {
			t.Errorf("expected ErrAnalysisFailed, got %v", err)
		}
		if an.called {
			t.Error("analyzer must not be called without scan output")
		}
	})
}

// TestReportStep tests report persistence within the pipeline.
func TestReportStep(t *testing.T) {
	t.Parallel()

	t.Run("writes the report and records the path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		rep := model.NewEnumReport("10.10.10.5")
		rep.Scan = &model.ScanOutcome{Raw: longRaw + "80/tcp open http\n", Succeeded: true}
		analysis := model.NewAnalysisResult("## Findings")
		rep.Analysis = &analysis

		out := &stubReporter{}
		step := NewReportStep(dir, out)
		if err := step.Do(context.Background(), rep); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := filepath.Join(dir, "analysis_10_10_10_5.md")
		if rep.ReportPath != want {
			t.Errorf("expected path %q, got %q", want, rep.ReportPath)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("expected report file: %v", err)
		}
		if !out.contains("Results saved to:") {
			t.Error("expected saved message")
		}
	})

	t.Run("write failure is fatal", func(t *testing.T) {
		t.Parallel()

		rep := model.NewEnumReport("10.10.10.5")
		rep.Scan = &model.ScanOutcome{Raw: longRaw}
		analysis := model.NewAnalysisResult("## Findings")
		rep.Analysis = &analysis

		step := NewReportStep(filepath.Join(t.TempDir(), "missing"), &stubReporter{})
		if err := step.Do(context.Background(), rep); err == nil {
			t.Error("expected error for unwritable directory")
		}
	})
}

// TestFullRunAgainstFailingBackend tests that a backend failure leaves no
// report file behind.
func TestFullRunAgainstFailingBackend(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sc := &stubScanner{outcome: &model.ScanOutcome{
		Raw:       longRaw + "80/tcp open http\n",
		Succeeded: true,
		Reason:    "Found 1 open port(s): 80",
	}}
	an := &stubAnalyzer{result: model.NewAnalysisError("%d", 500)}
	out := &stubReporter{}

	p := New()
	p.AddSteps(
		NewScanStep(sc, out, &stubConfirmer{}),
		NewAnalyzeStep(an, out),
		NewReportStep(dir, out),
	)

	rep := model.NewEnumReport("10.10.10.5")
	rep.Options = []string{"-Pn"}

	err := p.Execute(context.Background(), rep)
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("read dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Error("expected no report file after a failed analysis")
	}
	if rep.ReportPath != "" {
		t.Error("expected no report path on the run")
	}
}
