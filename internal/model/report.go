package model

import "time"

// EnumReport is the accumulated state of a single enumeration run.
// The pipeline steps fill it in sequence: scan, analysis, report path.
//
// Design decision: We use one struct threaded through the pipeline rather
// than passing individual values between steps. This keeps the Step interface
// uniform and makes the run state trivial to inspect in tests.
type EnumReport struct {
	// Target is the IP address or hostname being enumerated.
	Target string `json:"target"`

	// Mode is the scan mode selected for this run.
	Mode Mode `json:"mode"`

	// Options is the final nmap argument list, duplicates removed.
	Options []string `json:"options"`

	// DateScanned is when the run started.
	DateScanned time.Time `json:"date_scanned"`

	// Scan holds the classified nmap result. Nil until the scan step ran.
	Scan *ScanOutcome `json:"scan,omitempty"`

	// Analysis holds the generated triage text. Nil until the analysis
	// step ran. A run whose scan fails terminally never reaches analysis.
	Analysis *AnalysisResult `json:"analysis,omitempty"`

	// ReportPath is the markdown file the report step wrote.
	ReportPath string `json:"report_path,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the failure that ended the run, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewEnumReport creates a report for the given target, stamped with the
// current time.
func NewEnumReport(target string) *EnumReport {
	return &EnumReport{
		Target:      target,
		DateScanned: time.Now(),
	}
}
