package model

import "strings"

// Mode identifies which predefined nmap option set a scan uses.
type Mode int

// Scan modes, in menu order. The numeric values match the interactive menu
// choices, so Mode(2) is the full scan the menu recommends.
const (
	// ModeQuick scans the top 1000 ports with service and script detection.
	ModeQuick Mode = iota + 1

	// ModeFull scans all 65535 ports with service and script detection.
	// This is the default and recommended mode for CTF targets.
	ModeFull

	// ModeAggressive enables nmap's -A bundle (OS detection, version
	// detection, script scanning, traceroute).
	ModeAggressive

	// ModePorts scans a user-supplied port specification.
	ModePorts

	// ModeCustom runs user-supplied nmap flags verbatim.
	ModeCustom
)

// DefaultMode is used when the user provides no selection or an invalid one.
const DefaultMode = ModeFull

// String returns the human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeQuick:
		return "quick"
	case ModeFull:
		return "full"
	case ModeAggressive:
		return "aggressive"
	case ModePorts:
		return "ports"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// IsValid reports whether m is one of the five defined modes.
func (m Mode) IsValid() bool {
	return m >= ModeQuick && m <= ModeCustom
}

// ParseMode converts user input into a Mode. It accepts the menu numbers
// ("1".."5") as well as the mode names. Empty input selects DefaultMode.
// The second return value reports whether the input was recognized; callers
// are expected to fall back to DefaultMode with a warning when it is false.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "2", "full":
		return ModeFull, true
	case "1", "quick":
		return ModeQuick, true
	case "3", "aggressive":
		return ModeAggressive, true
	case "4", "ports", "specific":
		return ModePorts, true
	case "5", "custom":
		return ModeCustom, true
	default:
		return DefaultMode, false
	}
}

// PortMatch is one open port identified in raw scan output.
type PortMatch struct {
	// Number is the numeric port as it appeared in the output (e.g. "80").
	Number string `json:"number"`

	// Service is the service name reported after the state, if any
	// (e.g. "http"). Empty when nmap printed no service column.
	Service string `json:"service,omitempty"`
}

// ScanOutcome is the classified result of a single nmap invocation.
// It is produced once per run and never mutated afterwards.
type ScanOutcome struct {
	// Raw is the captured standard output. It is kept even when the
	// classification failed, so the user can inspect it or force analysis.
	// Empty on timeout and on process-launch failure.
	Raw string `json:"raw"`

	// Stderr is the captured standard error, surfaced on non-zero exit.
	Stderr string `json:"stderr,omitempty"`

	// Succeeded reports whether the output was classified as a usable scan.
	Succeeded bool `json:"succeeded"`

	// Reason is the human-readable classification reason. On success it
	// includes the open port count and list.
	Reason string `json:"reason"`

	// Ports lists the open ports found, in order of first appearance.
	Ports []PortMatch `json:"ports,omitempty"`
}

// HasOutput reports whether the invocation produced any standard output.
func (o *ScanOutcome) HasOutput() bool {
	return o != nil && o.Raw != ""
}
