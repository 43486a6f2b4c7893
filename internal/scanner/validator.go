package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ctfenum/ctfenum/internal/model"
)

// Classification reasons for failed scans. The workflow controller matches
// on these strings (the proceed-anyway prompt is suppressed when the reason
// contains "No open ports"), so their wording is part of the contract.
const (
	// ReasonNoOutput is returned when the scan printed nothing useful.
	ReasonNoOutput = "Scan produced no output"

	// ReasonHostDown is returned when the target ignored discovery probes.
	ReasonHostDown = "Host appears down (try -Pn flag)"

	// ReasonAllClosed is returned when ports were seen but none were open.
	ReasonAllClosed = "No open ports found (all ports closed/filtered)"

	// ReasonNoPorts is returned when the output mentions no ports at all.
	ReasonNoPorts = "No ports detected in scan output"
)

// MinOutputLen is the minimum trimmed output length for a scan to be
// considered at all. Anything shorter is nmap usage/error noise, not a scan.
const MinOutputLen = 50

// openPortPattern matches one open TCP port line in nmap output, capturing
// the port number and, when present, the service name column.
var openPortPattern = regexp.MustCompile(`(\d+)/tcp\s+open(?:\s+(\S+))?`)

// hostDownIndicators are substrings nmap prints when the target did not
// answer host discovery.
var hostDownIndicators = []string{
	"Host seems down",
	"0 hosts up",
}

// Classification is the Validator's verdict on one scan output.
type Classification struct {
	// Succeeded is true when at least one open port was found.
	Succeeded bool

	// Reason describes the verdict. On success it includes the open port
	// count and list, in order of first appearance.
	Reason string

	// Ports lists the open ports found, in order of first appearance.
	Ports []model.PortMatch
}

// rule is one entry in the ordered classification chain. classify returns
// the verdict and true when the rule applies; later rules are not consulted.
type rule struct {
	name     string
	classify func(raw, trimmed string) (Classification, bool)
}

// Validator classifies raw nmap output.
type Validator struct {
	minOutputLen int
	rules        []rule
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMinOutputLen overrides the minimum trimmed output length.
func WithMinOutputLen(n int) ValidatorOption {
	return func(v *Validator) {
		v.minOutputLen = n
	}
}

// NewValidator creates a Validator with the standard rule chain.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{minOutputLen: MinOutputLen}

	for _, opt := range opts {
		opt(v)
	}

	// Order matters: each rule has priority over every rule below it.
	v.rules = []rule{
		{name: "no_output", classify: v.classifyNoOutput},
		{name: "host_down", classify: classifyHostDown},
		{name: "open_ports", classify: classifyOpenPorts},
		{name: "closed_filtered", classify: classifyClosedFiltered},
	}

	return v
}

// Validate classifies raw scan output. It walks the rule chain in order and
// returns the first applicable verdict, falling back to ReasonNoPorts when
// no rule matched.
func (v *Validator) Validate(raw string) Classification {
	trimmed := strings.TrimSpace(raw)

	for _, r := range v.rules {
		if c, ok := r.classify(raw, trimmed); ok {
			return c
		}
	}

	return Classification{Reason: ReasonNoPorts}
}

// classifyNoOutput fails scans whose trimmed output is below the minimum
// length. This also covers absent output.
func (v *Validator) classifyNoOutput(_, trimmed string) (Classification, bool) {
	if len(trimmed) < v.minOutputLen {
		return Classification{Reason: ReasonNoOutput}, true
	}
	return Classification{}, false
}

// classifyHostDown fails scans where nmap reported the host as down. This
// takes precedence over the port checks: a host-down banner means the port
// table is meaningless no matter what else the output contains.
func classifyHostDown(raw, _ string) (Classification, bool) {
	for _, indicator := range hostDownIndicators {
		if strings.Contains(raw, indicator) {
			return Classification{Reason: ReasonHostDown}, true
		}
	}
	return Classification{}, false
}

// classifyOpenPorts succeeds when at least one "<port>/tcp open" line exists.
func classifyOpenPorts(raw, _ string) (Classification, bool) {
	matches := openPortPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return Classification{}, false
	}

	ports := make([]model.PortMatch, 0, len(matches))
	numbers := make([]string, 0, len(matches))
	for _, m := range matches {
		ports = append(ports, model.PortMatch{Number: m[1], Service: m[2]})
		numbers = append(numbers, m[1])
	}

	return Classification{
		Succeeded: true,
		Reason:    fmt.Sprintf("Found %d open port(s): %s", len(ports), strings.Join(numbers, ", ")),
		Ports:     ports,
	}, true
}

// classifyClosedFiltered fails scans that saw ports but only in closed or
// filtered state.
func classifyClosedFiltered(raw, _ string) (Classification, bool) {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "filtered") || strings.Contains(lower, "closed") {
		return Classification{Reason: ReasonAllClosed}, true
	}
	return Classification{}, false
}
