package scanner

import (
	"fmt"

	"github.com/ctfenum/ctfenum/internal/model"
	"github.com/google/shlex"
)

// nmap flags used by the predefined modes.
const (
	// FlagSkipDiscovery treats every host as up. CTF boxes routinely drop
	// ICMP, so every predefined mode carries it and it is injected into
	// custom flag sets when missing.
	FlagSkipDiscovery = "-Pn"

	// FlagServiceVersion enables service and version detection.
	FlagServiceVersion = "-sV"

	// FlagDefaultScripts runs the default NSE script set.
	FlagDefaultScripts = "-sC"

	// FlagAllPorts scans all 65535 TCP ports.
	FlagAllPorts = "-p-"

	// FlagAggressive enables OS detection, version detection, script
	// scanning and traceroute in one bundle.
	FlagAggressive = "-A"

	// FlagTimingAggressive selects nmap's T4 timing template.
	FlagTimingAggressive = "-T4"
)

// DefaultPortSpec is used for ModePorts when the user supplies no ports.
const DefaultPortSpec = "1-10000"

// BuildOptions maps a scan mode to the nmap argument list, excluding the
// target. The result is deterministic: fixed flag order per mode, duplicates
// removed keeping the first occurrence.
//
// portSpec is only consulted for ModePorts; customFlags only for ModeCustom.
// An error is returned only for unbalanced quoting in customFlags or an
// invalid mode (callers resolve invalid interactive input to DefaultMode
// before reaching here).
func BuildOptions(mode model.Mode, portSpec, customFlags string) ([]string, error) {
	var options []string

	switch mode {
	case model.ModeQuick:
		options = []string{FlagSkipDiscovery, FlagServiceVersion, FlagDefaultScripts, FlagTimingAggressive}
	case model.ModeFull:
		options = []string{FlagSkipDiscovery, FlagServiceVersion, FlagDefaultScripts, FlagAllPorts, FlagTimingAggressive}
	case model.ModeAggressive:
		options = []string{FlagSkipDiscovery, FlagAggressive, FlagTimingAggressive}
	case model.ModePorts:
		if portSpec == "" {
			portSpec = DefaultPortSpec
		}
		options = []string{FlagSkipDiscovery, FlagServiceVersion, FlagDefaultScripts, "-p" + portSpec, FlagTimingAggressive}
	case model.ModeCustom:
		var err error
		options, err = buildCustomOptions(customFlags)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid scan mode %d", int(mode))
	}

	return dedupOptions(options), nil
}

// buildCustomOptions tokenizes user-supplied flags shell-style and prepends
// -Pn when absent. Empty input falls back to a minimal scripted scan with no
// timing flag.
func buildCustomOptions(customFlags string) ([]string, error) {
	if customFlags == "" {
		return []string{FlagSkipDiscovery, FlagServiceVersion, FlagDefaultScripts}, nil
	}

	tokens, err := shlex.Split(customFlags)
	if err != nil {
		return nil, fmt.Errorf("invalid custom flags: %w", err)
	}

	for _, tok := range tokens {
		if tok == FlagSkipDiscovery {
			return tokens, nil
		}
	}

	return append([]string{FlagSkipDiscovery}, tokens...), nil
}

// dedupOptions removes duplicate flags, preserving first-occurrence order.
func dedupOptions(options []string) []string {
	seen := make(map[string]bool, len(options))
	result := make([]string, 0, len(options))

	for _, opt := range options {
		if seen[opt] {
			continue
		}
		seen[opt] = true
		result = append(result, opt)
	}

	return result
}
