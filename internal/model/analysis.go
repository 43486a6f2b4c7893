package model

import (
	"fmt"
	"strings"
)

// AnalysisErrorMarker is the literal prefix carried by failed analysis text.
// The workflow controller treats any analysis whose text starts with this
// marker as a terminal failure, so no report is written for it.
const AnalysisErrorMarker = "Error:"

// AnalysisResult is the text produced by the generation backend for one scan.
type AnalysisResult struct {
	// Text is the generated analysis, or an error description starting
	// with AnalysisErrorMarker when the request failed.
	Text string `json:"text"`

	// IsError mirrors the marker prefix so callers need not re-parse Text.
	IsError bool `json:"is_error"`
}

// NewAnalysisResult wraps successfully generated text.
func NewAnalysisResult(text string) AnalysisResult {
	return AnalysisResult{Text: text}
}

// NewAnalysisError builds a failed result carrying the marker prefix.
func NewAnalysisError(format string, args ...any) AnalysisResult {
	return AnalysisResult{
		Text:    AnalysisErrorMarker + " " + fmt.Sprintf(format, args...),
		IsError: true,
	}
}

// IsAnalysisError reports whether text carries the error marker.
func IsAnalysisError(text string) bool {
	return strings.HasPrefix(text, AnalysisErrorMarker)
}
