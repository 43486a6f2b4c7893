// Package model defines the core data structures used throughout ctfenum.
//
// This package contains the following main types:
//   - Mode: The scan mode selected by the user
//   - ScanOutcome: The classified result of one nmap invocation
//   - AnalysisResult: The text returned by the generation backend
//   - EnumReport: The accumulated state of one enumeration run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (scanner, analyzer, pipeline, report) need
// these types, so centralizing them prevents import cycles.
package model
