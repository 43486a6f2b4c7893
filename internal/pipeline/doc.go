// Package pipeline sequences the enumeration workflow.
//
// A run is three steps executed in order on a shared report: scan the target
// with nmap, send the output to the generation backend for triage, persist
// the combined report. Each step is a Step implementation; the Pipeline
// executes them sequentially and stops at the first failure, so a failed
// scan never reaches analysis and a failed analysis never writes a report.
//
// Design decision: we keep the Step/Pipeline indirection even though the
// workflow is fixed and linear. It gives every stage uniform logging and
// cancellation handling, and lets tests assemble pipelines from stub steps.
package pipeline
