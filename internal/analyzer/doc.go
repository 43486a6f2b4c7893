// Package analyzer sends scan results to a local text-generation backend
// for vulnerability triage.
//
// The backend speaks the Ollama generate API: a single POST to /api/generate
// with a prompt and fixed decoding options, returning generated text. The
// request is synchronous (stream: false) with a bounded timeout.
//
// Design decision: failures are not returned as Go errors. The analysis
// contract represents every failure as text starting with "Error:" so the
// controller has exactly one marker to check before deciding whether a
// report may be written.
package analyzer
