// Package report persists the enumeration report as a markdown document.
//
// The document structure is fixed: title heading, horizontal rule, the
// analysis text verbatim, another rule, then the raw nmap output in a fenced
// code block. The file name is derived deterministically from the target, so
// rerunning against the same target overwrites the previous report.
//
// Design decision: the writer refuses incomplete input (missing scan text,
// missing or failed analysis). A partial or corrupt report on disk is worse
// than no report, so completeness is enforced here rather than trusted to
// callers.
package report
