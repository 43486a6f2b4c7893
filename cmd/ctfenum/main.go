// Package main provides the entry point for the ctfenum CLI.
//
// ctfenum orchestrates nmap enumeration of a CTF target and sends the raw
// scan output to a local Ollama backend for vulnerability triage. The scan
// and the generated analysis are combined into a markdown report.
//
// Usage:
//
//	ctfenum scan 10.10.10.5
//	ctfenum scan --mode aggressive --yes 10.10.10.5
//
// See --help for all available options.
package main

// main is the entry point for ctfenum.
func main() {
	Execute()
}
