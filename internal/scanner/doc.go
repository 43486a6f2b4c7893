// Package scanner builds nmap invocations and classifies their output.
//
// The package has three responsibilities:
//   - BuildOptions: map a scan mode to a deterministic nmap argument list
//   - Validator: classify raw scan output as usable or not
//   - Runner: execute nmap with a bounded timeout and capture its output
//
// Design decision: classification is an explicit ordered rule chain rather
// than independent conditionals. Host-down detection must take precedence
// over port-pattern absence because it determines the guidance shown to the
// user, and an ordered rule slice keeps that precedence testable in
// isolation.
package scanner
