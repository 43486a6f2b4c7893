// Package preflight verifies that the tools a run depends on are available
// before any scanning starts. A missing nmap binary or an unreachable Ollama
// backend would otherwise surface an hour into a full-port scan.
package preflight
