package ui

import (
	"io"

	"github.com/fatih/color"
)

// banner is the startup header.
const banner = `
╔═══════════════════════════════════════════════════════════════════╗
║                   CTF ENUMERATION SCANNER                         ║
║              nmap orchestration + local LLM triage                ║
╚═══════════════════════════════════════════════════════════════════╝
`

// Banner prints the startup header to w.
func Banner(w io.Writer) {
	color.New(color.FgCyan, color.Bold).Fprint(w, banner+"\n")
}
