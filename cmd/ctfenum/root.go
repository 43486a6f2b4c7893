// Package main provides the entry point for the ctfenum CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ctfenum.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ctfenum",
		Short: "CTF enumeration with AI-assisted triage",
		Long: `ctfenum runs an nmap scan against a CTF target, validates the output,
and sends it to a local Ollama model for vulnerability analysis.
The scan and the analysis are saved together as a markdown report.

Without flags the tool prompts interactively for the target and scan mode.
Use --mode and --yes for scripted runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
