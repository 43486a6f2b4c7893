package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ctfenum/ctfenum/internal/model"
	"github.com/fatih/color"
)

// Confirmer is the yes/no decision capability. The workflow asks it exactly
// once: whether to analyze an inconclusive scan anyway.
type Confirmer interface {
	// Confirm asks a yes/no question and reports whether the answer was
	// affirmative.
	Confirm(prompt string) bool
}

// AutoConfirm answers yes to every question. It backs the --yes flag.
type AutoConfirm struct{}

// Confirm always returns true.
func (AutoConfirm) Confirm(string) bool { return true }

// ModeSelection is the result of the interactive scan-mode menu.
type ModeSelection struct {
	// Mode is the selected scan mode.
	Mode model.Mode

	// PortSpec is the user-supplied port specification for ModePorts.
	PortSpec string

	// CustomFlags is the raw flag string for ModeCustom.
	CustomFlags string
}

// Prompter reads interactive input from the user.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Input prints a prompt and returns the trimmed response line. An EOF with
// no input returns an empty string and no error, so a closed stdin behaves
// like an empty answer.
func (p *Prompter) Input(prompt string) (string, error) {
	color.New(color.FgGreen, color.Bold).Fprintf(p.out, "%s ", prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only an explicit "y" (case-insensitive)
// counts as yes; anything else, including a read failure, is no.
func (p *Prompter) Confirm(prompt string) bool {
	answer, err := p.Input(prompt + " (y/n):")
	if err != nil {
		return false
	}
	return strings.EqualFold(answer, "y")
}

// SelectMode presents the scan-mode menu and collects any follow-up input
// the chosen mode needs (port specification or custom flags). Invalid input
// falls back to the recommended full scan with a printed warning.
func (p *Prompter) SelectMode() (ModeSelection, error) {
	color.New(color.FgCyan, color.Bold).Fprintln(p.out, "\nSelect scan mode:")
	fmt.Fprintln(p.out, "  1. Quick scan (-Pn -sV -sC, top 1000 ports, ~1-2 min)")
	fmt.Fprintln(p.out, "  2. CTF Full Scan (-Pn -sV -sC -p-, all ports, ~10-20 min) [RECOMMENDED]")
	fmt.Fprintln(p.out, "  3. Aggressive (-Pn -A -T4, includes OS detection)")
	fmt.Fprintln(p.out, "  4. Specific ports (-Pn -sV -sC -p <your ports>)")
	fmt.Fprintln(p.out, "  5. Custom flags (manual entry)")

	choice, err := p.Input("\nChoose [2]:")
	if err != nil {
		return ModeSelection{}, err
	}

	mode, ok := model.ParseMode(choice)
	if !ok {
		color.New(color.FgRed, color.Bold).Fprintln(p.out, "Invalid choice, using CTF Full Scan")
		mode = model.DefaultMode
	}

	sel := ModeSelection{Mode: mode}

	switch mode {
	case model.ModePorts:
		sel.PortSpec, err = p.Input("Enter ports (e.g., 22,80,443 or 1-1000):")
		if err != nil {
			return ModeSelection{}, err
		}
	case model.ModeCustom:
		color.New(color.FgCyan).Fprintln(p.out, "\nEnter custom nmap flags (space-separated).")
		color.New(color.Faint).Fprintln(p.out, "Tip: Always include -Pn for CTF boxes")
		sel.CustomFlags, err = p.Input("Flags:")
		if err != nil {
			return ModeSelection{}, err
		}
	}

	return sel, nil
}
