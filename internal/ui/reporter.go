package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ctfenum/ctfenum/internal/model"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Reporter is the status output capability handed to the workflow.
//
// Design decision: an interface instead of a shared console singleton, so
// the pipeline steps stay testable without a terminal and the presentation
// style can change without touching workflow logic.
type Reporter interface {
	// Infof prints a neutral progress message.
	Infof(format string, args ...any)

	// Successf prints a success message.
	Successf(format string, args ...any)

	// Warnf prints a warning.
	Warnf(format string, args ...any)

	// Errorf prints an error message.
	Errorf(format string, args ...any)

	// Hintf prints dimmed supplementary guidance.
	Hintf(format string, args ...any)

	// Section prints a titled separator between workflow phases.
	Section(title string)

	// Panel prints a titled block of multi-line body text.
	Panel(title, body string)

	// Status starts a long-operation indicator and returns a function
	// that stops it.
	Status(message string) (stop func())

	// PortTable renders the open ports found by a successful scan.
	PortTable(ports []model.PortMatch)
}

// sectionWidth is the separator line length, matching the banner width.
const sectionWidth = 70

// ConsoleReporter writes colorized status output to a terminal.
type ConsoleReporter struct {
	out io.Writer

	// spinnerDisabled falls back to a plain printed line for Status.
	// Used in tests and when output is piped.
	spinnerDisabled bool
}

// ReporterOption configures a ConsoleReporter.
type ReporterOption func(*ConsoleReporter)

// WithSpinnerDisabled replaces the spinner with a plain status line.
func WithSpinnerDisabled() ReporterOption {
	return func(r *ConsoleReporter) {
		r.spinnerDisabled = true
	}
}

// NewConsoleReporter creates a ConsoleReporter writing to out.
func NewConsoleReporter(out io.Writer, opts ...ReporterOption) *ConsoleReporter {
	r := &ConsoleReporter{out: out}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Infof prints a bold blue progress line.
func (r *ConsoleReporter) Infof(format string, args ...any) {
	color.New(color.FgBlue, color.Bold).Fprintf(r.out, "[*] "+format+"\n", args...)
}

// Successf prints a bold green success line.
func (r *ConsoleReporter) Successf(format string, args ...any) {
	color.New(color.FgGreen, color.Bold).Fprintf(r.out, "✓ "+format+"\n", args...)
}

// Warnf prints a bold yellow warning line.
func (r *ConsoleReporter) Warnf(format string, args ...any) {
	color.New(color.FgYellow, color.Bold).Fprintf(r.out, "⚠ "+format+"\n", args...)
}

// Errorf prints a bold red error line.
func (r *ConsoleReporter) Errorf(format string, args ...any) {
	color.New(color.FgRed, color.Bold).Fprintf(r.out, "✗ "+format+"\n", args...)
}

// Hintf prints a dimmed guidance line.
func (r *ConsoleReporter) Hintf(format string, args ...any) {
	color.New(color.Faint).Fprintf(r.out, "  "+format+"\n", args...)
}

// Section prints a titled horizontal separator.
func (r *ConsoleReporter) Section(title string) {
	rule := strings.Repeat("─", sectionWidth)
	fmt.Fprintf(r.out, "\n%s\n %s\n%s\n\n", rule, title, rule)
}

// Panel prints a cyan-titled block framed by horizontal rules. The body is
// written verbatim between the rules.
func (r *ConsoleReporter) Panel(title, body string) {
	rule := strings.Repeat("─", sectionWidth)
	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, title)
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, body)
	fmt.Fprintln(r.out, rule)
}

// Status starts the spinner for a long-running operation and returns its
// stop function.
func (r *ConsoleReporter) Status(message string) func() {
	if r.spinnerDisabled {
		color.New(color.FgYellow).Fprintf(r.out, "%s\n", message)
		return func() {}
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(r.out))
	s.Suffix = " " + message
	_ = s.Color("yellow") //nolint:errcheck // invalid color falls back to default
	s.Start()
	return s.Stop
}

// titleCaser upper-cases service names for display ("http" -> "Http").
var titleCaser = cases.Title(language.English)

// PortTable renders the open ports as a two-column table.
func (r *ConsoleReporter) PortTable(ports []model.PortMatch) {
	if len(ports) == 0 {
		return
	}

	table := tablewriter.NewWriter(r.out)
	table.Header("Port", "Service")

	for _, p := range ports {
		service := "-"
		if p.Service != "" {
			service = titleCaser.String(p.Service)
		}
		_ = table.Append([]string{p.Number + "/tcp", service})
	}

	_ = table.Render()
}
