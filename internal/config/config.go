package config

import (
	"time"

	"github.com/ctfenum/ctfenum/internal/analyzer"
	"github.com/ctfenum/ctfenum/internal/model"
	"github.com/ctfenum/ctfenum/internal/scanner"
)

// Default configuration values.
// Where a value mirrors a package default (scan timeout, backend endpoint)
// we alias that constant instead of restating the literal, so the two can
// never drift apart.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "ctfenum"

	// DefaultOllamaURL is the local Ollama generation endpoint.
	DefaultOllamaURL = analyzer.DefaultEndpoint

	// DefaultModel is the model name sent with every generation request.
	// It refers to a locally created model tuned for scan triage; users
	// running a stock model override it with --model.
	DefaultModel = analyzer.DefaultModel

	// DefaultNumCtx is the model context window in tokens. Full-port scans
	// of busy hosts produce long output, so the window is generous.
	DefaultNumCtx = analyzer.DefaultNumCtx

	// DefaultTemperature balances determinism with some variation in the
	// suggested attack paths.
	DefaultTemperature = analyzer.DefaultTemperature

	// DefaultAnalysisTimeout bounds one generation request. Local models on
	// modest hardware can take minutes for long scan output.
	DefaultAnalysisTimeout = analyzer.DefaultTimeout

	// DefaultNmapBinary is resolved via PATH lookup.
	DefaultNmapBinary = scanner.DefaultBinary

	// DefaultScanTimeout bounds one nmap invocation. Full 65,535-port scans
	// against slow CTF targets routinely run 30+ minutes, so the bound is
	// a full hour.
	DefaultScanTimeout = scanner.DefaultScanTimeout

	// DefaultPortSpec is the port range offered by the ports scan mode.
	DefaultPortSpec = scanner.DefaultPortSpec

	// DefaultOutputDir is where analysis reports are written.
	DefaultOutputDir = "."
)

// Config holds all configuration options for ctfenum.
// This struct is populated from CLI flags and the optional YAML file, then
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ScanConfig, AnalysisConfig). The number of options is manageable,
// and nesting would add complexity without significant benefit.
type Config struct {
	// Target is the IP address or hostname to enumerate.
	Target string

	// Mode selects the nmap argument set. Zero means the user has not
	// chosen yet and the interactive menu should be shown.
	Mode model.Mode

	// PortSpec is the port range for the ports scan mode, in nmap -p syntax.
	PortSpec string

	// CustomFlags is the raw flag string for the custom scan mode.
	CustomFlags string

	// NmapBinary is the nmap executable name or path.
	NmapBinary string

	// ScanTimeout bounds one nmap invocation.
	ScanTimeout time.Duration

	// OllamaURL is the generation endpoint of the local backend.
	OllamaURL string

	// Model is the backend model name.
	Model string

	// NumCtx is the model context window in tokens.
	NumCtx int

	// Temperature is the sampling temperature for generation.
	Temperature float64

	// AnalysisTimeout bounds one generation request.
	AnalysisTimeout time.Duration

	// OutputDir is the directory the analysis report is written into.
	OutputDir string

	// AutoConfirm answers yes to every prompt, including the proceed-anyway
	// question after an inconclusive scan. Set by --yes for scripted runs.
	AutoConfirm bool

	// SkipPreflight disables the nmap/backend availability checks.
	SkipPreflight bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .ctfenum.yaml in the current directory
	// and then in the XDG config directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeouts, endpoint,
// context window). This also serves as documentation of what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		Mode:            model.DefaultMode,
		PortSpec:        DefaultPortSpec,
		NmapBinary:      DefaultNmapBinary,
		ScanTimeout:     DefaultScanTimeout,
		OllamaURL:       DefaultOllamaURL,
		Model:           DefaultModel,
		NumCtx:          DefaultNumCtx,
		Temperature:     DefaultTemperature,
		AnalysisTimeout: DefaultAnalysisTimeout,
		OutputDir:       DefaultOutputDir,
	}
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing and prompting, before the scan
// begins. We return the first error found because fixing one error often
// makes others irrelevant.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}

	if !c.Mode.IsValid() {
		return ErrInvalidMode
	}

	if c.Mode == model.ModePorts && c.PortSpec == "" {
		return ErrEmptyPortSpec
	}

	if c.ScanTimeout <= 0 {
		return ErrInvalidScanTimeout
	}

	if c.AnalysisTimeout <= 0 {
		return ErrInvalidAnalysisTimeout
	}

	if c.NumCtx <= 0 {
		return ErrInvalidNumCtx
	}

	if c.Temperature < 0 {
		return ErrInvalidTemperature
	}

	return nil
}
