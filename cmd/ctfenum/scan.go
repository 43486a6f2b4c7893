package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ctfenum/ctfenum/internal/analyzer"
	"github.com/ctfenum/ctfenum/internal/config"
	"github.com/ctfenum/ctfenum/internal/log"
	"github.com/ctfenum/ctfenum/internal/model"
	"github.com/ctfenum/ctfenum/internal/pipeline"
	"github.com/ctfenum/ctfenum/internal/preflight"
	"github.com/ctfenum/ctfenum/internal/scanner"
	"github.com/ctfenum/ctfenum/internal/ui"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Enumerate a target and analyze the results with AI",
		Long: `Scan runs nmap against the target, validates the output, and sends it to
a local Ollama model for vulnerability triage. The scan and the analysis
are saved together as analysis_<target>.md in the output directory.

When the target or scan mode is omitted, the tool asks interactively.

Examples:
  # Fully interactive run
  ctfenum scan

  # Scan a target with the default full-port scan
  ctfenum scan 10.10.10.5

  # Aggressive scan without any prompts
  ctfenum scan --mode aggressive --yes 10.10.10.5

  # Scan a specific port range
  ctfenum scan --mode ports --ports 1-1000 10.10.10.5

  # Custom nmap flags (-Pn is added automatically)
  ctfenum scan --mode custom --nmap-flags "-sU -p 161" 10.10.10.5

Configuration file (.ctfenum.yaml) example:
  ollama:
    url: http://localhost:11434/api/generate
    model: ctf-scanner
    timeout_seconds: 300
  nmap:
    binary: nmap
    timeout_seconds: 3600`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().StringP("mode", "m", "",
		"Scan mode: quick, full, aggressive, ports, custom (or 1-5)")
	cmd.Flags().String("ports", config.DefaultPortSpec,
		"Port specification for the ports mode (nmap -p syntax)")
	cmd.Flags().String("nmap-flags", "",
		"Raw nmap flags for the custom mode")
	cmd.Flags().String("nmap-binary", config.DefaultNmapBinary,
		"Nmap executable name or path")
	cmd.Flags().Duration("scan-timeout", config.DefaultScanTimeout,
		"Maximum duration for one nmap run")

	// Backend flags
	cmd.Flags().String("ollama-url", config.DefaultOllamaURL,
		"Ollama generation endpoint")
	cmd.Flags().String("model", config.DefaultModel,
		"Model name sent to the backend")
	cmd.Flags().Int("num-ctx", config.DefaultNumCtx,
		"Model context window in tokens")
	cmd.Flags().Float64("temperature", config.DefaultTemperature,
		"Sampling temperature for generation")
	cmd.Flags().Duration("analysis-timeout", config.DefaultAnalysisTimeout,
		"Maximum duration for one generation request")

	// Run control flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory the analysis report is written into")
	cmd.Flags().BoolP("yes", "y", false,
		"Answer yes to all prompts (non-interactive)")
	cmd.Flags().Bool("skip-preflight", false,
		"Skip the nmap and backend availability checks")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ctfenum.yaml in current or XDG config directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and cobra flags.
// File settings are applied first so explicit flags always win. The scan
// mode stays zero when the --mode flag was not given; runScan shows the
// interactive menu in that case.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load file settings before flags.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently continue with defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	modeStr, err := cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("mode") {
		mode, ok := model.ParseMode(modeStr)
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrInvalidMode, modeStr)
		}
		cfg.Mode = mode
	} else {
		// Interactive menu decides later.
		cfg.Mode = 0
	}

	cfg.PortSpec, err = cmd.Flags().GetString("ports")
	if err != nil {
		return nil, err
	}

	cfg.CustomFlags, err = cmd.Flags().GetString("nmap-flags")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("nmap-binary") {
		cfg.NmapBinary, err = cmd.Flags().GetString("nmap-binary")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("scan-timeout") {
		cfg.ScanTimeout, err = cmd.Flags().GetDuration("scan-timeout")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("ollama-url") {
		cfg.OllamaURL, err = cmd.Flags().GetString("ollama-url")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("model") {
		cfg.Model, err = cmd.Flags().GetString("model")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("num-ctx") {
		cfg.NumCtx, err = cmd.Flags().GetInt("num-ctx")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("temperature") {
		cfg.Temperature, err = cmd.Flags().GetFloat64("temperature")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("analysis-timeout") {
		cfg.AnalysisTimeout, err = cmd.Flags().GetDuration("analysis-timeout")
		if err != nil {
			return nil, err
		}
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.AutoConfirm, err = cmd.Flags().GetBool("yes")
	if err != nil {
		return nil, err
	}

	cfg.SkipPreflight, err = cmd.Flags().GetBool("skip-preflight")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional argument: the target
	if len(args) == 1 {
		cfg.Target = args[0]
	}

	return cfg, nil
}

// runScan executes the full enumeration workflow.
func runScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	stdout := cmd.OutOrStdout()
	ui.Banner(stdout)

	out := ui.NewConsoleReporter(stdout)
	prompter := ui.NewPrompter(cmd.InOrStdin(), stdout)

	// Fill the gaps interactively unless --yes asked for a scripted run.
	if cfg.Target == "" {
		if cfg.AutoConfirm {
			return config.ErrNoTarget
		}
		target, err := prompter.Input("Enter target IP address or hostname:")
		if err != nil {
			return err
		}
		if target == "" {
			return config.ErrNoTarget
		}
		cfg.Target = target
	}

	if cfg.Mode == 0 {
		if cfg.AutoConfirm {
			cfg.Mode = model.DefaultMode
		} else {
			sel, err := prompter.SelectMode()
			if err != nil {
				return err
			}
			cfg.Mode = sel.Mode
			if sel.PortSpec != "" {
				cfg.PortSpec = sel.PortSpec
			}
			if sel.CustomFlags != "" {
				cfg.CustomFlags = sel.CustomFlags
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if cfg.Mode == model.ModeFull {
		out.Warnf("Full scan covers all 65,535 ports and can take 20-40+ minutes")
	}

	options, err := scanner.BuildOptions(cfg.Mode, cfg.PortSpec, cfg.CustomFlags)
	if err != nil {
		return fmt.Errorf("failed to build nmap options: %w", err)
	}

	if !cfg.SkipPreflight {
		if err := preflight.Check(ctx, cfg.NmapBinary, cfg.OllamaURL, nil); err != nil {
			out.Hintf("Use --skip-preflight to run without the availability checks")
			return fmt.Errorf("preflight check failed: %w", err)
		}
	}

	logger.Info("starting enumeration",
		"target", cfg.Target,
		"mode", cfg.Mode.String(),
		"options", options,
	)

	runner := scanner.NewRunner(
		scanner.WithBinary(cfg.NmapBinary),
		scanner.WithTimeout(cfg.ScanTimeout),
		scanner.WithRunnerLogger(logger),
	)

	client := analyzer.NewClient(
		analyzer.WithEndpoint(cfg.OllamaURL),
		analyzer.WithModel(cfg.Model),
		analyzer.WithNumCtx(cfg.NumCtx),
		analyzer.WithTemperature(cfg.Temperature),
		analyzer.WithHTTPClient(&http.Client{Timeout: cfg.AnalysisTimeout}),
		analyzer.WithClientLogger(logger),
	)

	var confirm ui.Confirmer = prompter
	if cfg.AutoConfirm {
		confirm = ui.AutoConfirm{}
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewScanStep(runner, out, confirm),
		pipeline.NewAnalyzeStep(client, out),
		pipeline.NewReportStep(cfg.OutputDir, out),
	)

	rep := model.NewEnumReport(cfg.Target)
	rep.Mode = cfg.Mode
	rep.Options = options

	if err := p.Execute(ctx, rep); err != nil {
		// A declined proceed-anyway prompt is a clean stop, not a failure.
		if errors.Is(err, pipeline.ErrScanAborted) {
			out.Infof("Aborted.")
			return nil
		}
		return err
	}

	return nil
}
