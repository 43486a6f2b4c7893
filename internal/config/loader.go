package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name searched for in
// the current directory.
const DefaultConfigFile = ".ctfenum.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file layout. All fields are optional;
// zero values leave the corresponding Config field untouched.
type File struct {
	// Ollama configures the generation backend.
	Ollama struct {
		// URL is the generation endpoint.
		URL string `yaml:"url"`

		// Model is the backend model name.
		Model string `yaml:"model"`

		// NumCtx is the model context window in tokens.
		NumCtx int `yaml:"num_ctx"`

		// Temperature is the sampling temperature.
		Temperature float64 `yaml:"temperature"`

		// TimeoutSeconds bounds one generation request.
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"ollama"`

	// Nmap configures the scanner.
	Nmap struct {
		// Binary is the nmap executable name or path.
		Binary string `yaml:"binary"`

		// TimeoutSeconds bounds one scan invocation.
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"nmap"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .ctfenum.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check XDG config directory
	xdgConfig := filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// Apply copies the file's non-zero settings onto cfg. CLI flags are applied
// after the file, so explicit flags always win.
func (f *File) Apply(cfg *Config) {
	if f.Ollama.URL != "" {
		cfg.OllamaURL = f.Ollama.URL
	}
	if f.Ollama.Model != "" {
		cfg.Model = f.Ollama.Model
	}
	if f.Ollama.NumCtx > 0 {
		cfg.NumCtx = f.Ollama.NumCtx
	}
	if f.Ollama.Temperature > 0 {
		cfg.Temperature = f.Ollama.Temperature
	}
	if f.Ollama.TimeoutSeconds > 0 {
		cfg.AnalysisTimeout = time.Duration(f.Ollama.TimeoutSeconds) * time.Second
	}
	if f.Nmap.Binary != "" {
		cfg.NmapBinary = f.Nmap.Binary
	}
	if f.Nmap.TimeoutSeconds > 0 {
		cfg.ScanTimeout = time.Duration(f.Nmap.TimeoutSeconds) * time.Second
	}
}
