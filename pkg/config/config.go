// Package config provides configuration management for the benchmark harness:
// engine selection, workload-file discovery, concurrency settings, and
// environment variable overrides.
//
// Configuration Sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. Configuration file (JSON format)
//  3. Default values (lowest priority)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unum-cloud/ukvsb/pkg/logging"
)

// Config holds the complete run configuration for a benchmark invocation.
type Config struct {
	Engine  EngineConfig  `json:"engine"`
	Run     RunConfig     `json:"run"`
	Logging LoggingConfig `json:"logging"`
}

// EngineConfig describes how to reach the storage engine under test.
type EngineConfig struct {
	Name       string `json:"name"`        // adapter identifier, e.g. "memory"
	ConfigPath string `json:"config_path"` // engine-specific settings file
	WorkingDir string `json:"working_dir"` // directory the engine may use for data files
}

// RunConfig holds the knobs that shape a single orchestrator run.
type RunConfig struct {
	WorkloadsPath string `json:"workloads_path"` // JSON file with one or more workload descriptors
	Filter        string `json:"filter"`         // comma-separated workload names to run, empty means all
	Threads       int    `json:"threads"`
	Transactional bool   `json:"transactional"`
	ResultsDir    string `json:"results_dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
	File   string `json:"file"`
}

// DefaultConfig returns sane defaults: an in-memory engine, a single thread,
// text logging to the console.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Name:       "memory",
			ConfigPath: "",
			WorkingDir: filepath.Join(os.TempDir(), "ukvsb"),
		},
		Run: RunConfig{
			WorkloadsPath: "",
			Filter:        "",
			Threads:       1,
			Transactional: false,
			ResultsDir:    "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "console",
			File:   "",
		},
	}
}

// LoadConfig loads configuration from file with environment variable overrides,
// then validates the result.
//
// Precedence (highest to lowest): environment variables (UKVSB_*), config
// file (JSON), defaults. A missing file is not an error; an invalid one is.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies UKVSB_-prefixed environment variables.
// Invalid integer or boolean values are silently ignored so a bad override
// never breaks startup.
func (c *Config) applyEnvironmentOverrides() {
	if val := os.Getenv("UKVSB_ENGINE_NAME"); val != "" {
		c.Engine.Name = val
	}
	if val := os.Getenv("UKVSB_ENGINE_CONFIG"); val != "" {
		c.Engine.ConfigPath = val
	}
	if val := os.Getenv("UKVSB_WORKING_DIR"); val != "" {
		c.Engine.WorkingDir = val
	}
	if val := os.Getenv("UKVSB_WORKLOADS"); val != "" {
		c.Run.WorkloadsPath = val
	}
	if val := os.Getenv("UKVSB_FILTER"); val != "" {
		c.Run.Filter = val
	}
	if val := os.Getenv("UKVSB_THREADS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Run.Threads = n
		}
	}
	if val := os.Getenv("UKVSB_TRANSACTIONAL"); val != "" {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			c.Run.Transactional = b
		}
	}
	if val := os.Getenv("UKVSB_RESULTS_DIR"); val != "" {
		c.Run.ResultsDir = val
	}
	if val := os.Getenv("UKVSB_LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv("UKVSB_LOG_FORMAT"); val != "" {
		c.Logging.Format = val
	}
	if val := os.Getenv("UKVSB_LOG_OUTPUT"); val != "" {
		c.Logging.Output = val
	}
	if val := os.Getenv("UKVSB_LOG_FILE"); val != "" {
		c.Logging.File = val
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Engine.Name == "" {
		return fmt.Errorf("engine name cannot be empty")
	}
	if c.Run.Threads <= 0 {
		return fmt.Errorf("threads must be positive (current: %d)", c.Run.Threads)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q: valid options are debug, info, warn, error", c.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q: valid options are text, json", c.Logging.Format)
	}

	validOutputs := map[string]bool{"console": true, "file": true, "both": true}
	if !validOutputs[c.Logging.Output] {
		return fmt.Errorf("invalid log output %q: valid options are console, file, both", c.Logging.Output)
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.File == "" {
		return fmt.Errorf("log file path required when output is %q", c.Logging.Output)
	}

	return nil
}

// SaveToFile writes the configuration as indented JSON, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// GetDefaultConfigPath returns the conventional per-user config path.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ukvsb", "config.json"), nil
}

// BuildLogger constructs a logging.Logger honoring the Logging sub-config.
func (c *Config) BuildLogger() (*logging.Logger, error) {
	level, err := logging.ParseLogLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	format := logging.TextFormat
	if c.Logging.Format == "json" {
		format = logging.JSONFormat
	}

	var output *os.File = os.Stdout
	logCfg := &logging.Config{Level: level, Format: format, Output: output}

	switch c.Logging.Output {
	case "file":
		w, err := logging.CreateFileOutput(c.Logging.File)
		if err != nil {
			return nil, err
		}
		logCfg.Output = w
	case "both":
		w, err := logging.CreateCombinedOutput(c.Logging.File)
		if err != nil {
			return nil, err
		}
		logCfg.Output = w
	}

	return logging.NewLogger(logCfg), nil
}
