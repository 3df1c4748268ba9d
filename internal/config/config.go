// Package config loads the benchmark definition for a veribench run.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"veribench/internal/toolinfo"
)

// Config holds one benchmark definition: which tool to run, with which
// options, on which tasks, under which limits.
type Config struct {
	// Tool is the identifier of the tool adapter to drive.
	Tool string `yaml:"tool"`

	// Options are forwarded to the tool adapter's cmdline unchanged.
	Options []string `yaml:"options"`

	// Tasks are the input files to verify.
	Tasks []string `yaml:"tasks"`

	// PropertyFile is the property specification, may be empty.
	PropertyFile string `yaml:"propertyfile"`

	// Limits are the resource limits for each tool invocation.
	Limits LimitsConfig `yaml:"limits"`

	// Logging configures the categorized debug logs.
	Logging LoggingConfig `yaml:"logging"`
}

// LimitsConfig configures per-invocation resource limits.
type LimitsConfig struct {
	CPUSeconds  int   `yaml:"cputime_s"`
	WallSeconds int   `yaml:"walltime_s"`
	MemoryBytes int64 `yaml:"memory_bytes"`
	Cores       int   `yaml:"cores"`
}

// LoggingConfig configures the logging package. It must stay structurally
// in sync with the mirror struct in internal/logging.
type LoggingConfig struct {
	Debug      bool            `yaml:"debug"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns a config with SV-COMP-style default limits.
func DefaultConfig() *Config {
	return &Config{
		Tool: "metaval",
		Limits: LimitsConfig{
			CPUSeconds:  900,
			WallSeconds: 960,
			MemoryBytes: 15 * 1000 * 1000 * 1000,
			Cores:       2,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a benchmark definition from path. A missing file yields the
// defaults. Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets VERIBENCH_* variables override the file.
func (c *Config) applyEnvOverrides() {
	if tool := os.Getenv("VERIBENCH_TOOL"); tool != "" {
		c.Tool = tool
	}
	if prop := os.Getenv("VERIBENCH_PROPERTYFILE"); prop != "" {
		c.PropertyFile = prop
	}
	if opts := os.Getenv("VERIBENCH_OPTIONS"); opts != "" {
		c.Options = strings.Fields(opts)
	}
}

// Validate checks that the config describes a runnable benchmark.
func (c *Config) Validate() error {
	if c.Tool == "" {
		return fmt.Errorf("tool must be set")
	}
	if len(c.Tasks) == 0 {
		return fmt.Errorf("at least one task must be set")
	}
	if c.Limits.CPUSeconds < 0 || c.Limits.WallSeconds < 0 {
		return fmt.Errorf("time limits must not be negative")
	}
	if c.Limits.MemoryBytes < 0 {
		return fmt.Errorf("memory limit must not be negative")
	}
	return nil
}

// RunLimits converts the configured limits to the adapter-facing form.
func (c *Config) RunLimits() toolinfo.RunLimits {
	return toolinfo.RunLimits{
		CPUSeconds:  c.Limits.CPUSeconds,
		WallSeconds: c.Limits.WallSeconds,
		MemoryBytes: c.Limits.MemoryBytes,
		Cores:       c.Limits.Cores,
	}
}
