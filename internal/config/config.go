// Package config loads and validates the stratus configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voleary/stratus/internal/merge"
	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/pathutil"
)

// DefaultOutputDir receives artifacts when the config does not set one.
const DefaultOutputDir = "scan-results"

// Config is the top-level stratus configuration.
type Config struct {
	SeverityOverrides map[string]string `yaml:"severity_overrides"`
	OutputDir         string            `yaml:"output_dir"`
	StaleFindings     string            `yaml:"stale_findings"`
	Inputs            []Input           `yaml:"inputs"`
	RemediationTables []string          `yaml:"remediation_tables"`
}

// Input declares one scanner output root.
type Input struct {
	Scanner string `yaml:"scanner"`
	Root    string `yaml:"root"`
}

// LoadConfig reads, parses, and validates a config file.
func LoadConfig(path string) (*Config, error) {
	cleaned, err := pathutil.ValidateConfigPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cleaned) //nolint:gosec // path validated above
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
}

// Validate checks the configuration for problems that would make a run
// meaningless.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("config declares no inputs")
	}
	for i, input := range c.Inputs {
		if input.Scanner == "" {
			return fmt.Errorf("input %d: scanner is required", i)
		}
		if input.Root == "" {
			return fmt.Errorf("input %d (%s): root is required", i, input.Scanner)
		}
	}

	if _, err := merge.ParsePolicy(c.StaleFindings); err != nil {
		return fmt.Errorf("stale_findings: %w", err)
	}

	for checkID, sev := range c.SeverityOverrides {
		if !models.Severity(sev).Valid() {
			return fmt.Errorf("severity_overrides[%s]: invalid severity %q", checkID, sev)
		}
	}

	for _, table := range c.RemediationTables {
		if _, err := pathutil.ValidateConfigPath(table); err != nil {
			return fmt.Errorf("remediation_tables: %w", err)
		}
	}

	return nil
}

// StalePolicy returns the parsed stale-finding policy.
func (c *Config) StalePolicy() merge.StalePolicy {
	policy, err := merge.ParsePolicy(c.StaleFindings)
	if err != nil {
		// Validate already rejected bad values.
		return merge.StaleRetain
	}
	return policy
}

// Overrides returns the severity overrides as typed severities.
func (c *Config) Overrides() map[string]models.Severity {
	if len(c.SeverityOverrides) == 0 {
		return nil
	}
	out := make(map[string]models.Severity, len(c.SeverityOverrides))
	for checkID, sev := range c.SeverityOverrides {
		out[checkID] = models.Severity(sev)
	}
	return out
}
