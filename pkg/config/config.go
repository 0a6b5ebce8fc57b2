// Package config loads the run configuration that names the root package,
// the dependency source, and the diagram output.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds one visualization run's parameters.
type Config struct {
	// PackageName is the root package whose graph is built.
	PackageName string
	// RepoURL is the package index URL, or the stub file path in test mode.
	RepoURL string
	// TestMode selects the local stub-file source over the remote index.
	TestMode bool
	// OutputFile is the diagram image filename; the D2 description is
	// written next to it with a .d2 extension.
	OutputFile string
	// FilterSubstring excludes matching packages from the graph.
	// Empty means no filtering.
	FilterSubstring string
}

// rawConfig uses pointers so missing required fields are distinguishable
// from zero values.
type rawConfig struct {
	PackageName     *string `yaml:"package_name"`
	RepoURL         *string `yaml:"repo_url"`
	TestMode        *bool   `yaml:"test_mode"`
	OutputFile      *string `yaml:"output_file"`
	FilterSubstring string  `yaml:"filter_substring"`
}

// Load reads and validates the YAML configuration at path. A missing
// required field, an unreadable file, or malformed YAML (including a
// non-boolean test_mode) is an error; no defaults are invented for
// required fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	if err := raw.validate(); err != nil {
		return nil, err
	}

	return &Config{
		PackageName:     strings.TrimSpace(*raw.PackageName),
		RepoURL:         strings.TrimSpace(*raw.RepoURL),
		TestMode:        *raw.TestMode,
		OutputFile:      strings.TrimSpace(*raw.OutputFile),
		FilterSubstring: strings.TrimSpace(raw.FilterSubstring),
	}, nil
}

func (r *rawConfig) validate() error {
	if r.PackageName == nil || strings.TrimSpace(*r.PackageName) == "" {
		return fmt.Errorf("missing or empty required field: package_name")
	}
	if r.RepoURL == nil || strings.TrimSpace(*r.RepoURL) == "" {
		return fmt.Errorf("missing or empty required field: repo_url")
	}
	if r.TestMode == nil {
		return fmt.Errorf("missing required field: test_mode")
	}
	if r.OutputFile == nil || strings.TrimSpace(*r.OutputFile) == "" {
		return fmt.Errorf("missing or empty required field: output_file")
	}
	return nil
}

// Params formats the configuration for the run header, one key per line.
func (c *Config) Params() string {
	var b strings.Builder
	b.WriteString("Configuration parameters:\n")
	fmt.Fprintf(&b, "  package_name: %s\n", c.PackageName)
	fmt.Fprintf(&b, "  repo_url: %s\n", c.RepoURL)
	fmt.Fprintf(&b, "  test_mode: %t\n", c.TestMode)
	fmt.Fprintf(&b, "  output_file: %s\n", c.OutputFile)
	fmt.Fprintf(&b, "  filter_substring: %s\n", c.FilterSubstring)
	return b.String()
}
