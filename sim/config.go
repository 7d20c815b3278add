package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/linksim/linksim/sim/trace"
)

// RunConfig holds run configuration, loadable from a YAML file.
// Zero values mean "not set in YAML"; CLI flags fill them in.
type RunConfig struct {
	Input       string `yaml:"input"`        // path to the input document
	Strategy    string `yaml:"strategy"`     // "fifo" (default), "gps", "rr", "drr"
	Horizon     int64  `yaml:"horizon"`      // max ticks to simulate (0 = until finished)
	Trace       string `yaml:"trace"`        // "none" (default) or "decisions"
	ResultsPath string `yaml:"results_path"` // optional JSON metrics output file
}

// LoadRunConfig reads and parses a YAML run configuration file.
// Unknown keys are rejected so that typos surface as errors.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that all names and ranges in the config are valid.
func (c *RunConfig) Validate() error {
	if !IsValidStrategy(c.Strategy) {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q", c.Trace)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", c.Horizon)
	}
	return nil
}
