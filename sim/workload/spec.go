package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// WorkloadSpec describes a synthetic traffic mix for the link.
// Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Version    string     `yaml:"version"`
	Seed       int64      `yaml:"seed"`
	NumFlows   int        `yaml:"num_flows"`
	Horizon    int64      `yaml:"horizon"`               // arrivals are generated in [0, horizon)
	NumPackets int        `yaml:"num_packets,omitempty"` // 0 = unlimited (use horizon only)
	Flows      []FlowSpec `yaml:"flows"`
}

// FlowSpec defines one flow's traffic.
type FlowSpec struct {
	FlowID  int         `yaml:"flow_id"`
	Rate    float64     `yaml:"rate"` // packets per tick
	Arrival ArrivalSpec `yaml:"arrival"`
	Size    DistSpec    `yaml:"size"`
}

// ArrivalSpec configures the inter-arrival time process.
type ArrivalSpec struct {
	Process string   `yaml:"process"`
	CV      *float64 `yaml:"cv,omitempty"`
}

// DistSpec parameterizes a packet size distribution, in bits.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

var (
	validArrivalProcesses = map[string]bool{"poisson": true, "gamma": true, "constant": true}
	validDistTypes        = map[string]bool{"constant": true, "uniform": true, "gaussian": true, "exponential": true}
)

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	if spec.Version == "" {
		logrus.Warnf("workload spec %s has no version; assuming \"1\"", path)
		spec.Version = "1"
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *WorkloadSpec) Validate() error {
	if s.NumFlows <= 0 {
		return fmt.Errorf("num_flows must be positive, got %d", s.NumFlows)
	}
	if s.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", s.Horizon)
	}
	if s.NumPackets < 0 {
		return fmt.Errorf("num_packets must be non-negative, got %d", s.NumPackets)
	}
	if len(s.Flows) == 0 {
		return fmt.Errorf("at least one flow required")
	}
	seen := make(map[int]bool, len(s.Flows))
	for i := range s.Flows {
		f := &s.Flows[i]
		if seen[f.FlowID] {
			return fmt.Errorf("flow[%d]: duplicate flow_id %d", i, f.FlowID)
		}
		seen[f.FlowID] = true
		if err := validateFlow(f, i, s.NumFlows); err != nil {
			return err
		}
	}
	return nil
}

func validateFlow(f *FlowSpec, idx, numFlows int) error {
	prefix := fmt.Sprintf("flow[%d]", idx)
	if f.FlowID < 0 || f.FlowID >= numFlows {
		return fmt.Errorf("%s: flow_id %d out of range [0, %d)", prefix, f.FlowID, numFlows)
	}
	if err := validateFinitePositive(prefix+".rate", f.Rate); err != nil {
		return err
	}
	if !validArrivalProcesses[f.Arrival.Process] {
		return fmt.Errorf("%s: unknown arrival process %q; valid: poisson, gamma, constant", prefix, f.Arrival.Process)
	}
	if f.Arrival.CV != nil {
		if err := validateFinitePositive(prefix+".arrival.cv", *f.Arrival.CV); err != nil {
			return err
		}
	}
	if !validDistTypes[f.Size.Type] {
		return fmt.Errorf("%s.size: unknown distribution type %q; valid: constant, uniform, gaussian, exponential", prefix, f.Size.Type)
	}
	for name, val := range f.Size.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.size.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
