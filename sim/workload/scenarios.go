package workload

import (
	"fmt"
	"sort"
)

// Built-in scenario presets for common traffic patterns.
// Each returns a valid WorkloadSpec ready for use with GeneratePackets.

// ScenarioBurstyTraffic creates one Gamma-bursty flow competing with one smooth flow.
func ScenarioBurstyTraffic(seed int64) *WorkloadSpec {
	cv := 3.5
	return &WorkloadSpec{
		Version: "1", Seed: seed, NumFlows: 2, Horizon: 1000,
		Flows: []FlowSpec{
			{FlowID: 0, Rate: 0.02, Arrival: ArrivalSpec{Process: "gamma", CV: &cv},
				Size: DistSpec{Type: "exponential", Params: map[string]float64{"mean": 20}}},
			{FlowID: 1, Rate: 0.02, Arrival: ArrivalSpec{Process: "constant"},
				Size: DistSpec{Type: "constant", Params: map[string]float64{"value": 20}}},
		},
	}
}

// ScenarioElephantMice creates one flow of large packets against three flows of small ones.
func ScenarioElephantMice(seed int64) *WorkloadSpec {
	mouse := func(id int) FlowSpec {
		return FlowSpec{FlowID: id, Rate: 0.05, Arrival: ArrivalSpec{Process: "poisson"},
			Size: DistSpec{Type: "uniform", Params: map[string]float64{"min": 1, "max": 4}}}
	}
	return &WorkloadSpec{
		Version: "1", Seed: seed, NumFlows: 4, Horizon: 1000,
		Flows: []FlowSpec{
			{FlowID: 0, Rate: 0.01, Arrival: ArrivalSpec{Process: "poisson"},
				Size: DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 64, "std_dev": 16, "min": 16, "max": 128}}},
			mouse(1), mouse(2), mouse(3),
		},
	}
}

// ScenarioUniformFlows creates numFlows identical Poisson flows that together load the link to about 0.9.
func ScenarioUniformFlows(seed int64, numFlows int) *WorkloadSpec {
	const meanSize = 8.0
	rate := 0.9 / meanSize / float64(numFlows)
	spec := &WorkloadSpec{Version: "1", Seed: seed, NumFlows: numFlows, Horizon: 1000}
	for i := 0; i < numFlows; i++ {
		spec.Flows = append(spec.Flows, FlowSpec{FlowID: i, Rate: rate, Arrival: ArrivalSpec{Process: "poisson"},
			Size: DistSpec{Type: "exponential", Params: map[string]float64{"mean": meanSize}}})
	}
	return spec
}

var scenarios = map[string]func(seed int64) *WorkloadSpec{
	"bursty":        ScenarioBurstyTraffic,
	"elephant-mice": ScenarioElephantMice,
	"uniform":       func(seed int64) *WorkloadSpec { return ScenarioUniformFlows(seed, 3) },
}

// ScenarioNames returns the names accepted by NewScenario, sorted.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewScenario returns the named preset seeded with seed.
func NewScenario(name string, seed int64) (*WorkloadSpec, error) {
	build, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q; valid: %v", name, ScenarioNames())
	}
	return build(seed), nil
}
