// sim/metrics_utils.go
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

// Metrics aggregates the outcome of a run for final reporting.
type Metrics struct {
	Strategy         string        `json:"strategy"`
	SimEndedTime     int64         `json:"sim_ended_time"`
	Finished         bool          `json:"finished"`
	NumFlows         int           `json:"num_flows"`
	TotalPackets     int           `json:"total_packets"`
	CompletedPackets int           `json:"completed_packets"`
	TotalBits        int64         `json:"total_bits"`
	CompletedBits    int64         `json:"completed_bits"`
	Violations       int           `json:"violations"`
	Throughput       Throughput    `json:"throughput"`
	Latency          LatencyReport `json:"latency"`
}

// Metrics assembles the report for the current state of the run.
func (sim *Simulator) Metrics() *Metrics {
	completed := sim.completedPackets()
	m := &Metrics{
		Strategy:         sim.strategy.Name(),
		SimEndedTime:     sim.clock,
		Finished:         sim.Finished(),
		NumFlows:         sim.numFlows,
		TotalPackets:     len(sim.packets),
		CompletedPackets: len(completed),
		Violations:       sim.violations,
		Throughput:       ComputeThroughput(completed, sim.clock),
		Latency:          ComputeLatency(completed),
	}
	for _, p := range sim.packets {
		m.TotalBits += p.OriginalSize
	}
	for _, p := range completed {
		m.CompletedBits += p.OriginalSize
	}
	return m
}

// Print writes a human-readable summary of the metrics.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Strategy             : %s\n", m.Strategy)
	fmt.Fprintf(w, "Current time         : %d ticks\n", m.SimEndedTime)
	fmt.Fprintf(w, "Packets out          : %d/%d\n", m.CompletedPackets, m.TotalPackets)
	fmt.Fprintf(w, "Bits out             : %d/%d\n", m.CompletedBits, m.TotalBits)
	if m.Violations > 0 {
		fmt.Fprintf(w, "Strategy violations  : %d\n", m.Violations)
	}

	fmt.Fprintln(w, "--- Throughput (bits/tick) ---")
	fmt.Fprintf(w, "Total                : %.4f\n", m.Throughput.Total)
	for _, f := range m.Throughput.PerFlow {
		fmt.Fprintf(w, "Flow %-15d : %.4f\n", f.FlowID, f.BitsPerTick)
	}

	fmt.Fprintln(w, "--- Latency (ticks) ---")
	fmt.Fprintf(w, "%-20s   %10s %12s %8s\n", "", "Mean", "Variance", "Max")
	if m.CompletedPackets > 0 {
		fmt.Fprintf(w, "%-20s : %10.2f %12.2f %8d\n", "Total", m.Latency.Total.Mean, m.Latency.Total.Variance, m.Latency.Total.Max)
	}
	for _, f := range m.Latency.PerFlow {
		fmt.Fprintf(w, "%-20s : %10.2f %12.2f %8d\n", fmt.Sprintf("Flow %d", f.FlowID), f.Mean, f.Variance, f.Max)
	}
}

// PrintStrategyState writes the strategy's display state with keys in sorted order.
func PrintStrategyState(w io.Writer, state map[string]string) {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "=== Strategy State ===")
	for _, k := range keys {
		fmt.Fprintf(w, "%-20s : %s\n", k, state[k])
	}
}

// SaveResults writes the metrics as indented JSON to fileName.
func (m *Metrics) SaveResults(fileName string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling metrics: %w", err)
	}
	if err := os.WriteFile(fileName, data, 0644); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", fileName, err)
	}
	logrus.Debugf("Successfully wrote metrics to '%s'", fileName)
	return nil
}
