// Derives throughput and latency statistics from the completed-packet log.

package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FlowThroughput is the throughput of a single flow in bits per tick.
type FlowThroughput struct {
	FlowID      int     `json:"flow_id"`
	BitsPerTick float64 `json:"bits_per_tick"`
}

// Throughput holds aggregate and per-flow throughput.
// PerFlow is sorted by flow and only lists flows with completed packets.
type Throughput struct {
	Total   float64          `json:"total"`
	PerFlow []FlowThroughput `json:"per_flow"`
}

// LatencyStats summarises a set of packet latencies, in ticks.
// Variance is the population variance.
type LatencyStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Max      int64   `json:"max"`
	P50      float64 `json:"p50"`
	P99      float64 `json:"p99"`
}

// FlowLatency is the latency summary of one flow.
type FlowLatency struct {
	FlowID int `json:"flow_id"`
	LatencyStats
}

// LatencyReport holds aggregate and per-flow latency statistics.
// Flows without completed packets have no entry.
type LatencyReport struct {
	Total   LatencyStats  `json:"total"`
	PerFlow []FlowLatency `json:"per_flow"`
}

// ComputeThroughput divides completed bits by the elapsed ticks.
// Returns the zero report when clock is 0 or nothing has completed.
func ComputeThroughput(completed []Packet, clock int64) Throughput {
	bitsPerFlow := make(map[int]int64)
	var totalBits int64
	for _, p := range completed {
		bitsPerFlow[p.FlowID] += p.OriginalSize
		totalBits += p.OriginalSize
	}
	if totalBits == 0 || clock == 0 {
		return Throughput{PerFlow: []FlowThroughput{}}
	}

	elapsed := float64(clock)
	perFlow := make([]FlowThroughput, 0, len(bitsPerFlow))
	for flow, bits := range bitsPerFlow {
		perFlow = append(perFlow, FlowThroughput{FlowID: flow, BitsPerTick: float64(bits) / elapsed})
	}
	sort.Slice(perFlow, func(i, j int) bool { return perFlow[i].FlowID < perFlow[j].FlowID })
	return Throughput{
		Total:   float64(totalBits) / elapsed,
		PerFlow: perFlow,
	}
}

// ComputeLatency computes latency statistics over completed packets.
// The aggregate is computed over all packets, not from the per-flow means.
func ComputeLatency(completed []Packet) LatencyReport {
	report := LatencyReport{PerFlow: []FlowLatency{}}
	if len(completed) == 0 {
		return report
	}

	all := make([]float64, 0, len(completed))
	perFlow := make(map[int][]float64)
	for _, p := range completed {
		l := float64(p.Latency())
		all = append(all, l)
		perFlow[p.FlowID] = append(perFlow[p.FlowID], l)
	}

	report.Total = summarize(all)
	for flow, latencies := range perFlow {
		report.PerFlow = append(report.PerFlow, FlowLatency{FlowID: flow, LatencyStats: summarize(latencies)})
	}
	sort.Slice(report.PerFlow, func(i, j int) bool { return report.PerFlow[i].FlowID < report.PerFlow[j].FlowID })
	return report
}

// summarize expects a non-empty sample; it sorts its argument in place.
func summarize(latencies []float64) LatencyStats {
	mean, variance := stat.PopMeanVariance(latencies, nil)
	sort.Float64s(latencies)
	return LatencyStats{
		Count:    len(latencies),
		Mean:     mean,
		Variance: variance,
		Max:      int64(latencies[len(latencies)-1]),
		P50:      stat.Quantile(0.5, stat.Empirical, latencies, nil),
		P99:      stat.Quantile(0.99, stat.Empirical, latencies, nil),
	}
}
