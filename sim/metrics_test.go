package sim

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedPacket(id PacketID, flow int, size, arrival, completion int64) Packet {
	p := NewPacket(id, flow, size, arrival)
	p.RemainingSize = 0
	p.CompletionTime = completion
	p.Completed = true
	return p
}

func TestComputeThroughput_ZeroClockOrEmpty_ReturnsZero(t *testing.T) {
	empty := ComputeThroughput(nil, 10)
	assert.Equal(t, 0.0, empty.Total)
	assert.Empty(t, empty.PerFlow)

	atZero := ComputeThroughput([]Packet{completedPacket(1, 0, 4, 0, 3)}, 0)
	assert.Equal(t, 0.0, atZero.Total)
	assert.Empty(t, atZero.PerFlow)
}

func TestComputeThroughput_PerFlowAndTotal(t *testing.T) {
	// GIVEN 3 bits of flow 0 and 2 bits of flow 1 completed after 5 ticks
	completed := []Packet{
		completedPacket(2, 1, 2, 0, 4),
		completedPacket(1, 0, 3, 0, 2),
	}

	// WHEN throughput is computed
	tp := ComputeThroughput(completed, 5)

	// THEN total is 1 bit/tick and flows are listed in flow order
	assert.InDelta(t, 1.0, tp.Total, 1e-12)
	require.Len(t, tp.PerFlow, 2)
	assert.Equal(t, 0, tp.PerFlow[0].FlowID)
	assert.InDelta(t, 0.6, tp.PerFlow[0].BitsPerTick, 1e-12)
	assert.Equal(t, 1, tp.PerFlow[1].FlowID)
	assert.InDelta(t, 0.4, tp.PerFlow[1].BitsPerTick, 1e-12)
}

func TestComputeThroughput_OmitsFlowsWithoutCompletions(t *testing.T) {
	tp := ComputeThroughput([]Packet{completedPacket(1, 2, 4, 0, 3)}, 4)
	require.Len(t, tp.PerFlow, 1)
	assert.Equal(t, 2, tp.PerFlow[0].FlowID)
}

func TestComputeLatency_Empty_ReturnsZero(t *testing.T) {
	report := ComputeLatency(nil)
	assert.Equal(t, LatencyStats{}, report.Total)
	assert.Empty(t, report.PerFlow)
}

func TestComputeLatency_MeanAndPopulationVariance(t *testing.T) {
	// GIVEN latencies 2 and 4 on flow 0, and 9 on flow 1
	completed := []Packet{
		completedPacket(1, 0, 1, 0, 2),
		completedPacket(2, 0, 1, 1, 5),
		completedPacket(3, 1, 1, 1, 10),
	}

	// WHEN latency stats are computed
	report := ComputeLatency(completed)

	// THEN the aggregate is over all three packets, not over per-flow means
	assert.Equal(t, 3, report.Total.Count)
	assert.InDelta(t, 5.0, report.Total.Mean, 1e-9)
	// ((2-5)² + (4-5)² + (9-5)²) / 3 = 26/3
	assert.InDelta(t, 26.0/3.0, report.Total.Variance, 1e-9)
	assert.Equal(t, int64(9), report.Total.Max)

	require.Len(t, report.PerFlow, 2)
	assert.Equal(t, 0, report.PerFlow[0].FlowID)
	assert.InDelta(t, 3.0, report.PerFlow[0].Mean, 1e-9)
	assert.InDelta(t, 1.0, report.PerFlow[0].Variance, 1e-9)
	assert.Equal(t, 1, report.PerFlow[1].FlowID)
	assert.InDelta(t, 9.0, report.PerFlow[1].Mean, 1e-9)
	assert.InDelta(t, 0.0, report.PerFlow[1].Variance, 1e-9)
}

func TestComputeLatency_DoesNotReorderInput(t *testing.T) {
	completed := []Packet{
		completedPacket(1, 0, 1, 0, 9),
		completedPacket(2, 0, 1, 0, 1),
	}
	ComputeLatency(completed)
	assert.Equal(t, PacketID(1), completed[0].ID)
}

func TestStatistics_Idempotent(t *testing.T) {
	// GIVEN a finished simulation
	s := newTestSimulator(t, "gps", newInput(2, pkt{0, 3, 0}, pkt{1, 2, 0}, pkt{1, 4, 3}))
	runToEnd(t, s, 100)

	// WHEN statistics are computed twice
	// THEN the results are identical
	assert.Equal(t, s.Throughput(), s.Throughput())
	assert.Equal(t, s.LatencyStats(), s.LatencyStats())
}

func TestSimulator_Metrics_CountsBits(t *testing.T) {
	s := newTestSimulator(t, "fifo", twoPacketInput())
	s.Run(3)

	m := s.Metrics()
	assert.Equal(t, "fifo", m.Strategy)
	assert.Equal(t, int64(3), m.SimEndedTime)
	assert.Equal(t, 2, m.TotalPackets)
	assert.Equal(t, 1, m.CompletedPackets)
	assert.Equal(t, int64(5), m.TotalBits)
	assert.Equal(t, int64(3), m.CompletedBits)
	assert.False(t, m.Finished)
	assert.InDelta(t, 1.0, m.Throughput.Total, 1e-12)
}

func TestMetrics_Print_ContainsSections(t *testing.T) {
	s := newTestSimulator(t, "drr", twoPacketInput())
	runToEnd(t, s, 100)

	var buf bytes.Buffer
	s.Metrics().Print(&buf)
	PrintStrategyState(&buf, s.StrategyState())

	out := buf.String()
	assert.Contains(t, out, "Simulation Metrics")
	assert.Contains(t, out, "Packets out          : 2/2")
	assert.Contains(t, out, "Throughput")
	assert.Contains(t, out, "Flow 1")
	assert.Contains(t, out, "deficit")
}

func TestMetrics_SaveResults_WritesJSON(t *testing.T) {
	s := newTestSimulator(t, "fifo", twoPacketInput())
	runToEnd(t, s, 100)
	path := filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, s.Metrics().SaveResults(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "fifo", decoded["strategy"])
	assert.Equal(t, float64(2), decoded["completed_packets"])
	assert.Contains(t, decoded, "latency")
}
