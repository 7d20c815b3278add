package sim

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintStrategyState_SortsKeys(t *testing.T) {
	var buf bytes.Buffer
	PrintStrategyState(&buf, map[string]string{"strategy": "drr", "deficit": "[2 0]", "current_flow": "1"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "=== Strategy State ===", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "current_flow"))
	assert.True(t, strings.HasPrefix(lines[2], "deficit"))
	assert.True(t, strings.HasPrefix(lines[3], "strategy"))
}

func TestMetrics_Print_ViolationsOnlyWhenPresent(t *testing.T) {
	m := &Metrics{Strategy: "fifo"}
	var buf bytes.Buffer
	m.Print(&buf)
	assert.NotContains(t, buf.String(), "violations")

	m.Violations = 2
	buf.Reset()
	m.Print(&buf)
	assert.Contains(t, buf.String(), "Strategy violations  : 2")
}

func TestMetrics_Print_NoCompletions_OmitsTotalLatencyRow(t *testing.T) {
	// GIVEN a run that has not finished any packet
	s := newTestSimulator(t, "fifo", twoPacketInput())
	s.Run(1)

	var buf bytes.Buffer
	s.Metrics().Print(&buf)

	// THEN the latency header is printed without a Total row
	assert.Contains(t, buf.String(), "--- Latency (ticks) ---")
	assert.Equal(t, 1, strings.Count(buf.String(), "Total"), "only the throughput Total row")
}

func TestMetrics_SaveResults_UnwritablePath_ReturnsError(t *testing.T) {
	m := &Metrics{Strategy: "fifo"}
	err := m.SaveResults(filepath.Join(t.TempDir(), "missing-dir", "out.json"))
	assert.Error(t, err)
}
