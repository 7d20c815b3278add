package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks       int
	BusyTicks        int
	IdleTicks        int
	CompletedPackets int
	// PacketSwitches counts busy ticks that served a different packet than the
	// previous busy tick.
	PacketSwitches int
	BitsPerFlow    map[int]int64 // flow ID → bits sent
}

// Utilization returns the fraction of ticks in which a bit was sent.
func (s *TraceSummary) Utilization() float64 {
	if s.TotalTicks == 0 {
		return 0
	}
	return float64(s.BusyTicks) / float64(s.TotalTicks)
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		BitsPerFlow: make(map[int]int64),
	}
	if st == nil {
		return summary
	}

	summary.TotalTicks = len(st.Ticks)
	lastPacket := 0
	for _, t := range st.Ticks {
		if t.Idle {
			summary.IdleTicks++
			continue
		}
		summary.BusyTicks++
		summary.BitsPerFlow[t.FlowID]++
		if lastPacket != 0 && t.PacketID != lastPacket {
			summary.PacketSwitches++
		}
		lastPacket = t.PacketID
		if t.Completed {
			summary.CompletedPackets++
		}
	}
	return summary
}
