package sim

import (
	"testing"
)

// pkt is a compact packet literal for tests: flow, size, arrival.
type pkt struct {
	flow    int
	size    int64
	arrival int64
}

// newInput builds a sorted ParsedInput with ids assigned in argument order.
// Arrivals must already be non-decreasing.
func newInput(numFlows int, pkts ...pkt) *ParsedInput {
	in := &ParsedInput{NumFlows: numFlows, Packets: make([]Packet, len(pkts))}
	for i, p := range pkts {
		in.Packets[i] = NewPacket(PacketID(i+1), p.flow, p.size, p.arrival)
	}
	return in
}

// newTestSimulator builds a Simulator or fails the test.
func newTestSimulator(t *testing.T, strategy string, in *ParsedInput) *Simulator {
	t.Helper()
	s, err := NewSimulator(in, NewStrategy(strategy, in.NumFlows))
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return s
}

// runToEnd steps until finished, failing if it takes more than limit ticks.
func runToEnd(t *testing.T, s *Simulator, limit int) {
	t.Helper()
	for i := 0; !s.Finished(); i++ {
		if i >= limit {
			t.Fatalf("simulation did not finish within %d ticks", limit)
		}
		s.Step()
	}
}

// completionTimes maps packet id to completion tick for all completed packets.
func completionTimes(s *Simulator) map[PacketID]int64 {
	out := make(map[PacketID]int64)
	for _, p := range s.Snapshot().Completed {
		out[p.ID] = p.CompletionTime
	}
	return out
}

func completionOrder(s *Simulator) []PacketID {
	var ids []PacketID
	for _, p := range s.Snapshot().Completed {
		ids = append(ids, p.ID)
	}
	return ids
}
