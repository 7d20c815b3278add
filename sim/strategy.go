package sim

import (
	"fmt"
	"strconv"
)

// StrategyKind tags the scheduling discipline a Strategy implements.
// The set is closed: every dispatch site switches over all four kinds.
type StrategyKind int

const (
	StrategyFIFO StrategyKind = iota // serve the earliest-queued packet to completion
	StrategyGPS                      // one bit per backlogged flow, round robin
	StrategyRR                       // packet-level round robin across flows
	StrategyDRR                      // bit-granular deficit round robin
)

// strategyNames lists canonical names in kind order.
var strategyNames = []string{"fifo", "gps", "rr", "drr"}

// ValidStrategies is the set of recognized strategy names.
// Empty string defaults to fifo (for CLI flag default compatibility).
var ValidStrategies = map[string]bool{"": true, "fifo": true, "gps": true, "rr": true, "drr": true}

// IsValidStrategy returns true if name is a recognized strategy name.
func IsValidStrategy(name string) bool {
	return ValidStrategies[name]
}

// StrategyNames returns the canonical strategy names in a stable order.
func StrategyNames() []string {
	return append([]string(nil), strategyNames...)
}

func (k StrategyKind) String() string {
	if k < 0 || int(k) >= len(strategyNames) {
		return fmt.Sprintf("StrategyKind(%d)", int(k))
	}
	return strategyNames[k]
}

// Strategy decides, once per tick, which queued packet receives the next bit.
// It carries the private state of its variant across ticks; only the Simulator
// that owns it may call SelectNext.
type Strategy struct {
	kind     StrategyKind
	numFlows int

	currentFlow   int      // GPS, RR, DRR: flow the next scan starts at
	currentPacket PacketID // RR, DRR: packet being drained
	hasCurrent    bool
	deficit       []int64 // DRR: accrued credit in bits, per flow
}

// NewStrategy creates a Strategy by name for numFlows flows.
// Valid names: "fifo" (default), "gps", "rr", "drr".
// Panics on unrecognized names or a non-positive flow count.
func NewStrategy(name string, numFlows int) *Strategy {
	if !IsValidStrategy(name) {
		panic(fmt.Sprintf("unknown strategy %q", name))
	}
	if numFlows <= 0 {
		panic(fmt.Sprintf("NewStrategy: numFlows must be positive, got %d", numFlows))
	}
	s := &Strategy{numFlows: numFlows}
	switch name {
	case "", "fifo":
		s.kind = StrategyFIFO
	case "gps":
		s.kind = StrategyGPS
	case "rr":
		s.kind = StrategyRR
	case "drr":
		s.kind = StrategyDRR
		s.deficit = make([]int64, numFlows)
	default:
		panic(fmt.Sprintf("unhandled strategy %q", name))
	}
	return s
}

// Kind returns the variant tag.
func (s *Strategy) Kind() StrategyKind { return s.kind }

// Name returns the canonical strategy name.
func (s *Strategy) Name() string { return s.kind.String() }

// NumFlows returns the flow count the strategy was built for.
func (s *Strategy) NumFlows() int { return s.numFlows }

// SelectNext returns the id of the packet that receives one bit this tick,
// or false when the queue is empty. The returned id is always present in q.
func (s *Strategy) SelectNext(q QueueView) (PacketID, bool) {
	if q.Len() == 0 {
		return 0, false
	}
	switch s.kind {
	case StrategyFIFO:
		head, ok := q.Head()
		return head.ID, ok
	case StrategyGPS:
		return s.scanRoundRobin(q)
	case StrategyRR:
		if s.hasCurrent && q.Contains(s.currentPacket) {
			return s.currentPacket, true
		}
		id, ok := s.scanRoundRobin(q)
		s.currentPacket, s.hasCurrent = id, ok
		return id, ok
	case StrategyDRR:
		if s.hasCurrent && q.Contains(s.currentPacket) {
			return s.currentPacket, true
		}
		id, ok := s.scanDeficit(q)
		s.currentPacket, s.hasCurrent = id, ok
		return id, ok
	default:
		panic(fmt.Sprintf("unhandled strategy kind %d", s.kind))
	}
}

// scanRoundRobin walks flows from currentFlow and returns the head packet of the
// first flow with data. currentFlow advances on every step, including the match.
func (s *Strategy) scanRoundRobin(q QueueView) (PacketID, bool) {
	for i := 0; i < s.numFlows; i++ {
		flow := s.currentFlow
		s.currentFlow = (s.currentFlow + 1) % s.numFlows
		if head, ok := q.HeadOfFlow(flow); ok {
			return head.ID, true
		}
	}
	return 0, false
}

// scanDeficit implements the bit-granular DRR scan. Each visit to a backlogged flow
// accrues one bit of credit; a visit to an empty flow resets its credit to zero.
// A head packet is taken once its remaining size fits the credit, which is then
// charged, and currentFlow stays on that flow.
func (s *Strategy) scanDeficit(q QueueView) (PacketID, bool) {
	idle := 0
	for idle < s.numFlows {
		flow := s.currentFlow
		head, ok := q.HeadOfFlow(flow)
		if ok {
			idle = 0
			s.deficit[flow]++
			if head.RemainingSize <= s.deficit[flow] {
				s.deficit[flow] -= head.RemainingSize
				return head.ID, true
			}
		} else {
			idle++
			s.deficit[flow] = 0
		}
		s.currentFlow = (s.currentFlow + 1) % s.numFlows
	}
	return 0, false
}

// DisplayState reports the strategy's scheduling state for diagnostics.
// It has no effect on simulation outcome.
func (s *Strategy) DisplayState() map[string]string {
	state := map[string]string{"strategy": s.Name()}
	switch s.kind {
	case StrategyFIFO:
	case StrategyGPS:
		state["current_flow"] = strconv.Itoa(s.currentFlow)
	case StrategyRR, StrategyDRR:
		state["current_flow"] = strconv.Itoa(s.currentFlow)
		state["current_packet"] = "-"
		if s.hasCurrent {
			state["current_packet"] = strconv.Itoa(int(s.currentPacket))
		}
		if s.kind == StrategyDRR {
			state["deficit"] = fmt.Sprint(s.deficit)
		}
	default:
		panic(fmt.Sprintf("unhandled strategy kind %d", s.kind))
	}
	return state
}
