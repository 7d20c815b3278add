// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/linksim/linksim/sim/trace"
)

// Simulator is the core object that holds simulation time, the packet sets and the strategy.
// Time advances one tick per Step; at most one bit of one packet is sent per tick.
type Simulator struct {
	clock    int64
	numFlows int

	// packets is the arena every packet lives in for the whole run, in arrival order.
	// Pending, active and completed refer to packets by arena slot only.
	packets []Packet
	// nextArrival is the first pending slot; packets[nextArrival:] have not arrived yet.
	nextArrival int
	// active is the queue of arrived packets that still have bits to send.
	active *ActiveQueue
	// completed holds arena slots in completion order.
	completed []int

	strategy *Strategy
	trace    *trace.SimulationTrace

	// selectNext is strategy.SelectNext; tests swap it to exercise the invariant guard.
	selectNext func(QueueView) (PacketID, bool)

	// violations counts ticks where the strategy returned an id that was not queued.
	violations int
}

// NewSimulator takes ownership of a copy of input and prepares a run with the given strategy.
func NewSimulator(input *ParsedInput, strategy *Strategy) (*Simulator, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strategy == nil {
		return nil, fmt.Errorf("strategy must not be nil")
	}
	if strategy.NumFlows() != input.NumFlows {
		return nil, fmt.Errorf("strategy built for %d flows, input has %d", strategy.NumFlows(), input.NumFlows)
	}
	arena := make([]Packet, len(input.Packets))
	copy(arena, input.Packets)
	return &Simulator{
		numFlows:   input.NumFlows,
		packets:    arena,
		active:     NewActiveQueue(arena, input.NumFlows),
		completed:  make([]int, 0, len(arena)),
		strategy:   strategy,
		selectNext: strategy.SelectNext,
	}, nil
}

// SetTrace attaches a decision trace. A nil trace or level "none" disables recording.
func (sim *Simulator) SetTrace(st *trace.SimulationTrace) {
	if st != nil && !st.Enabled() {
		st = nil
	}
	sim.trace = st
}

// Clock returns the current tick.
func (sim *Simulator) Clock() int64 { return sim.clock }

// NumFlows returns the number of flows in the input.
func (sim *Simulator) NumFlows() int { return sim.numFlows }

// StrategyName returns the canonical name of the owned strategy.
func (sim *Simulator) StrategyName() string { return sim.strategy.Name() }

// StrategyState returns the strategy's diagnostic state.
func (sim *Simulator) StrategyState() map[string]string { return sim.strategy.DisplayState() }

// Violations returns how many ticks were lost to a strategy selecting an unknown packet.
func (sim *Simulator) Violations() int { return sim.violations }

// Finished is true once nothing is pending and the active queue is empty.
func (sim *Simulator) Finished() bool {
	return sim.nextArrival == len(sim.packets) && sim.active.Len() == 0
}

// Step advances the simulation by exactly one tick.
func (sim *Simulator) Step() {
	if sim.Finished() {
		logrus.Warnf("[tick %07d] Tried to step but simulation finished", sim.clock)
		return
	}

	// pending is sorted by arrival, so arrivals are always a prefix
	for sim.nextArrival < len(sim.packets) && sim.packets[sim.nextArrival].ArrivalTime == sim.clock {
		sim.active.Enqueue(sim.nextArrival)
		sim.nextArrival++
	}

	id, ok := sim.selectNext(sim.active)
	if !ok {
		sim.recordIdle()
		sim.clock++
		return
	}

	slot, queued := sim.active.Slot(id)
	if !queued {
		logrus.Errorf("[tick %07d] Strategy %s selected packet %d which is not in queue", sim.clock, sim.strategy.Name(), id)
		sim.violations++
		sim.recordIdle()
		sim.clock++
		return
	}

	p := &sim.packets[slot]
	p.RemainingSize--
	if p.RemainingSize == 0 {
		sim.active.Remove(id)
		p.CompletionTime = sim.clock
		p.Completed = true
		sim.completed = append(sim.completed, slot)
		logrus.Debugf("[tick %07d] Packet %d of flow %d fully sent", sim.clock, p.ID, p.FlowID)
	}
	if sim.trace != nil {
		sim.trace.RecordTick(trace.TickRecord{
			Clock:     sim.clock,
			PacketID:  int(p.ID),
			FlowID:    p.FlowID,
			Remaining: p.RemainingSize,
			Completed: p.Completed,
		})
	}
	sim.clock++
}

func (sim *Simulator) recordIdle() {
	if sim.trace != nil {
		sim.trace.RecordTick(trace.TickRecord{Clock: sim.clock, Idle: true})
	}
}

// Run steps until the simulation finishes or the clock reaches horizon.
// A non-positive horizon means no limit. Returns the number of ticks simulated.
func (sim *Simulator) Run(horizon int64) int64 {
	start := sim.clock
	for !sim.Finished() {
		if horizon > 0 && sim.clock >= horizon {
			logrus.Infof("[tick %07d] Horizon reached with %d packets queued", sim.clock, sim.active.Len())
			break
		}
		sim.Step()
	}
	logrus.Infof("[tick %07d] Simulation ended", sim.clock)
	return sim.clock - start
}

// StateSnapshot is an immutable copy of the simulator state for observers.
type StateSnapshot struct {
	Clock         int64
	NumFlows      int
	Finished      bool
	Pending       []Packet // not yet arrived, in arrival order
	Active        []Packet // queued, in insertion order
	Completed     []Packet // fully sent, in completion order
	StrategyName  string
	StrategyState map[string]string
}

// Snapshot copies the current state. Mutating the result never affects the Simulator.
func (sim *Simulator) Snapshot() StateSnapshot {
	pending := make([]Packet, len(sim.packets)-sim.nextArrival)
	copy(pending, sim.packets[sim.nextArrival:])
	return StateSnapshot{
		Clock:         sim.clock,
		NumFlows:      sim.numFlows,
		Finished:      sim.Finished(),
		Pending:       pending,
		Active:        sim.active.Items(),
		Completed:     sim.completedPackets(),
		StrategyName:  sim.strategy.Name(),
		StrategyState: sim.strategy.DisplayState(),
	}
}

func (sim *Simulator) completedPackets() []Packet {
	out := make([]Packet, len(sim.completed))
	for i, slot := range sim.completed {
		out[i] = sim.packets[slot]
	}
	return out
}

// Throughput reports completed bits per elapsed tick, overall and per flow.
func (sim *Simulator) Throughput() Throughput {
	return ComputeThroughput(sim.completedPackets(), sim.clock)
}

// LatencyStats reports latency mean and variance over completed packets.
func (sim *Simulator) LatencyStats() LatencyReport {
	return ComputeLatency(sim.completedPackets())
}
