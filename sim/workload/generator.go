package workload

import (
	"fmt"
	"sort"

	"github.com/linksim/linksim/sim"
)

type generatedPacket struct {
	flow    int
	size    int64
	arrival int64
}

// GeneratePackets creates an input document from a WorkloadSpec.
// Deterministic given the same spec and seed. Packets are sorted by arrival
// time, then flow, and carry sequential ids in that order, so writing the result
// with FormatInput and parsing it back yields the same packets.
func GeneratePackets(spec *WorkloadSpec) (*sim.ParsedInput, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed))

	var all []generatedPacket
	for i := range spec.Flows {
		flow := &spec.Flows[i]
		flowRNG := rng.ForSubsystem(sim.SubsystemFlow(flow.FlowID))

		arrivals := NewArrivalSampler(flow.Arrival, flow.Rate)
		sizes, err := NewSizeSampler(flow.Size)
		if err != nil {
			return nil, fmt.Errorf("flow %d size distribution: %w", flow.FlowID, err)
		}

		// first arrival at tick 0 so every flow is backlogged from the start
		for t := int64(0); t < spec.Horizon; t += arrivals.SampleIAT(flowRNG) {
			all = append(all, generatedPacket{flow: flow.FlowID, size: sizes.Sample(flowRNG), arrival: t})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].arrival != all[j].arrival {
			return all[i].arrival < all[j].arrival
		}
		return all[i].flow < all[j].flow
	})
	if spec.NumPackets > 0 && len(all) > spec.NumPackets {
		all = all[:spec.NumPackets]
	}

	in := &sim.ParsedInput{NumFlows: spec.NumFlows, Packets: make([]sim.Packet, len(all))}
	for i, g := range all {
		in.Packets[i] = sim.NewPacket(sim.PacketID(i+1), g.flow, g.size, g.arrival)
	}
	return in, nil
}
