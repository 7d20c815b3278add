// Defines the Packet struct that models a single transmissible unit on the link.
// Tracks arrival, remaining bits and completion time.

package sim

import (
	"fmt"
)

// PacketID identifies a packet for the whole run. IDs are 1-based and follow input order.
type PacketID int

// Packet models a packet's lifecycle on the link.
// Each packet has:
// - a flow it belongs to
// - an original size in bits (immutable, used for throughput)
// - a remaining size that drops by one bit per tick of service
// - arrival and completion timestamps in ticks
type Packet struct {
	ID     PacketID // Unique identifier, assigned at parse time
	FlowID int      // Flow this packet belongs to, in [0, NumFlows)

	OriginalSize  int64 // Size in bits as given in the input
	RemainingSize int64 // Bits still to be sent; 0 once fully transmitted

	ArrivalTime    int64 // Tick at which the packet becomes eligible for the active queue
	CompletionTime int64 // Tick at which the last bit was sent; only meaningful if Completed
	Completed      bool  // Set exactly once, when RemainingSize reaches 0

	// Meta is a strategy-private annotation slot. The built-in strategies leave it nil.
	Meta any
}

// NewPacket returns a packet that has not been served yet.
func NewPacket(id PacketID, flowID int, size int64, arrival int64) Packet {
	return Packet{
		ID:            id,
		FlowID:        flowID,
		OriginalSize:  size,
		RemainingSize: size,
		ArrivalTime:   arrival,
	}
}

// Latency returns completion minus arrival time. Only valid for completed packets.
func (p Packet) Latency() int64 {
	return p.CompletionTime - p.ArrivalTime
}

// This method returns a human-readable string representation of a Packet.
func (p Packet) String() string {
	return fmt.Sprintf("Packet: (ID: %d, Flow: %d, Size: %d/%d, ArrivalTime: %d)",
		p.ID, p.FlowID, p.RemainingSize, p.OriginalSize, p.ArrivalTime)
}

// ParsedInput is the validated input document handed to the Simulator.
// Packets are sorted ascending by ArrivalTime, ties kept in input order.
type ParsedInput struct {
	NumFlows int
	Packets  []Packet
}

// TotalBits sums the original size of every packet in the input.
func (in *ParsedInput) TotalBits() int64 {
	var total int64
	for _, p := range in.Packets {
		total += p.OriginalSize
	}
	return total
}

// Validate checks the invariants the Simulator relies on.
func (in *ParsedInput) Validate() error {
	if in == nil {
		return fmt.Errorf("input must not be nil")
	}
	if in.NumFlows <= 0 {
		return fmt.Errorf("number of flows must be positive, got %d", in.NumFlows)
	}
	seen := make(map[PacketID]bool, len(in.Packets))
	var lastArrival int64
	for i, p := range in.Packets {
		if seen[p.ID] {
			return fmt.Errorf("duplicate packet id %d", p.ID)
		}
		seen[p.ID] = true
		if p.FlowID < 0 || p.FlowID >= in.NumFlows {
			return fmt.Errorf("packet %d: flow %d out of range [0, %d)", p.ID, p.FlowID, in.NumFlows)
		}
		if p.OriginalSize <= 0 {
			return fmt.Errorf("packet %d: size must be positive, got %d", p.ID, p.OriginalSize)
		}
		if p.RemainingSize != p.OriginalSize || p.Completed {
			return fmt.Errorf("packet %d: already partially transmitted", p.ID)
		}
		if p.ArrivalTime < 0 {
			return fmt.Errorf("packet %d: negative arrival time %d", p.ID, p.ArrivalTime)
		}
		if i > 0 && p.ArrivalTime < lastArrival {
			return fmt.Errorf("packet %d: arrivals not sorted (%d after %d)", p.ID, p.ArrivalTime, lastArrival)
		}
		lastArrival = p.ArrivalTime
	}
	return nil
}
