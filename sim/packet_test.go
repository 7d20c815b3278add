package sim

import (
	"strings"
	"testing"
)

func TestNewPacket_StartsUnsent(t *testing.T) {
	p := NewPacket(4, 1, 12, 7)
	if p.RemainingSize != p.OriginalSize || p.RemainingSize != 12 {
		t.Errorf("remaining = %d, original = %d, want both 12", p.RemainingSize, p.OriginalSize)
	}
	if p.Completed {
		t.Error("new packet must not be completed")
	}
	if !strings.Contains(p.String(), "ID: 4") {
		t.Errorf("String() = %q, want it to mention the id", p.String())
	}
}

func TestPacket_Latency(t *testing.T) {
	p := NewPacket(1, 0, 3, 5)
	p.CompletionTime = 11
	if got := p.Latency(); got != 6 {
		t.Errorf("Latency() = %d, want 6", got)
	}
}

func TestParsedInput_Validate_DuplicateIDs(t *testing.T) {
	in := &ParsedInput{NumFlows: 1, Packets: []Packet{NewPacket(1, 0, 1, 0), NewPacket(1, 0, 1, 0)}}
	if err := in.Validate(); err == nil {
		t.Error("expected error for duplicate ids")
	}
}

func TestParsedInput_Validate_PartiallySent(t *testing.T) {
	p := NewPacket(1, 0, 4, 0)
	p.RemainingSize = 2
	in := &ParsedInput{NumFlows: 1, Packets: []Packet{p}}
	if err := in.Validate(); err == nil {
		t.Error("expected error for partially sent packet")
	}
}

func TestParsedInput_TotalBits(t *testing.T) {
	in := newInput(2, pkt{0, 3, 0}, pkt{1, 5, 1})
	if got := in.TotalBits(); got != 8 {
		t.Errorf("TotalBits() = %d, want 8", got)
	}
}
