package trace

// TickRecord captures what the link did during one tick.
type TickRecord struct {
	Clock     int64
	PacketID  int   // packet that received the bit; 0 when Idle
	FlowID    int   // flow of that packet
	Remaining int64 // bits left after this tick
	Completed bool  // the bit was the packet's last
	Idle      bool  // no bit was sent this tick
}
