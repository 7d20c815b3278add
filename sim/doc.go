// Package sim provides the core tick-driven simulation engine for a shared, bit-serial link.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - packet.go: Packet lifecycle (pending → active → completed)
//   - strategy.go: the four scheduling disciplines (FIFO, GPS, RR, DRR)
//   - simulator.go: the tick loop that moves packets and sends one bit per tick
//
// # Architecture
//
// The sim package holds the engine, the active queue and the statistics; helpers live
// in sub-packages:
//   - sim/workload/: input document parsing and synthetic traffic generation
//   - sim/trace/: per-tick decision trace recording
//
// # Strategies
//
// Strategy is a closed tagged variant rather than an interface: the set of disciplines
// is fixed and each variant's private state travels inside the one struct. A Simulator
// owns its Strategy; nothing else may call SelectNext during a run.
//
// # Ownership
//
// Packets live in a single arena owned by the Simulator. The pending, active and
// completed sets refer to arena slots, and observers only ever receive copies through
// Snapshot, Throughput and LatencyStats.
package sim
