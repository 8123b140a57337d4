// Package engine is the measurement and timing core of launchtimer.
//
// Responsibilities: smoothing raw GPS speed, accumulating traveled
// distance, driving the arm/launch state machine, recording 0→X splits,
// and emitting an immutable Snapshot per accepted fix.
// Key types: Engine, Sample, Snapshot, Config.
//
// The engine performs no I/O and starts no goroutines. Acquiring fixes and
// rendering snapshots belong to the caller.
package engine
