package taskrt

import "sync/atomic"

// RuntimeStats is a snapshot of a runtime's task lifecycle counters,
// directly supporting the "spawn/terminate balance" invariant
// (Spawned == Completed + currently-alive) without requiring callers or
// tests to reach into unexported state.
type RuntimeStats struct {
	Spawned   uint64
	Completed uint64
	Parked    uint64
}

// schedCounters holds the atomics a runtime increments at the points it
// already transitions task state; Stats() just snapshots them.
type schedCounters struct {
	spawned   atomic.Uint64
	completed atomic.Uint64
	parked    atomic.Uint64
}

func (c *schedCounters) onSpawn() { c.spawned.Add(1) }

func (c *schedCounters) onPark() { c.parked.Add(1) }

func (c *schedCounters) onUnpark() { c.parked.Add(^uint64(0)) }

func (c *schedCounters) onComplete() { c.completed.Add(1) }

func (c *schedCounters) snapshot() RuntimeStats {
	return RuntimeStats{
		Spawned:   c.spawned.Load(),
		Completed: c.completed.Load(),
		Parked:    c.parked.Load(),
	}
}
