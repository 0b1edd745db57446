package monitor

import (
	"time"

	"github.com/stallkit/stallwatch/types"
)

// episode is the per-worker classification record.
//
// Created implicitly at Healthy when the monitor first sees a registered
// worker, mutated only by the monitor goroutine, and discarded without a
// terminal event when the worker deregisters.
type episode struct {
	state types.EpisodeState

	// suspectGen is the generation observed when Suspected was entered.
	// A generation advance past it means the worker made progress.
	suspectGen  uint64
	suspectedAt time.Time
	reportedAt  time.Time

	// captured/capturedGen record the last generation a capture was
	// attempted for, so one episode never triggers two captures. captured
	// distinguishes "never attempted" from generation zero.
	captured    bool
	capturedGen uint64
}

// shouldSuspect reports whether a Healthy worker with the given idle time and
// generation should enter Suspected.
func (e *episode) shouldSuspect(idle, threshold time.Duration, gen uint64) bool {
	if idle < threshold {
		return false
	}

	return !e.captured || e.capturedGen != gen
}

// recovered reports whether a Reported worker has resumed progress: its
// generation advanced, or its idle time dropped back below the threshold on
// a later scan (covers a worker that was merely slow, not truly stuck).
func (e *episode) recovered(idle, threshold time.Duration, gen uint64) bool {
	return gen != e.suspectGen || idle < threshold
}

// dueForReReport reports whether an ongoing Reported stall should start a new
// report cycle. Disabled when interval is zero.
func (e *episode) dueForReReport(now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}

	return now.Sub(e.reportedAt) >= interval
}
