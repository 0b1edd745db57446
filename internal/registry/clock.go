package registry

import "time"

// base anchors the monotonic clock used by heartbeat timestamps. Slots store
// nanoseconds since base rather than wall-clock time so that system clock
// adjustments cannot fake or hide staleness.
var base = time.Now()

// NowNanos returns the current monotonic reading in nanoseconds.
//
// The monitor uses the same clock when computing idle durations, so a slot's
// last-progress value and a scan's "now" are always directly comparable.
func NowNanos() int64 {
	return int64(time.Since(base))
}
