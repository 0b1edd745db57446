// Package capture obtains out-of-band stack traces of suspected workers.
//
// The platform mechanism is Go's runtime all-goroutine dump: a dedicated
// captor goroutine serializes capture requests, writes runtime.Stack output
// into a preallocated dump buffer, extracts the target goroutine's section
// by the goroutine id recorded at registration, and publishes the result
// into the worker slot's own preallocated buffer together with a completion
// sequence. The monitor waits a bounded time for completion and proceeds
// with a "capture unavailable" marker otherwise; sequence numbers guard
// against attributing a late capture to the wrong episode.
//
// The package also owns the process-wide dump-signal claim gate: at most one
// detector per process may reserve an OS signal for on-demand stack dumps.
package capture
