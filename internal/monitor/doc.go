// Package monitor runs the detection loop over the heartbeat registry.
//
// A single goroutine wakes on a fixed interval, scans every worker slot,
// and drives the per-worker episode state machine (Healthy, Suspected,
// Reported). Detection must originate from this independent observer: a
// blocked worker by definition cannot raise an event about itself.
//
// Episodes are private to the monitor goroutine; no other component reads
// or writes them, so the classification path needs no locking.
package monitor
