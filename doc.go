// Package stallwatch provides a blocked-worker detector for multi-goroutine
// cooperative task runtimes.
//
// A host runtime registers its worker goroutines with the detector and
// heartbeats them around every unit of scheduled work. A dedicated monitor
// goroutine samples those heartbeats on a fixed interval; a worker that
// stops making progress past a configurable threshold gets its stack
// captured out-of-band and a DetectionEvent emitted to pluggable sinks.
// The heartbeat path is lock-free (one atomic store plus one atomic
// increment), so the detector runs continuously in production with
// negligible steady-state overhead.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/stallkit/stallwatch"
//	    "github.com/stallkit/stallwatch/sink"
//	)
//
//	cfg := stallwatch.DefaultConfig()
//	events := sink.NewChannel(128)
//
//	det, err := stallwatch.New(&cfg, stallwatch.WithSinks(events))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := det.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer det.Stop()
//
//	// In each worker goroutine:
//	id := det.Register()
//	defer det.Deregister(id)
//	for work := range queue {
//	    det.BeforePoll(id)
//	    work.Run()
//	    det.AfterPoll(id)
//	}
//
// # Key Features
//
//   - Lock-free heartbeats: workers never contend with the monitor
//   - Episode state machine: exactly one event per blocking episode, with
//     optional periodic re-reporting of long-lived stalls
//   - Out-of-band stack capture: preallocated buffers, bounded waits,
//     sequence-guarded against misattribution
//   - Pluggable sinks: log, channel, and NATS implementations included
//   - On-demand dumps: reserve an OS signal to snapshot every worker's stack
//
// # Architecture
//
// Each monitored worker cycles through an episode state machine:
//
//	Healthy → Suspected → Reported → Healthy
//
// The monitor classifies every worker independently per scan, so concurrent
// stalls produce independent events with correct attribution. Deregistering
// a worker mid-episode discards the episode without an event.
//
// The host runtime's side of the contract: register/deregister around each
// worker's lifetime, and heartbeat on every forward-progress event including
// idle/park transitions. Workers that are legitimately idle and unscheduled
// should not be registered, or should be heartbeated on an idle-loop cadence.
//
// See the examples/ directory for complete working examples.
package stallwatch
