// Package sink provides ready-made DetectionEvent consumers.
//
// All sinks honor the EventSink contract: OnDetect runs on the monitor
// goroutine and returns quickly. The Channel sink hands events to a
// consumer goroutine and drops on overflow; the NATS sink relies on the
// client's buffered async publish; the Log sink writes one structured log
// line per event.
package sink
