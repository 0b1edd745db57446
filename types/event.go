package types

import (
	"context"
	"time"
)

// WorkerID is an opaque, process-unique identifier for a monitored worker
// goroutine. IDs are allocated from a monotonic counter at registration and
// are never reused, even after the worker deregisters.
type WorkerID uint64

// DetectionEvent is emitted when a worker transitions to Reported.
//
// The event is an immutable value: the stack bytes are copied out of the
// worker's capture buffer before emission, and the detector holds no
// reference to the event afterwards. Ownership passes to the sinks.
type DetectionEvent struct {
	// WorkerID identifies the blocked worker.
	WorkerID WorkerID `json:"workerId"`

	// BlockedFor is the elapsed time since the worker's last heartbeat,
	// measured at classification time.
	BlockedFor time.Duration `json:"blockedFor"`

	// Generation is the worker's heartbeat generation at detection time.
	// An unchanged generation across scans confirms the worker made no
	// progress during the episode.
	Generation uint64 `json:"generation"`

	// Stack holds the captured goroutine stack, or nil when the capture
	// timed out or the worker goroutine could not be found.
	Stack []byte `json:"stack,omitempty"`

	// StackFingerprint is an xxh3 hash of Stack, 0 when Stack is nil.
	// Useful for deduplicating repeated reports of the same stall site.
	StackFingerprint uint64 `json:"stackFingerprint"`

	// DetectedAt is the wall-clock time the event was produced.
	DetectedAt time.Time `json:"detectedAt"`

	// ReReport is true when the event re-surfaces an ongoing stall that was
	// already reported, driven by the configured re-report interval.
	ReReport bool `json:"reReport"`
}

// CaptureOK reports whether the event carries a captured stack.
func (e *DetectionEvent) CaptureOK() bool {
	return len(e.Stack) > 0
}

// EventSink consumes detection events.
//
// OnDetect is invoked from the monitor goroutine and must not block it for
// long; sinks that perform slow I/O should enqueue and return, consuming the
// event on their own goroutine. Sink errors and panics are isolated per sink
// and logged, never propagated to the monitor loop.
type EventSink interface {
	// OnDetect consumes a detection event.
	//
	// Parameters:
	//   - ctx: Monitor lifecycle context, cancelled on detector shutdown
	//   - ev: The detection event; the sink takes ownership
	//
	// Returns:
	//   - error: Non-nil errors are logged by the monitor and otherwise ignored
	OnDetect(ctx context.Context, ev DetectionEvent) error
}
