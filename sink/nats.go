package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/stallkit/stallwatch/types"
)

// NATS publishes detection events as JSON messages on a subject, letting a
// fleet ship stall reports to central collection. Publishing goes through
// the client's async buffer, so OnDetect does not wait on the wire.
type NATS struct {
	conn    *nats.Conn
	subject string
}

// Compile-time assertion that NATS implements EventSink.
var _ types.EventSink = (*NATS)(nil)

// natsEvent is the wire form of a DetectionEvent. The stack travels as a
// string for readability by non-Go consumers; durations are nanoseconds.
type natsEvent struct {
	WorkerID         types.WorkerID `json:"workerId"`
	BlockedForNanos  int64          `json:"blockedForNanos"`
	Generation       uint64         `json:"generation"`
	Stack            string         `json:"stack,omitempty"`
	StackFingerprint uint64         `json:"stackFingerprint"`
	DetectedAt       time.Time      `json:"detectedAt"`
	ReReport         bool           `json:"reReport"`
}

// NewNATS creates a NATS sink.
//
// Parameters:
//   - conn: NATS connection
//   - subject: Subject to publish events on (e.g. "stallwatch.events")
//
// Returns:
//   - *NATS: A new NATS sink
//   - error: Error when conn is nil or subject is empty
func NewNATS(conn *nats.Conn, subject string) (*NATS, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	return &NATS{conn: conn, subject: subject}, nil
}

// OnDetect marshals and publishes the event.
func (n *NATS) OnDetect(_ context.Context, ev types.DetectionEvent) error {
	payload, err := json.Marshal(natsEvent{
		WorkerID:         ev.WorkerID,
		BlockedForNanos:  ev.BlockedFor.Nanoseconds(),
		Generation:       ev.Generation,
		Stack:            string(ev.Stack),
		StackFingerprint: ev.StackFingerprint,
		DetectedAt:       ev.DetectedAt,
		ReReport:         ev.ReReport,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal detection event: %w", err)
	}

	if err := n.conn.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("failed to publish detection event: %w", err)
	}

	return nil
}
