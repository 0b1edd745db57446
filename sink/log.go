package sink

import (
	"context"

	"github.com/stallkit/stallwatch/types"
)

// Log emits each detection event as a structured warning log line,
// including the captured stack when available.
type Log struct {
	logger types.Logger
}

// Compile-time assertion that Log implements EventSink.
var _ types.EventSink = (*Log)(nil)

// NewLog creates a logging sink.
//
// Parameters:
//   - logger: Destination logger
//
// Returns:
//   - *Log: A new logging sink
func NewLog(logger types.Logger) *Log {
	return &Log{logger: logger}
}

// OnDetect logs the event.
func (l *Log) OnDetect(_ context.Context, ev types.DetectionEvent) error {
	fields := []any{
		"worker_id", ev.WorkerID,
		"blocked_for", ev.BlockedFor,
		"generation", ev.Generation,
		"re_report", ev.ReReport,
	}

	if ev.CaptureOK() {
		fields = append(fields,
			"stack_fingerprint", ev.StackFingerprint,
			"stack", string(ev.Stack),
		)
	} else {
		fields = append(fields, "stack", "<capture unavailable>")
	}

	l.logger.Warn("worker blocked", fields...)

	return nil
}
