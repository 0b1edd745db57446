package sink

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stallkit/stallwatch/types"
)

// recordLogger captures warn-level log calls for assertions.
type recordLogger struct {
	mu     sync.Mutex
	warns  []string
	fields [][]any
}

func (r *recordLogger) Debug(string, ...any) {}
func (r *recordLogger) Info(string, ...any)  {}
func (r *recordLogger) Error(string, ...any) {}
func (r *recordLogger) Fatal(string, ...any) {}

func (r *recordLogger) Warn(msg string, keysAndValues ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
	r.fields = append(r.fields, keysAndValues)
}

var _ types.Logger = (*recordLogger)(nil)

func fieldValue(fields []any, key string) (any, bool) {
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i] == key {
			return fields[i+1], true
		}
	}

	return nil, false
}

func TestLogSink(t *testing.T) {
	t.Run("logs event with stack", func(t *testing.T) {
		rec := &recordLogger{}
		s := NewLog(rec)

		ev := types.DetectionEvent{
			WorkerID:         42,
			BlockedFor:       150 * time.Millisecond,
			Generation:       9,
			Stack:            []byte("goroutine 7 [chan receive]:\nmain.worker()"),
			StackFingerprint: 0xdeadbeef,
			DetectedAt:       time.Now(),
		}
		require.NoError(t, s.OnDetect(context.Background(), ev))

		require.Len(t, rec.warns, 1)
		require.Equal(t, "worker blocked", rec.warns[0])

		stack, ok := fieldValue(rec.fields[0], "stack")
		require.True(t, ok)
		require.Contains(t, stack.(string), "main.worker")

		fp, ok := fieldValue(rec.fields[0], "stack_fingerprint")
		require.True(t, ok)
		require.Equal(t, uint64(0xdeadbeef), fp)
	})

	t.Run("marks unavailable capture", func(t *testing.T) {
		rec := &recordLogger{}
		s := NewLog(rec)

		ev := types.DetectionEvent{WorkerID: 42, BlockedFor: 150 * time.Millisecond}
		require.NoError(t, s.OnDetect(context.Background(), ev))

		require.Len(t, rec.warns, 1)
		stack, ok := fieldValue(rec.fields[0], "stack")
		require.True(t, ok)
		require.Equal(t, "<capture unavailable>", stack)

		_, ok = fieldValue(rec.fields[0], "stack_fingerprint")
		require.False(t, ok, "no fingerprint without a stack")
	})
}
