package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stallkit/stallwatch/internal/logger"
	"github.com/stallkit/stallwatch/internal/metrics"
	"github.com/stallkit/stallwatch/internal/registry"
	"github.com/stallkit/stallwatch/types"
)

func newTestCaptor(t *testing.T) *Captor {
	t.Helper()

	c := New(1<<20, logger.NewTest(t), metrics.NewNop())
	require.NoError(t, c.Start())
	t.Cleanup(c.Stop)

	return c
}

// startPinnedWorker launches a goroutine that registers itself and parks in
// a recognizable function until release is closed.
func startPinnedWorker(t *testing.T, reg *registry.Registry) (*registry.Slot, chan struct{}) {
	t.Helper()

	slotCh := make(chan *registry.Slot, 1)
	release := make(chan struct{})

	go func() {
		slotCh <- reg.Register(CurrentGID())
		parkUntilReleased(release)
	}()

	slot := <-slotCh
	t.Cleanup(func() { close(release) })

	return slot, release
}

func parkUntilReleased(release chan struct{}) {
	<-release
}

func TestCaptorCapturesTargetGoroutine(t *testing.T) {
	reg := registry.New(64 * 1024)
	c := newTestCaptor(t)

	slot, _ := startPinnedWorker(t, reg)

	seq, done, err := c.Capture(slot)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("capture did not complete")
	}

	stack, ok := slot.CaptureResult(seq)
	require.True(t, ok)
	require.Contains(t, string(stack), "parkUntilReleased")
	require.NotContains(t, string(stack), "TestCaptorCapturesTargetGoroutine",
		"capture must contain only the target goroutine's section")
}

func TestCaptorHandlesExitedGoroutine(t *testing.T) {
	reg := registry.New(64 * 1024)
	c := newTestCaptor(t)

	// Register a goroutine that exits immediately.
	slotCh := make(chan *registry.Slot, 1)
	exited := make(chan struct{})
	go func() {
		slotCh <- reg.Register(CurrentGID())
		close(exited)
	}()
	slot := <-slotCh
	<-exited

	// Give the runtime a moment to retire the goroutine.
	require.Eventually(t, func() bool {
		seq, done, err := c.Capture(slot)
		if err != nil {
			return false
		}
		<-done

		_, ok := slot.CaptureResult(seq)
		return !ok
	}, 2*time.Second, 10*time.Millisecond, "capture of exited goroutine should report no result")
}

func TestCaptorSupersededRequest(t *testing.T) {
	reg := registry.New(64 * 1024)
	c := newTestCaptor(t)

	slot, _ := startPinnedWorker(t, reg)

	seq1, done1, err := c.Capture(slot)
	require.NoError(t, err)
	<-done1

	// Retarget with a newer sequence; the older one can no longer surface.
	seq2, done2, err := c.Capture(slot)
	require.NoError(t, err)
	<-done2

	_, ok := slot.CaptureResult(seq1)
	require.False(t, ok)

	stack, ok := slot.CaptureResult(seq2)
	require.True(t, ok)
	require.NotEmpty(t, stack)
}

func TestCaptureBeforeStart(t *testing.T) {
	reg := registry.New(64 * 1024)
	c := New(1<<20, logger.NewNop(), metrics.NewNop())

	slot := reg.Register(1)

	_, _, err := c.Capture(slot)
	require.ErrorIs(t, err, types.ErrCaptorNotStarted)
}

func TestCaptureAfterStop(t *testing.T) {
	reg := registry.New(64 * 1024)
	c := New(1<<20, logger.NewNop(), metrics.NewNop())
	require.NoError(t, c.Start())
	c.Stop()

	slot := reg.Register(1)

	_, _, err := c.Capture(slot)
	require.ErrorIs(t, err, types.ErrCaptorNotStarted)
}

func TestCaptorDoubleStart(t *testing.T) {
	c := New(1<<20, logger.NewNop(), metrics.NewNop())
	require.NoError(t, c.Start())
	t.Cleanup(c.Stop)

	require.ErrorIs(t, c.Start(), types.ErrCaptorAlreadyStarted)
}

func TestCaptorStopIdempotent(t *testing.T) {
	c := New(1<<20, logger.NewNop(), metrics.NewNop())
	require.NoError(t, c.Start())

	c.Stop()
	c.Stop()
}

func TestCaptureTruncatesToSlotBuffer(t *testing.T) {
	// A 128-byte slot buffer cannot hold a full stack section.
	reg := registry.New(128)
	c := newTestCaptor(t)

	slot, _ := startPinnedWorker(t, reg)

	seq, done, err := c.Capture(slot)
	require.NoError(t, err)
	<-done

	stack, ok := slot.CaptureResult(seq)
	require.True(t, ok)
	require.Len(t, stack, 128)
}
