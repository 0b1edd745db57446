package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldSuspect(t *testing.T) {
	threshold := 100 * time.Millisecond

	t.Run("idle below threshold", func(t *testing.T) {
		ep := &episode{}
		require.False(t, ep.shouldSuspect(50*time.Millisecond, threshold, 7))
	})

	t.Run("idle at threshold", func(t *testing.T) {
		ep := &episode{}
		require.True(t, ep.shouldSuspect(threshold, threshold, 7))
	})

	t.Run("same generation already captured", func(t *testing.T) {
		ep := &episode{captured: true, capturedGen: 7}
		require.False(t, ep.shouldSuspect(200*time.Millisecond, threshold, 7))
	})

	t.Run("new generation after capture", func(t *testing.T) {
		ep := &episode{captured: true, capturedGen: 7}
		require.True(t, ep.shouldSuspect(200*time.Millisecond, threshold, 8))
	})

	t.Run("generation zero never captured", func(t *testing.T) {
		// A worker that stalls before its first heartbeat has generation 0;
		// the captured flag distinguishes that from a prior capture at 0.
		ep := &episode{}
		require.True(t, ep.shouldSuspect(200*time.Millisecond, threshold, 0))
	})
}

func TestRecovered(t *testing.T) {
	threshold := 100 * time.Millisecond

	t.Run("generation advanced", func(t *testing.T) {
		ep := &episode{suspectGen: 7}
		require.True(t, ep.recovered(500*time.Millisecond, threshold, 8))
	})

	t.Run("idle dropped below threshold", func(t *testing.T) {
		ep := &episode{suspectGen: 7}
		require.True(t, ep.recovered(10*time.Millisecond, threshold, 7))
	})

	t.Run("still stalled", func(t *testing.T) {
		ep := &episode{suspectGen: 7}
		require.False(t, ep.recovered(500*time.Millisecond, threshold, 7))
	})
}

func TestDueForReReport(t *testing.T) {
	now := time.Now()

	t.Run("disabled when interval is zero", func(t *testing.T) {
		ep := &episode{reportedAt: now.Add(-time.Hour)}
		require.False(t, ep.dueForReReport(now, 0))
	})

	t.Run("not yet due", func(t *testing.T) {
		ep := &episode{reportedAt: now.Add(-time.Second)}
		require.False(t, ep.dueForReReport(now, time.Minute))
	})

	t.Run("due", func(t *testing.T) {
		ep := &episode{reportedAt: now.Add(-2 * time.Minute)}
		require.True(t, ep.dueForReReport(now, time.Minute))
	})
}
