package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/stallkit/stallwatch"
)

// BlockableWorker is a registered worker goroutine with controllable stalls.
//
// It heartbeats on a fixed interval until Stall is called, at which point it
// stops heartbeating for the requested duration before resuming. This makes
// it easy to drive a detector through its full detection cycle in tests
// without hand-writing goroutine plumbing in every test.
type BlockableWorker struct {
	detector *stallwatch.Detector
	interval time.Duration

	id      stallwatch.WorkerID
	ready   chan struct{}
	stallCh chan time.Duration
	stopCh  chan struct{}
	doneCh  chan struct{}

	stopOnce sync.Once
}

// StartBlockableWorker spawns a worker goroutine that registers itself with
// the detector and heartbeats every interval. The worker is stopped and
// deregistered automatically when the test completes.
//
// Parameters:
//   - t: Testing context for cleanup
//   - d: Detector the worker registers with
//   - interval: Heartbeat interval while the worker is healthy
//
// Returns:
//   - *BlockableWorker: Handle for stalling and stopping the worker
//
// Example:
//
//	w := stalltest.StartBlockableWorker(t, detector, 5*time.Millisecond)
//	w.Stall(200 * time.Millisecond) // stop heartbeating for 200ms
func StartBlockableWorker(t *testing.T, d *stallwatch.Detector, interval time.Duration) *BlockableWorker {
	t.Helper()

	w := &BlockableWorker{
		detector: d,
		interval: interval,
		ready:    make(chan struct{}),
		stallCh:  make(chan time.Duration, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	go w.run()

	// Wait for the worker goroutine to register itself. Registration must
	// happen on the worker's own goroutine so the detector can associate
	// the correct goroutine with the slot.
	<-w.ready

	t.Cleanup(w.Stop)

	return w
}

// ID returns the worker ID assigned at registration.
func (w *BlockableWorker) ID() stallwatch.WorkerID {
	return w.id
}

// Stall instructs the worker to stop heartbeating for the given duration.
// The call returns immediately; the stall happens on the worker goroutine.
func (w *BlockableWorker) Stall(d time.Duration) {
	select {
	case w.stallCh <- d:
	case <-w.doneCh:
	}
}

// Stop terminates the worker goroutine and deregisters it from the detector.
// Safe to call multiple times.
func (w *BlockableWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	<-w.doneCh
}

func (w *BlockableWorker) run() {
	w.id = w.detector.Register()
	close(w.ready)

	defer close(w.doneCh)
	defer w.detector.Deregister(w.id) //nolint:errcheck // best-effort cleanup

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case d := <-w.stallCh:
			w.stall(d)
		case <-ticker.C:
			w.detector.Heartbeat(w.id)
		}
	}
}

// stall holds the worker without heartbeating, then resumes with a fresh
// heartbeat. It still honors stop requests so tests never hang on cleanup.
func (w *BlockableWorker) stall(d time.Duration) {
	select {
	case <-time.After(d):
		w.detector.Heartbeat(w.id)
	case <-w.stopCh:
	}
}
