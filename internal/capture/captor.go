package capture

import (
	"runtime"
	"sync"
	"time"

	"github.com/stallkit/stallwatch/types"

	"github.com/stallkit/stallwatch/internal/registry"
)

// requestQueueSize bounds pending captures. The monitor targets at most one
// capture per suspected worker per scan, so the queue only fills when far
// more workers stall simultaneously than the captor can dump; in that case
// the monitor degrades those episodes instead of waiting.
const requestQueueSize = 64

type request struct {
	slot *registry.Slot
	seq  uint64
	done chan struct{}
}

// Captor executes stack captures on a dedicated goroutine.
//
// Serializing captures keeps the preallocated dump buffer single-writer and
// bounds the runtime cost: each request is one runtime.Stack call over all
// goroutines plus a section scan. Requests for distinct workers are safe to
// submit concurrently; per-slot sequence numbers keep retargeting idempotent.
type Captor struct {
	dumpBuf []byte
	reqCh   chan request
	logger  types.Logger
	metrics types.MetricsCollector

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a captor with a preallocated dump buffer.
//
// Parameters:
//   - dumpBufSize: Capacity for the all-goroutine dump; stacks beyond it are truncated
//   - logger: Logger for capture diagnostics
//   - metrics: Metrics collector for capture latency
//
// Returns:
//   - *Captor: A new captor instance
func New(dumpBufSize int, logger types.Logger, metrics types.MetricsCollector) *Captor {
	return &Captor{
		dumpBuf: make([]byte, dumpBufSize),
		reqCh:   make(chan request, requestQueueSize),
		logger:  logger,
		metrics: metrics,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start launches the capture goroutine.
//
// Returns:
//   - error: ErrCaptorAlreadyStarted if already running
func (c *Captor) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return types.ErrCaptorAlreadyStarted
	}

	c.started = true
	go c.run()

	return nil
}

// Stop terminates the capture goroutine and waits for it to exit.
// Pending requests are drained with their done channels closed so no waiter
// blocks past shutdown. Safe to call multiple times.
func (c *Captor) Stop() {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.mu.Unlock()

	close(c.stopCh)
	<-c.doneCh
}

// Capture targets a worker slot for an asynchronous stack capture.
//
// Reserves the slot's next capture sequence, enqueues the request, and
// returns immediately. The returned channel is closed when the captor has
// published the result (or given up); the caller bounds its own wait and
// checks slot.CaptureResult(seq) afterwards.
//
// Parameters:
//   - slot: The suspected worker's slot
//
// Returns:
//   - uint64: The reserved capture sequence
//   - <-chan struct{}: Closed on completion
//   - error: ErrCaptorNotStarted or ErrCaptureBacklog; no capture is in
//     flight when non-nil
func (c *Captor) Capture(slot *registry.Slot) (uint64, <-chan struct{}, error) {
	c.mu.Lock()
	if !c.started || c.stopped {
		c.mu.Unlock()
		return 0, nil, types.ErrCaptorNotStarted
	}
	c.mu.Unlock()

	seq := slot.BeginCapture()
	req := request{slot: slot, seq: seq, done: make(chan struct{})}

	select {
	case c.reqCh <- req:
		return seq, req.done, nil
	default:
		return 0, nil, types.ErrCaptureBacklog
	}
}

func (c *Captor) run() {
	defer close(c.doneCh)

	for {
		select {
		case <-c.stopCh:
			c.drain()
			return
		case req := <-c.reqCh:
			c.capture(req)
		}
	}
}

// drain releases any waiters left after shutdown without capturing.
func (c *Captor) drain() {
	for {
		select {
		case req := <-c.reqCh:
			close(req.done)
		default:
			return
		}
	}
}

// capture performs one dump-and-extract cycle for a request.
func (c *Captor) capture(req request) {
	defer close(req.done)

	// A newer request superseded this one; completing it could attribute a
	// stale stack to the wrong episode.
	if req.slot.LatestCaptureSeq() != req.seq {
		c.logger.Debug("skipping superseded capture",
			"worker_id", req.slot.ID(),
			"seq", req.seq,
		)

		return
	}

	start := time.Now()
	n := runtime.Stack(c.dumpBuf, true)

	section := extractGoroutine(c.dumpBuf[:n], req.slot.GID())
	if section == nil {
		// Worker goroutine gone, likely exited between suspicion and dump.
		c.logger.Debug("target goroutine absent from dump",
			"worker_id", req.slot.ID(),
			"gid", req.slot.GID(),
		)
		req.slot.PublishCapture(req.seq, nil)

		return
	}

	copied := req.slot.PublishCapture(req.seq, section)
	if copied < len(section) {
		c.logger.Debug("captured stack truncated to slot buffer",
			"worker_id", req.slot.ID(),
			"stack_bytes", len(section),
			"buffer_bytes", copied,
		)
	}
	c.metrics.ObserveCaptureLatency(time.Since(start).Seconds())
}
