package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/stallkit/stallwatch/internal/registry"
	"github.com/stallkit/stallwatch/types"
)

// StackCaptor requests asynchronous stack captures of suspected workers.
// Satisfied by capture.Captor; tests substitute fakes.
type StackCaptor interface {
	// Capture reserves a capture sequence for slot and enqueues the request.
	// The returned channel is closed when the result is published; the
	// caller bounds its own wait.
	Capture(slot *registry.Slot) (uint64, <-chan struct{}, error)
}

// Config carries the monitor's timing knobs, validated by the caller.
type Config struct {
	// CheckInterval is the scan cadence.
	CheckInterval time.Duration

	// BlockingThreshold is the idle duration that marks a worker Suspected.
	BlockingThreshold time.Duration

	// CaptureTimeout bounds the per-scan wait for stack captures.
	CaptureTimeout time.Duration

	// ReReportInterval re-surfaces ongoing stalls; zero disables re-reporting.
	ReReportInterval time.Duration
}

// Monitor is the detection loop.
//
// One goroutine scans the registry every CheckInterval, classifies each
// worker's staleness independently, requests captures for fresh suspects,
// and emits detection events to the sinks. The only blocking points are the
// interval sleep (cancellable) and the bounded capture wait.
type Monitor struct {
	cfg     Config
	reg     *registry.Registry
	captor  StackCaptor
	sinks   []types.EventSink
	logger  types.Logger
	metrics types.MetricsCollector

	// episodes is touched only by the monitor goroutine.
	episodes map[types.WorkerID]*episode

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// suspect is one worker entering a report cycle during the current scan.
type suspect struct {
	id       types.WorkerID
	slot     *registry.Slot
	ep       *episode
	seq      uint64
	done     <-chan struct{}
	idle     time.Duration
	gen      uint64
	reReport bool
}

// New creates a monitor over the given registry.
//
// Parameters:
//   - cfg: Validated timing configuration
//   - reg: Heartbeat registry to scan
//   - captor: Stack capture backend
//   - sinks: Detection event consumers (fan-out)
//   - logger: Logger for monitor events
//   - metrics: Metrics collector
//
// Returns:
//   - *Monitor: A new monitor instance
func New(
	cfg Config,
	reg *registry.Registry,
	captor StackCaptor,
	sinks []types.EventSink,
	logger types.Logger,
	metrics types.MetricsCollector,
) *Monitor {
	return &Monitor{
		cfg:      cfg,
		reg:      reg,
		captor:   captor,
		sinks:    sinks,
		logger:   logger,
		metrics:  metrics,
		episodes: make(map[types.WorkerID]*episode),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the monitor goroutine.
//
// Parameters:
//   - ctx: Cancellation context; the loop also exits when ctx is done
//
// Returns:
//   - error: ErrMonitorAlreadyStarted or ErrMonitorAlreadyStopped
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return types.ErrMonitorAlreadyStopped
	}
	if m.started {
		return types.ErrMonitorAlreadyStarted
	}

	m.started = true
	go m.run(ctx)

	return nil
}

// Stop signals the monitor loop and waits for it to exit.
//
// Shutdown is prompt: the loop observes the stop signal within one
// CheckInterval plus at most one capture wait. Safe to call multiple times.
//
// Returns:
//   - error: ErrMonitorNotStarted when Stop precedes Start
func (m *Monitor) Stop() error {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return types.ErrMonitorNotStarted
	}
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	m.mu.Unlock()

	close(m.stopCh)
	<-m.doneCh

	return nil
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.scan(ctx)
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// scan classifies every registered worker once.
func (m *Monitor) scan(ctx context.Context) {
	start := time.Now()
	nowNanos := registry.NowNanos()

	var suspects []*suspect
	count := 0

	m.reg.Range(func(id types.WorkerID, slot *registry.Slot) bool {
		count++

		ep, ok := m.episodes[id]
		if !ok {
			ep = &episode{state: types.StateHealthy}
			m.episodes[id] = ep
		}

		gen := slot.Generation()
		idle := time.Duration(nowNanos - slot.LastProgress())

		switch ep.state {
		case types.StateHealthy:
			if ep.shouldSuspect(idle, m.cfg.BlockingThreshold, gen) {
				suspects = append(suspects, m.suspend(id, slot, ep, idle, gen, false))
			}

		case types.StateReported:
			if ep.recovered(idle, m.cfg.BlockingThreshold, gen) {
				m.logger.Info("worker recovered",
					"worker_id", id,
					"blocked_for", start.Sub(ep.suspectedAt),
				)
				ep.state = types.StateHealthy
			} else if ep.dueForReReport(start, m.cfg.ReReportInterval) {
				suspects = append(suspects, m.suspend(id, slot, ep, idle, gen, true))
			}

		case types.StateSuspected:
			// Suspected resolves within the scan that entered it; a worker
			// can only be observed here if classification was interrupted,
			// in which case the next cycle re-evaluates from scratch.
			ep.state = types.StateHealthy
		}

		return true
	})

	m.pruneEpisodes()
	m.metrics.SetMonitoredWorkers(count)

	if len(suspects) > 0 {
		m.resolve(ctx, suspects)
	}

	m.metrics.ObserveScanDuration(time.Since(start).Seconds())
}

// suspend transitions a worker into Suspected and targets it for capture.
func (m *Monitor) suspend(
	id types.WorkerID,
	slot *registry.Slot,
	ep *episode,
	idle time.Duration,
	gen uint64,
	reReport bool,
) *suspect {
	ep.state = types.StateSuspected
	ep.suspectGen = gen
	ep.suspectedAt = time.Now()
	ep.captured = true
	ep.capturedGen = gen

	s := &suspect{
		id:       id,
		slot:     slot,
		ep:       ep,
		idle:     idle,
		gen:      gen,
		reReport: reReport,
	}

	seq, done, err := m.captor.Capture(slot)
	if err != nil {
		// No capture in flight; the episode still advances to Reported with
		// an unavailable-stack marker.
		m.logger.Warn("stack capture request failed",
			"worker_id", id,
			"error", err,
		)

		return s
	}

	s.seq = seq
	s.done = done

	return s
}

// resolve waits a single bounded window for all pending captures, then emits
// one detection event per suspect. A worker deregistered during the wait is
// silently dropped.
func (m *Monitor) resolve(ctx context.Context, suspects []*suspect) {
	timer := time.NewTimer(m.cfg.CaptureTimeout)
	defer timer.Stop()

	expired := false
	for _, s := range suspects {
		if s.done == nil || expired {
			continue
		}

		select {
		case <-s.done:
		case <-timer.C:
			expired = true
		}
	}

	for _, s := range suspects {
		if _, live := m.reg.Get(s.id); !live {
			// Deregistration implies the worker is gone; abandon the
			// pending capture and discard the episode without an event.
			delete(m.episodes, s.id)
			continue
		}

		ev := types.DetectionEvent{
			WorkerID:   s.id,
			BlockedFor: s.idle,
			Generation: s.gen,
			DetectedAt: time.Now(),
			ReReport:   s.reReport,
		}

		if stack, ok := s.slot.CaptureResult(s.seq); ok {
			ev.Stack = stack
			ev.StackFingerprint = xxh3.Hash(ev.Stack)
			m.metrics.RecordCapture("ok")
		} else {
			m.metrics.RecordCapture("timeout")
			m.logger.Warn("stack capture unavailable",
				"worker_id", s.id,
				"capture_timeout", m.cfg.CaptureTimeout,
			)
		}

		s.ep.state = types.StateReported
		s.ep.reportedAt = time.Now()

		m.logger.Warn("blocked worker detected",
			"worker_id", s.id,
			"blocked_for", ev.BlockedFor,
			"generation", ev.Generation,
			"capture_ok", ev.CaptureOK(),
			"re_report", ev.ReReport,
		)
		m.metrics.IncrementDetection(ev.ReReport)
		m.metrics.ObserveBlockedDuration(ev.BlockedFor.Seconds())

		m.emit(ctx, ev)
	}
}

// pruneEpisodes drops episodes of deregistered workers.
func (m *Monitor) pruneEpisodes() {
	for id := range m.episodes {
		if _, live := m.reg.Get(id); !live {
			delete(m.episodes, id)
		}
	}
}

// emit fans the event out to every sink, isolating failures per sink.
func (m *Monitor) emit(ctx context.Context, ev types.DetectionEvent) {
	for _, sink := range m.sinks {
		m.dispatch(ctx, sink, ev)
	}
}

func (m *Monitor) dispatch(ctx context.Context, sink types.EventSink, ev types.DetectionEvent) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("event sink panicked",
				"worker_id", ev.WorkerID,
				"panic", r,
			)
			m.metrics.IncrementSinkError()
		}
	}()

	if err := sink.OnDetect(ctx, ev); err != nil {
		m.logger.Warn("event sink failed",
			"worker_id", ev.WorkerID,
			"error", err,
		)
		m.metrics.IncrementSinkError()
	}
}
