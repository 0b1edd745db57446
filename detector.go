package stallwatch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/stallkit/stallwatch/internal/capture"
	"github.com/stallkit/stallwatch/internal/logger"
	"github.com/stallkit/stallwatch/internal/metrics"
	"github.com/stallkit/stallwatch/internal/monitor"
	"github.com/stallkit/stallwatch/internal/registry"
	"github.com/stallkit/stallwatch/types"
)

// Detector watches registered worker goroutines for blocked execution.
//
// The host runtime registers each worker from the worker's own goroutine,
// brackets every unit of scheduled work with BeforePoll/AfterPoll (or calls
// Heartbeat directly on any forward-progress event, including idle/park
// transitions), and deregisters the worker when it exits. A dedicated
// monitor goroutine samples the heartbeats, captures the stack of any worker
// that stops progressing past the blocking threshold, and emits one
// DetectionEvent per blocking episode to the registered sinks.
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Heartbeat is a single atomic store plus a single atomic increment on
//     the worker's own slot; it never allocates or locks
//
// Lifecycle:
//   - Create with New()
//   - Call Start() to launch the monitor; workers may register before or after
//   - Call Stop() for prompt shutdown (bounded by one check interval)
type Detector struct {
	cfg     Config
	logger  Logger
	metrics MetricsCollector
	sinks   []EventSink

	reg     *registry.Registry
	captor  *capture.Captor
	monitor *monitor.Monitor

	sigCh <-chan os.Signal

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	sigDone chan struct{}
}

// New creates a new Detector instance with the provided configuration.
//
// Returns a concrete *Detector struct following the "accept interfaces,
// return structs" principle. Consumers can define their own interfaces for
// testing if needed.
//
// Parameters:
//   - cfg: Runtime configuration; missing fields receive defaults
//   - opts: Optional configuration (logger, metrics, sinks)
//
// Returns:
//   - *Detector: Initialized detector instance
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	cfg := stallwatch.DefaultConfig()
//	events := sink.NewChannel(128)
//	det, err := stallwatch.New(&cfg, stallwatch.WithSinks(events))
func New(cfg *Config, opts ...Option) (*Detector, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Apply options
	options := &detectorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	d := &Detector{
		cfg:     *cfg,
		logger:  loggerInstance,
		metrics: metricsCollector,
		sinks:   options.sinks,
		reg:     registry.New(cfg.CaptureBufferSize),
		stopCh:  make(chan struct{}),
	}

	d.captor = capture.New(cfg.DumpBufferSize, loggerInstance, metricsCollector)
	d.monitor = monitor.New(
		monitor.Config{
			CheckInterval:     cfg.CheckInterval,
			BlockingThreshold: cfg.BlockingThreshold,
			CaptureTimeout:    cfg.CaptureTimeout,
			ReReportInterval:  cfg.ReReportInterval,
		},
		d.reg,
		d.captor,
		options.sinks,
		loggerInstance,
		metricsCollector,
	)

	return d, nil
}

// Start launches the capture and monitor goroutines.
//
// When Config.DumpSignal is set, the signal is claimed exclusively before
// anything runs; a claim collision is fatal and nothing is started.
//
// Parameters:
//   - ctx: Cancellation context for the monitor loop
//
// Returns:
//   - error: ErrAlreadyStarted, ErrAlreadyStopped, or a signal claim error
func (d *Detector) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrAlreadyStopped
	}
	if d.started {
		return ErrAlreadyStarted
	}

	if d.cfg.DumpSignal != nil {
		sigCh, err := capture.ClaimSignal(d.cfg.DumpSignal)
		if err != nil {
			return err
		}
		d.sigCh = sigCh
	}

	if err := d.captor.Start(); err != nil {
		d.releaseSignal()
		return err
	}

	if err := d.monitor.Start(ctx); err != nil {
		d.captor.Stop()
		d.releaseSignal()

		return err
	}

	if d.sigCh != nil {
		d.sigDone = make(chan struct{})
		go d.watchDumpSignal(ctx)
	}

	d.started = true
	d.logger.Info("detector started",
		"check_interval", d.cfg.CheckInterval,
		"blocking_threshold", d.cfg.BlockingThreshold,
		"capture_timeout", d.cfg.CaptureTimeout,
		"re_report_interval", d.cfg.ReReportInterval,
	)

	return nil
}

// Stop shuts the detector down and waits for its goroutines to exit.
//
// Shutdown is prompt: the monitor observes the stop signal within one
// CheckInterval. Stop never joins worker goroutines; workers that are
// themselves blocked stay blocked, they are simply no longer observed.
// Safe to call multiple times.
//
// Returns:
//   - error: ErrNotStarted when Stop precedes Start
func (d *Detector) Stop() error {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return ErrNotStarted
	}
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	d.mu.Unlock()

	close(d.stopCh)

	if err := d.monitor.Stop(); err != nil {
		d.logger.Warn("monitor stop failed", "error", err)
	}
	d.captor.Stop()

	if d.sigDone != nil {
		<-d.sigDone
	}
	d.releaseSignal()

	d.logger.Info("detector stopped")

	return nil
}

// releaseSignal gives up the dump signal claim, if any. Caller holds d.mu or
// has excluded concurrent Start/Stop.
func (d *Detector) releaseSignal() {
	if d.sigCh != nil {
		capture.ReleaseSignal(d.cfg.DumpSignal)
		d.sigCh = nil
	}
}

// Register installs a heartbeat slot for the calling goroutine and returns
// its worker ID.
//
// Must be called on the worker's own goroutine: the goroutine identity
// recorded here is what stack capture later targets. The slot starts
// Healthy with the current time as its last progress.
//
// Returns:
//   - WorkerID: Opaque, never-reused identifier for this worker
func (d *Detector) Register() WorkerID {
	gid := capture.CurrentGID()
	slot := d.reg.Register(gid)
	d.logger.Debug("worker registered", "worker_id", slot.ID(), "gid", gid)

	return slot.ID()
}

// Deregister removes a worker's slot.
//
// Any in-progress classification of the worker is discarded without an
// event; a pending stack capture is abandoned.
//
// Parameters:
//   - id: The worker to remove
//
// Returns:
//   - error: ErrUnknownWorker when id is not registered
func (d *Detector) Deregister(id WorkerID) error {
	if !d.reg.Deregister(id) {
		return ErrUnknownWorker
	}

	d.logger.Debug("worker deregistered", "worker_id", id)

	return nil
}

// Heartbeat records forward progress for a worker: one atomic timestamp
// store plus one atomic generation increment. Call on every
// forward-progress event, including idle/park transitions. Unknown IDs are
// ignored (the worker raced a deregistration).
//
// Parameters:
//   - id: The worker making progress
func (d *Detector) Heartbeat(id WorkerID) {
	if slot, ok := d.reg.Get(id); ok {
		slot.Heartbeat()
	}
}

// BeforePoll is the instrumentation hook invoked when a worker begins a unit
// of scheduled work. It heartbeats so an idle worker picking up work does
// not carry staleness accumulated while parked.
func (d *Detector) BeforePoll(id WorkerID) {
	d.Heartbeat(id)
}

// AfterPoll is the instrumentation hook invoked when a worker finishes a
// unit of scheduled work.
func (d *Detector) AfterPoll(id WorkerID) {
	d.Heartbeat(id)
}

// MonitoredWorkers returns the number of currently registered workers.
func (d *Detector) MonitoredWorkers() int {
	return d.reg.Size()
}

// watchDumpSignal services the reserved dump signal until shutdown.
func (d *Detector) watchDumpSignal(ctx context.Context) {
	defer close(d.sigDone)

	for {
		select {
		case <-d.stopCh:
			return
		case <-ctx.Done():
			return
		case sig := <-d.sigCh:
			d.logger.Warn("dump signal received", "signal", sig)
			d.dumpWorkers()
		}
	}
}

// dumpWorkers captures and logs the stack of every registered worker.
// Diagnostics only; reuses the capture pipeline with the same bounded wait
// as detection.
func (d *Detector) dumpWorkers() {
	type pending struct {
		id   types.WorkerID
		slot *registry.Slot
		seq  uint64
		done <-chan struct{}
	}

	var requests []pending
	d.reg.Range(func(id types.WorkerID, slot *registry.Slot) bool {
		seq, done, err := d.captor.Capture(slot)
		if err != nil {
			d.logger.Warn("dump capture request failed", "worker_id", id, "error", err)
			return true
		}
		requests = append(requests, pending{id: id, slot: slot, seq: seq, done: done})

		return true
	})

	timer := time.NewTimer(d.cfg.CaptureTimeout)
	defer timer.Stop()

	expired := false
	for _, req := range requests {
		if !expired {
			select {
			case <-req.done:
			case <-timer.C:
				expired = true
			}
		}

		if stack, ok := req.slot.CaptureResult(req.seq); ok {
			d.logger.Info("worker stack dump",
				"worker_id", req.id,
				"generation", req.slot.Generation(),
				"stack", string(stack),
			)
		} else {
			d.logger.Warn("worker stack unavailable", "worker_id", req.id)
		}
	}
}
