package types

import "errors"

// Sentinel errors for the stallwatch library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Detector errors - Public API errors returned by the Detector.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAlreadyStarted is returned when Start is called on an already running detector.
	ErrAlreadyStarted = errors.New("detector already started")

	// ErrNotStarted is returned when Stop is called on a detector that hasn't been started.
	ErrNotStarted = errors.New("detector not started")

	// ErrAlreadyStopped is returned when Start is called after Stop.
	// A stopped detector cannot be restarted.
	ErrAlreadyStopped = errors.New("detector already stopped")

	// ErrUnknownWorker is returned when an operation references a worker ID
	// that is not (or no longer) registered.
	ErrUnknownWorker = errors.New("unknown worker")

	// ErrSignalAlreadyClaimed is returned at startup when the configured dump
	// signal is already claimed by another detector in this process.
	ErrSignalAlreadyClaimed = errors.New("dump signal already claimed")
)

// Monitor errors - Internal monitor component errors.
var (
	// ErrMonitorAlreadyStarted is returned when Start is called on an already running monitor.
	ErrMonitorAlreadyStarted = errors.New("monitor already started")

	// ErrMonitorAlreadyStopped is returned when Start is called on a stopped monitor.
	ErrMonitorAlreadyStopped = errors.New("monitor already stopped")

	// ErrMonitorNotStarted is returned when Stop is called before Start.
	ErrMonitorNotStarted = errors.New("monitor not started")
)

// Capture errors - Internal stack capture component errors.
var (
	// ErrCaptorAlreadyStarted is returned when Start is called on an already running captor.
	ErrCaptorAlreadyStarted = errors.New("captor already started")

	// ErrCaptorNotStarted is returned when capture is requested before Start.
	ErrCaptorNotStarted = errors.New("captor not started")

	// ErrCaptureBacklog is returned when the capture request queue is full.
	// The episode proceeds to Reported with no stack rather than waiting.
	ErrCaptureBacklog = errors.New("capture queue full")
)
