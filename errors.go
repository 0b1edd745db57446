package stallwatch

import "github.com/stallkit/stallwatch/types"

// Sentinel errors returned by the Detector, re-exported from the types
// package so callers can check them without importing it.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrAlreadyStarted is returned when Start is called on an already running detector.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when Stop is called on a detector that hasn't been started.
	ErrNotStarted = types.ErrNotStarted

	// ErrAlreadyStopped is returned when Start is called after Stop.
	ErrAlreadyStopped = types.ErrAlreadyStopped

	// ErrUnknownWorker is returned for operations on an unregistered worker ID.
	ErrUnknownWorker = types.ErrUnknownWorker

	// ErrSignalAlreadyClaimed is returned at startup when the configured dump
	// signal is already held by another detector in this process.
	ErrSignalAlreadyClaimed = types.ErrSignalAlreadyClaimed
)
