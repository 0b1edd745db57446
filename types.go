package stallwatch

import "github.com/stallkit/stallwatch/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces via type aliases. Internal packages depend on the `types`
// subpackage without depending on the root `stallwatch` package, while
// users get the convenient `stallwatch.WorkerID`, `stallwatch.Logger`, etc.
type (
	WorkerID       = types.WorkerID
	EpisodeState   = types.EpisodeState
	DetectionEvent = types.DetectionEvent
)

// Re-export interfaces from the internal types package for convenience.
type (
	EventSink        = types.EventSink
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
)

// Re-export EpisodeState constants from the internal types package.
const (
	StateHealthy   = types.StateHealthy
	StateSuspected = types.StateSuspected
	StateReported  = types.StateReported
)
