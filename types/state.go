package types

// EpisodeState classifies a monitored worker's liveness.
//
// States cycle per blocking episode:
//
//	Healthy → Suspected → Reported → Healthy
//
// Suspected is transient: the monitor enters it when a worker's idle time
// crosses the blocking threshold, requests a stack capture, and resolves to
// Reported within the same scan once the capture completes or times out.
// Reported returns to Healthy when the worker's generation counter advances
// or its idle time drops back below the threshold.
type EpisodeState int

const (
	// StateHealthy indicates the worker is making forward progress.
	StateHealthy EpisodeState = iota

	// StateSuspected indicates the worker crossed the blocking threshold and
	// a stack capture is in flight.
	StateSuspected

	// StateReported indicates a detection event was emitted for the current
	// blocking episode.
	StateReported
)

// String returns the string representation of the state.
func (s EpisodeState) String() string {
	switch s {
	case StateHealthy:
		return "Healthy"
	case StateSuspected:
		return "Suspected"
	case StateReported:
		return "Reported"
	default:
		return "Unknown"
	}
}
