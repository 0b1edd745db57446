// Package types defines the shared contracts of the stallwatch library.
//
// It contains the core value types (WorkerID, DetectionEvent, EpisodeState),
// the Logger, MetricsCollector and EventSink interfaces, and the sentinel
// errors used across components.
//
// Internal packages depend on types rather than on the root stallwatch
// package, which keeps the dependency graph acyclic while the root package
// re-exports the public surface via type aliases.
package types
