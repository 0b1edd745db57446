package registry

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/stallkit/stallwatch/types"
)

// Registry maps worker IDs to heartbeat slots.
//
// Registration and deregistration are rare relative to monitoring, so the
// map favors wait-free read-iteration for the monitor over mutation speed.
// A concurrent Range during deregistration observes either the slot or its
// absence, never a torn state.
type Registry struct {
	slots          *xsync.Map[types.WorkerID, *Slot]
	nextID         atomic.Uint64
	captureBufSize int
}

// New creates an empty registry.
//
// Parameters:
//   - captureBufSize: Capacity of each slot's preallocated stack buffer
//
// Returns:
//   - *Registry: A new registry instance
func New(captureBufSize int) *Registry {
	return &Registry{
		slots:          xsync.NewMap[types.WorkerID, *Slot](),
		captureBufSize: captureBufSize,
	}
}

// Register installs a fresh slot for a worker goroutine and returns it.
//
// The slot starts with the current time as its last progress and generation
// zero. IDs come from a monotonic counter and are never reused.
//
// Parameters:
//   - gid: The worker goroutine's runtime id, recorded for stack capture
//
// Returns:
//   - *Slot: The worker's heartbeat slot
func (r *Registry) Register(gid uint64) *Slot {
	id := types.WorkerID(r.nextID.Add(1))
	slot := newSlot(id, gid, r.captureBufSize)
	r.slots.Store(id, slot)

	return slot
}

// Deregister removes a worker's slot.
//
// Returns:
//   - bool: true if the worker was registered, false otherwise
func (r *Registry) Deregister(id types.WorkerID) bool {
	_, ok := r.slots.LoadAndDelete(id)
	return ok
}

// Get returns the slot for a worker, if registered.
func (r *Registry) Get(id types.WorkerID) (*Slot, bool) {
	return r.slots.Load(id)
}

// Range iterates over all registered slots. Safe to call concurrently with
// registration and deregistration.
func (r *Registry) Range(fn func(id types.WorkerID, slot *Slot) bool) {
	r.slots.Range(fn)
}

// Size returns the number of registered workers.
func (r *Registry) Size() int {
	return r.slots.Size()
}
