package registry

import (
	"sync"
	"sync/atomic"

	"github.com/stallkit/stallwatch/types"
)

// Slot is the per-worker heartbeat record.
//
// Write/read contract:
//   - Heartbeat fields (lastProgress, generation) are written only by the
//     owning worker and read only by the monitor. sync/atomic operations
//     provide the cross-goroutine visibility; no lock is ever taken.
//   - The capture buffer is written only by the captor goroutine, under
//     capMu. Readers take the same lock, re-check the completion sequence,
//     and copy the result out, so a retargeted capture can never be read
//     mid-rewrite. capMu is never touched on the heartbeat path.
type Slot struct {
	id  types.WorkerID
	gid uint64

	lastProgress atomic.Int64  // nanos on the registry's monotonic clock
	generation   atomic.Uint64 // incremented on every heartbeat

	// Capture protocol state. captureSeq is bumped when the monitor targets
	// this slot; captureDone is set to the same sequence by the captor once
	// the buffer holds the result. A stale completion (done != latest seq)
	// is never attributed to the current episode.
	captureSeq  atomic.Uint64
	captureDone atomic.Uint64

	capMu      sync.Mutex
	captureLen int
	captureBuf []byte
}

func newSlot(id types.WorkerID, gid uint64, bufSize int) *Slot {
	s := &Slot{
		id:         id,
		gid:        gid,
		captureBuf: make([]byte, bufSize),
	}
	s.lastProgress.Store(NowNanos())

	return s
}

// ID returns the worker's identifier.
func (s *Slot) ID() types.WorkerID { return s.id }

// GID returns the goroutine id recorded at registration.
func (s *Slot) GID() uint64 { return s.gid }

// Heartbeat records forward progress: it stores the current monotonic time
// and increments the generation counter. Called by the owning worker around
// every unit of work; cheap enough for hot paths.
func (s *Slot) Heartbeat() {
	s.lastProgress.Store(NowNanos())
	s.generation.Add(1)
}

// LastProgress returns the monotonic nanos of the last heartbeat.
func (s *Slot) LastProgress() int64 {
	return s.lastProgress.Load()
}

// Generation returns the heartbeat generation counter.
func (s *Slot) Generation() uint64 {
	return s.generation.Load()
}

// BeginCapture reserves a new capture sequence for this slot and returns it.
// Called by the monitor before handing the slot to the captor. Retargeting a
// slot with a capture still in flight simply advances the sequence; the
// superseded capture can no longer complete under the old number.
func (s *Slot) BeginCapture() uint64 {
	return s.captureSeq.Add(1)
}

// LatestCaptureSeq returns the most recently reserved capture sequence.
func (s *Slot) LatestCaptureSeq() uint64 {
	return s.captureSeq.Load()
}

// PublishCapture copies a finished capture into the slot's preallocated
// buffer and marks seq complete, all under the capture lock. Stacks larger
// than the buffer are truncated, never reallocated. Publishing a nil or
// empty section records a completed-but-empty capture (goroutine absent
// from the dump).
//
// Returns:
//   - int: Bytes actually stored, after truncation
func (s *Slot) PublishCapture(seq uint64, section []byte) int {
	s.capMu.Lock()
	defer s.capMu.Unlock()

	n := copy(s.captureBuf, section)
	s.captureLen = n
	s.captureDone.Store(seq)

	return n
}

// CaptureResult returns the captured stack for seq, or ok=false when the
// capture has not completed, completed empty, or was superseded. The
// returned slice is an owned copy; the caller may hold it freely while the
// slot is retargeted by later captures.
func (s *Slot) CaptureResult(seq uint64) ([]byte, bool) {
	// Lock-free rejection of the common not-ready/superseded cases.
	if s.captureDone.Load() != seq {
		return nil, false
	}

	s.capMu.Lock()
	defer s.capMu.Unlock()

	// Re-check under the lock: a newer capture may have republished the
	// buffer between the fast-path check and lock acquisition.
	if s.captureDone.Load() != seq || s.captureLen == 0 {
		return nil, false
	}

	out := make([]byte, s.captureLen)
	copy(out, s.captureBuf[:s.captureLen])

	return out, true
}
