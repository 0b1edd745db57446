package sink

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/stallkit/stallwatch/types"
)

// ErrChannelFull is returned when an event is dropped because the consumer
// is not keeping up. The monitor logs it; the event is lost by design
// rather than back-pressuring the scan cadence.
var ErrChannelFull = errors.New("event channel full, event dropped")

// Channel enqueues detection events onto a buffered channel for consumption
// on a different goroutine. OnDetect never blocks: when the buffer is full
// the event is counted as dropped and discarded.
type Channel struct {
	ch      chan types.DetectionEvent
	dropped atomic.Uint64
}

// Compile-time assertion that Channel implements EventSink.
var _ types.EventSink = (*Channel)(nil)

// NewChannel creates a channel sink with the given buffer capacity.
//
// Parameters:
//   - capacity: Buffered channel size; size for the consumer's worst lag
//
// Returns:
//   - *Channel: A new channel sink
//
// Example:
//
//	events := sink.NewChannel(128)
//	go func() {
//	    for ev := range events.Events() {
//	        handle(ev)
//	    }
//	}()
func NewChannel(capacity int) *Channel {
	return &Channel{ch: make(chan types.DetectionEvent, capacity)}
}

// OnDetect enqueues the event, dropping it when the buffer is full.
func (c *Channel) OnDetect(_ context.Context, ev types.DetectionEvent) error {
	select {
	case c.ch <- ev:
		return nil
	default:
		c.dropped.Add(1)
		return ErrChannelFull
	}
}

// Events returns the receive side of the sink.
func (c *Channel) Events() <-chan types.DetectionEvent {
	return c.ch
}

// Dropped returns the number of events discarded due to a full buffer.
func (c *Channel) Dropped() uint64 {
	return c.dropped.Load()
}
