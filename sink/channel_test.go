package sink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stallkit/stallwatch/types"
)

func TestChannelSink(t *testing.T) {
	t.Run("delivers events in order", func(t *testing.T) {
		c := NewChannel(4)

		for i := 1; i <= 3; i++ {
			ev := types.DetectionEvent{WorkerID: types.WorkerID(i)}
			require.NoError(t, c.OnDetect(context.Background(), ev))
		}

		for i := 1; i <= 3; i++ {
			select {
			case ev := <-c.Events():
				require.Equal(t, types.WorkerID(i), ev.WorkerID)
			case <-time.After(time.Second):
				t.Fatal("event not delivered")
			}
		}
	})

	t.Run("drops when buffer is full", func(t *testing.T) {
		c := NewChannel(1)

		require.NoError(t, c.OnDetect(context.Background(), types.DetectionEvent{WorkerID: 1}))

		err := c.OnDetect(context.Background(), types.DetectionEvent{WorkerID: 2})
		require.ErrorIs(t, err, ErrChannelFull)
		require.Equal(t, uint64(1), c.Dropped())

		// The buffered event survives the drop.
		ev := <-c.Events()
		require.Equal(t, types.WorkerID(1), ev.WorkerID)
	})

	t.Run("never blocks the caller", func(t *testing.T) {
		c := NewChannel(0)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = c.OnDetect(context.Background(), types.DetectionEvent{})
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("OnDetect blocked on an unbuffered channel")
		}
	})
}
