package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("errors.Is works correctly", func(t *testing.T) {
		// Test that errors.Is can match our sentinel errors
		require.True(t, errors.Is(ErrCaptorAlreadyStarted, ErrCaptorAlreadyStarted))
		require.False(t, errors.Is(ErrCaptorAlreadyStarted, ErrCaptorNotStarted))

		// Test that wrapped errors maintain identity
		wrapped := fmt.Errorf("starting detector: %w", ErrSignalAlreadyClaimed)
		require.True(t, errors.Is(wrapped, ErrSignalAlreadyClaimed))
	})

	t.Run("all errors are distinct", func(t *testing.T) {
		// Collect all sentinel errors
		allErrors := []error{
			// Detector errors
			ErrInvalidConfig,
			ErrAlreadyStarted,
			ErrNotStarted,
			ErrAlreadyStopped,
			ErrUnknownWorker,
			ErrSignalAlreadyClaimed,
			// Monitor errors
			ErrMonitorAlreadyStarted,
			ErrMonitorAlreadyStopped,
			ErrMonitorNotStarted,
			// Capture errors
			ErrCaptorAlreadyStarted,
			ErrCaptorNotStarted,
			ErrCaptureBacklog,
		}

		// Verify no two sentinels compare equal
		for i, err1 := range allErrors {
			for j, err2 := range allErrors {
				if i == j {
					continue
				}
				require.False(t, errors.Is(err1, err2),
					"errors %q and %q should be distinct", err1, err2)
			}
		}
	})

	t.Run("error messages are non-empty", func(t *testing.T) {
		errs := []error{
			ErrInvalidConfig,
			ErrAlreadyStarted,
			ErrNotStarted,
			ErrAlreadyStopped,
			ErrUnknownWorker,
			ErrSignalAlreadyClaimed,
			ErrMonitorAlreadyStarted,
			ErrMonitorAlreadyStopped,
			ErrMonitorNotStarted,
			ErrCaptorAlreadyStarted,
			ErrCaptorNotStarted,
			ErrCaptureBacklog,
		}
		for _, err := range errs {
			require.NotEmpty(t, err.Error())
		}
	})
}
