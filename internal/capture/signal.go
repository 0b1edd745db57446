package capture

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/stallkit/stallwatch/types"
)

// signalGate is the process-scoped claim registry for the dump signal.
// The platform's signal dispatch is process-wide, so at most one claimant may
// hold a given signal; a second claim is a configuration error surfaced at
// startup rather than a silently shared handler.
var signalGate = struct {
	sync.Mutex
	claimed map[os.Signal]chan os.Signal
}{claimed: make(map[os.Signal]chan os.Signal)}

// ClaimSignal reserves sig for exclusive use and returns the channel that
// receives it.
//
// Parameters:
//   - sig: The OS signal to reserve (e.g. syscall.SIGUSR1)
//
// Returns:
//   - <-chan os.Signal: Delivery channel for the claimed signal
//   - error: ErrSignalAlreadyClaimed (wrapped) when sig is already held
func ClaimSignal(sig os.Signal) (<-chan os.Signal, error) {
	signalGate.Lock()
	defer signalGate.Unlock()

	if _, held := signalGate.claimed[sig]; held {
		return nil, fmt.Errorf("%w: %v", types.ErrSignalAlreadyClaimed, sig)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	signalGate.claimed[sig] = ch

	return ch, nil
}

// ReleaseSignal gives up a previous claim on sig. Unclaimed signals are a
// no-op, so release is idempotent.
func ReleaseSignal(sig os.Signal) {
	signalGate.Lock()
	defer signalGate.Unlock()

	ch, held := signalGate.claimed[sig]
	if !held {
		return
	}

	signal.Stop(ch)
	delete(signalGate.claimed, sig)
}
