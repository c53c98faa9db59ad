package throttle

import (
	"fmt"
	"sync"
	"time"
)

// Throttle limits how often Send admits a call: at most Requests
// invocations per Period, using whichever of the four algorithms Mode
// selected. A Throttle is safe for concurrent use by multiple goroutines;
// it governs one logical stream, not one caller.
type Throttle struct {
	requests       int
	period         time.Duration
	targetInterval time.Duration
	mode           Mode
	clock          Clock

	earlyCount     int           // SyncEarlyBurst only
	bucketCapacity time.Duration // SyncLeakyBucket only
	queueCapacity  int           // Async only

	mu    sync.Mutex // guards state; held only across rate computation
	state rateState

	// Async-only fields.
	queue     *requestQueue
	lifecycle *lifecycle
	wg        sync.WaitGroup

	// OnAsyncError, if set, is called with any error or recovered panic
	// from a scheduler-invoked callable. The scheduler always continues
	// regardless of what this hook does; it exists purely so an
	// application can observe otherwise-swallowed Async failures.
	OnAsyncError func(error)
}

// Send invokes fn subject to the throttle's admission policy.
//
// In synchronous modes (Sync, SyncEarlyBurst, SyncLeakyBucket), Send
// blocks the caller for the computed wait, invokes fn on the caller's own
// goroutine, and returns exactly what fn returns: errors from fn
// propagate to the Send caller unchanged.
//
// In Async mode, Send enqueues fn for the scheduler goroutine and
// returns (nil, nil) once it is enqueued, blocking and retrying while the
// queue is full; after shutdown it returns (nil, nil) without enqueuing.
// The scheduler's invocation of fn,
// and any error it returns, happen asynchronously and are not observable
// through this call's return value (see OnAsyncError).
func (th *Throttle) Send(fn func() (any, error)) (any, error) {
	if th.mode == ModeAsync {
		th.sendAsync(request{fn: fn})
		return nil, nil
	}
	return th.sendSync(fn)
}

// StartShutdown begins shutdown of an Async throttle's scheduler
// goroutine and blocks until it has exited. It is idempotent: calling it
// again after shutdown has already completed returns immediately. It
// returns ErrShutdownNotApplicable for any non-Async throttle.
func (th *Throttle) StartShutdown() error {
	if th.mode != ModeAsync {
		return ErrShutdownNotApplicable
	}
	th.lifecycle.requestShutdown()
	<-th.lifecycle.workerDone
	return nil
}

// Len returns the approximate number of requests queued but not yet
// invoked. It is always 0 for synchronous modes.
func (th *Throttle) Len() int {
	if th.mode != ModeAsync {
		return 0
	}
	return th.queue.len()
}

// String renders a diagnostic representation including the mode and its
// mode-specific parameter. Shutdown signal channels, even when present,
// are never rendered.
func (th *Throttle) String() string {
	base := fmt.Sprintf("Throttle(requests=%d, period=%s, mode=%s", th.requests, th.period, th.mode)
	switch th.mode {
	case ModeAsync:
		return base + fmt.Sprintf(", queueCapacity=%d)", th.queueCapacity)
	case ModeSyncEarlyBurst:
		return base + fmt.Sprintf(", earlyCount=%d)", th.earlyCount)
	case ModeSyncLeakyBucket:
		return base + fmt.Sprintf(", bucketCapacity=%s)", th.bucketCapacity)
	default:
		return base + ")"
	}
}
