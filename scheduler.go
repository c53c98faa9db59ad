package throttle

import (
	"fmt"
	"time"
)

// enqueueRetryTimeout bounds each tryEnqueue attempt while Send waits for
// room in a full Async queue; dequeueTimeout bounds each tryDequeue
// attempt so the scheduler notices shutdown promptly even when idle.
const (
	enqueueRetryTimeout = 500 * time.Millisecond
	dequeueTimeout      = time.Second
	shutdownSleepSlice  = time.Second
)

// sendAsync implements the Async submission protocol (§4.3): retry
// enqueue with a bounded timeout while active, drop the request if
// shutdown is observed before it is ever enqueued, and — because the
// scheduler may exit between this goroutine's last ACTIVE observation and
// its successful enqueue — re-check state after enqueuing and drain any
// descriptor left behind by that race.
func (th *Throttle) sendAsync(r request) {
	for !th.lifecycle.isShutdown() {
		if th.queue.tryEnqueue(th.clock, enqueueRetryTimeout, r) {
			break
		}
	}

	if th.lifecycle.isShutdown() {
		th.queue.drain()
	}
}

// runScheduler is the background worker started by New for Async mode.
// It dequeues, invokes, and paces requests until shutdown is observed,
// then drains the queue without invoking what's left and signals
// completion.
func (th *Throttle) runScheduler() {
	defer th.wg.Done()

	for !th.lifecycle.isShutdown() {
		r, ok := th.queue.tryDequeue(th.clock, dequeueTimeout)
		if !ok {
			continue
		}

		th.invokeGuarded(r)
		th.pacedSleep(th.targetInterval)
	}

	// Shutdown observed: drop anything left without invoking it. This
	// duplicates the drain sendAsync performs after a late enqueue; both
	// are kept deliberately (see DESIGN.md).
	th.queue.drain()
	th.lifecycle.markComplete()
}

// invokeGuarded runs r.fn, swallowing any error it returns and recovering
// any panic, so one bad request can never kill the scheduler goroutine.
func (th *Throttle) invokeGuarded(r request) {
	defer func() {
		if rec := recover(); rec != nil && th.OnAsyncError != nil {
			th.OnAsyncError(fmt.Errorf("throttle: recovered panic in async request: %v", rec))
		}
	}()

	if _, err := r.fn(); err != nil && th.OnAsyncError != nil {
		th.OnAsyncError(err)
	}
}

// pacedSleep sleeps d in slices no longer than shutdownSleepSlice so a
// shutdown signal received mid-sleep aborts the remaining wait promptly.
func (th *Throttle) pacedSleep(d time.Duration) {
	remaining := d
	for remaining > 0 && !th.lifecycle.isShutdown() {
		slice := remaining
		if slice > shutdownSleepSlice {
			slice = shutdownSleepSlice
		}
		<-th.clock.After(slice)
		remaining -= slice
	}
}
