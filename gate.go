package throttle

import "time"

// sendSync implements the synchronous gate (§4.2): acquire the rate-state
// mutex, compute the wait under one of the two rate-computer shapes,
// release the mutex, sleep outside it, invoke fn on the caller's
// goroutine, then reacquire the mutex to finalize state as each
// algorithm's update rule requires.
func (th *Throttle) sendSync(fn func() (any, error)) (any, error) {
	now := th.clock.Now()

	th.mu.Lock()
	var wait time.Duration
	switch th.mode {
	case ModeSync, ModeSyncEarlyBurst:
		wait, th.state = computeSyncAdmission(th.mode == ModeSyncEarlyBurst, th.earlyCount, now, th.state)
	case ModeSyncLeakyBucket:
		wait, th.state.expectedArrival = computeLeakyBucketAdmission(now, th.state.expectedArrival, th.bucketCapacity, th.targetInterval)
	}
	th.mu.Unlock()

	if wait > 0 {
		th.sleep(wait)
	}

	result, err := fn()

	// SyncLeakyBucket already committed its new expectedArrival at
	// arrival time; only Sync/SyncEarlyBurst finalize using the
	// completion time, per the distinct-update-rules decision in
	// DESIGN.md.
	if th.mode == ModeSync || th.mode == ModeSyncEarlyBurst {
		completion := th.clock.Now()
		th.mu.Lock()
		th.state.expectedArrival = finalizeSyncArrival(completion, th.state.expectedArrival, th.targetInterval)
		th.mu.Unlock()
	}

	return result, err
}

// sleep blocks the caller for d using the throttle's clock, so tests with
// a fake clock never actually wait in real time.
func (th *Throttle) sleep(d time.Duration) {
	<-th.clock.After(d)
}
