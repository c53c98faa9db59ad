package throttle

import "time"

// rateState is the mutable rate-tracking state guarded by Throttle.mu.
// expectedArrival is the earliest instant at which the next request is
// on-schedule; it starts at the zero Time, so the first real arrival is
// always on-time relative to it. earlyArrivalCount only has meaning under
// SyncEarlyBurst.
type rateState struct {
	expectedArrival   time.Time
	earlyArrivalCount int
}

// computeSyncAdmission decides whether an arrival at now must wait, for
// both ModeSync (earlyBudget == 0 behaves identically) and
// ModeSyncEarlyBurst. It is pure: no sleeping, no mutation of shared
// state beyond the returned rateState.
//
// On-time or late arrivals are admitted immediately and reset the early
// count. Early arrivals are admitted immediately too, up to earlyBudget
// consecutive times; the one after that is delayed until expectedArrival
// and the count resets.
func computeSyncAdmission(burst bool, earlyBudget int, now time.Time, st rateState) (wait time.Duration, next rateState) {
	if !now.Before(st.expectedArrival) {
		return 0, rateState{expectedArrival: st.expectedArrival}
	}

	count := st.earlyArrivalCount + 1
	if burst && count <= earlyBudget {
		return 0, rateState{expectedArrival: st.expectedArrival, earlyArrivalCount: count}
	}
	return st.expectedArrival.Sub(now), rateState{expectedArrival: st.expectedArrival}
}

// finalizeSyncArrival computes the new expectedArrival once the request
// has completed, for ModeSync and ModeSyncEarlyBurst. Using the
// completion time rather than the planned arrival time prevents a slow
// request from letting the next one arrive early relative to what the
// remote service actually observes.
func finalizeSyncArrival(completionTime, expectedArrival time.Time, targetInterval time.Duration) time.Time {
	base := expectedArrival
	if completionTime.After(base) {
		base = completionTime
	}
	return base.Add(targetInterval)
}

// computeLeakyBucketAdmission computes both the wait duration and the new
// expectedArrival for ModeSyncLeakyBucket, entirely from the arrival-time
// snapshot — unlike Sync/SyncEarlyBurst, there is no post-completion
// finalize step for this mode; the "later of (now, scheduled)" tie-break
// lives inside the projected-time computation itself.
//
// expectedArrival marks when the bucket would be empty again: each
// admission adds targetInterval to it, and an arrival waits only for the
// part of that fill that exceeds bucketCapacity.
func computeLeakyBucketAdmission(now, expectedArrival time.Time, bucketCapacity, targetInterval time.Duration) (wait time.Duration, newExpectedArrival time.Time) {
	projected := now
	if expectedArrival.After(projected) {
		projected = expectedArrival
	}
	projected = projected.Add(targetInterval)

	admitAt := projected.Add(-bucketCapacity)
	if !now.Before(admitAt) {
		return 0, projected
	}
	return admitAt.Sub(now), projected
}
