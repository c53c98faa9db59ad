// Package throttle implements a client-side request-rate throttle with
// four admission algorithms: Sync, SyncEarlyBurst, SyncLeakyBucket, and
// Async. A Throttle governs a single logical stream of outbound calls;
// it has no notion of server-side state, distributed coordination, or
// per-caller fairness.
package throttle

import "github.com/zoobzio/clockz"

// Clock is the time source a Throttle uses for admission timing and
// scheduler pacing. Production code should use RealClock; tests should
// inject a fake implementation to make timing assertions deterministic.
type Clock = clockz.Clock

// Timer represents a single pending wake-up, as returned by Clock.AfterFunc
// and Clock.NewTimer.
type Timer = clockz.Timer

// Ticker delivers ticks at a fixed interval, as returned by Clock.NewTicker.
type Ticker = clockz.Ticker

// RealClock is the default Clock, backed by the standard time package.
var RealClock Clock = clockz.RealClock
