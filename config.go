package throttle

import (
	"fmt"
	"time"
)

// Options configure a Throttle. Requests, Period, and Mode are required
// for every mode; Clock defaults to RealClock when left nil.
//
// The shutdownRequested/shutdownComplete fields are intentionally
// unexported: the source restricts those signals to the throttle
// decorator, and here that restriction is enforced at compile time by
// only wrap.go (same package) being able to populate them — an external
// caller cannot set a field it cannot name.
type Options struct {
	Requests int
	Period   time.Duration
	Mode     ModeConfig
	Clock    Clock

	shutdownRequested <-chan struct{}
	shutdownComplete  chan struct{}
}

// New constructs a Throttle per opt, validating every parameter against
// its mode's rules. All configuration errors are returned here; once New
// succeeds the Throttle is fully ready (an Async throttle's scheduler
// goroutine is already running).
func New(opt Options) (*Throttle, error) {
	if opt.Requests <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRequests, opt.Requests)
	}
	if opt.Period <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPeriod, opt.Period)
	}
	if opt.Mode == nil {
		return nil, fmt.Errorf("%w: mode is required", ErrInvalidMode)
	}

	mode := opt.Mode.mode()
	if (opt.shutdownRequested != nil || opt.shutdownComplete != nil) && mode != ModeAsync {
		return nil, fmt.Errorf("%w: supplied for mode %s", ErrInvalidShutdownSignal, mode)
	}

	clock := opt.Clock
	if clock == nil {
		clock = RealClock
	}

	th := &Throttle{
		requests:       opt.Requests,
		period:         opt.Period,
		targetInterval: opt.Period / time.Duration(opt.Requests),
		mode:           mode,
		clock:          clock,
	}

	switch cfg := opt.Mode.(type) {
	case Sync:
		// No additional parameters.
	case SyncEarlyBurst:
		if cfg.EarlyCount < 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidEarlyCount, cfg.EarlyCount)
		}
		th.earlyCount = cfg.EarlyCount
	case SyncLeakyBucket:
		if cfg.BucketCapacity <= 0 {
			return nil, fmt.Errorf("%w: got %s", ErrInvalidBucketCapacity, cfg.BucketCapacity)
		}
		th.bucketCapacity = cfg.BucketCapacity
	case Async:
		capacity := cfg.QueueCapacity
		if capacity == 0 {
			capacity = DefaultQueueCapacity
		}
		if capacity < 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidQueueCapacity, cfg.QueueCapacity)
		}
		th.queueCapacity = capacity
	default:
		return nil, fmt.Errorf("%w: unrecognized ModeConfig %T", ErrInvalidMode, opt.Mode)
	}

	if mode == ModeAsync {
		th.queue = newRequestQueue(th.queueCapacity)
		th.lifecycle = newLifecycle(opt.shutdownRequested, opt.shutdownComplete)
		th.wg.Add(1)
		go th.runScheduler()
	}

	return th, nil
}
