package throttle

import "errors"

// Sentinel errors distinguishing each construction/usage failure kind.
// Wrap these with fmt.Errorf("%w: ...", ErrX, detail) for context; callers
// that need the kind programmatically should use errors.Is(err, ErrX).
var (
	// ErrInvalidRequests is returned when requests is not a positive integer.
	ErrInvalidRequests = errors.New("throttle: requests must be a positive integer")

	// ErrInvalidPeriod is returned when period is not a positive duration.
	ErrInvalidPeriod = errors.New("throttle: period must be a positive duration")

	// ErrInvalidMode is returned when Options.Mode is nil or an unrecognized ModeConfig.
	ErrInvalidMode = errors.New("throttle: mode must be one of Sync, SyncEarlyBurst, SyncLeakyBucket, Async")

	// ErrInvalidQueueCapacity is returned when an Async queue capacity is negative.
	// Only Async carries a queue capacity, so no other mode can supply one.
	ErrInvalidQueueCapacity = errors.New("throttle: queue capacity must be a non-negative integer, and only valid for Async")

	// ErrInvalidEarlyCount is returned when early count is negative. Only
	// SyncEarlyBurst carries an early count, so no other mode can supply one.
	ErrInvalidEarlyCount = errors.New("throttle: early count must be a non-negative integer, and only valid for SyncEarlyBurst")

	// ErrInvalidBucketCapacity is returned when bucket capacity is not
	// strictly positive. Only SyncLeakyBucket carries a bucket capacity, so
	// no other mode can supply one.
	ErrInvalidBucketCapacity = errors.New("throttle: bucket capacity must be a positive duration, and only valid for SyncLeakyBucket")

	// ErrInvalidShutdownSignal is returned when shutdown signal channels are
	// supplied outside a Wrap-adapted Async throttle.
	ErrInvalidShutdownSignal = errors.New("throttle: shutdown signal channels are only valid for Wrap-adapted Async throttles")

	// ErrShutdownNotApplicable is returned by StartShutdown on a non-Async throttle.
	ErrShutdownNotApplicable = errors.New("throttle: StartShutdown is only valid for Async throttles")
)
