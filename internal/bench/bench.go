// Package bench drives a throttle.Throttle with synthetic, rate-paced
// arrivals and records the outcome of each admitted call. It is the
// benchmark harness's analogue of a load generator's request scheduler,
// adapted to exercise a Throttle instead of an HTTP target.
package bench

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/torosent/throttlebench"
	"github.com/torosent/throttlebench/internal/arrival"
	"github.com/torosent/throttlebench/internal/metrics"
)

// Requester simulates the work a throttled call guards. Do should block
// for the call's simulated latency and return any simulated error.
type Requester interface {
	Do(ctx context.Context) (time.Duration, error)
}

// RequesterFunc adapts a plain function to Requester.
type RequesterFunc func(ctx context.Context) (time.Duration, error)

func (f RequesterFunc) Do(ctx context.Context) (time.Duration, error) { return f(ctx) }

// Options configure a benchmark run.
type Options struct {
	Throttle      *throttle.Throttle
	Arrival       arrival.Controller // optional; nil means no extra pacing beyond the throttle itself
	Requester     Requester
	Collector     *metrics.Collector
	TotalRequests int           // 0 means unlimited until Duration elapses
	Duration      time.Duration // 0 means no duration cap
	// OnAdmit, if set, is called once per admitted call with its
	// correlation id, latency and error; cmd/throttlebench uses it for
	// per-call trace spans and failure logging.
	OnAdmit func(id string, latency time.Duration, err error)
}

// Result summarizes a completed run.
type Result struct {
	Total    int64
	Errors   int64
	Duration time.Duration
}

// Run schedules arrivals per opt.Arrival and submits each one to
// opt.Throttle until opt.TotalRequests or opt.Duration is reached (or ctx
// is cancelled). Sync-mode throttles invoke each call on Run's own
// scheduling loop, so Send itself is the synchronization point; Async
// mode enqueues for its background scheduler instead, and Run waits for
// that queue to empty before shutting down unless ctx is cancelled or
// opt.Duration elapses first. Either way, Run finishes by calling
// StartShutdown, which for Async blocks until the scheduler has drained
// and exited, and is a harmless no-op error for the synchronous modes.
func Run(ctx context.Context, opt Options) Result {
	start := time.Now()
	var total int64
	var errs int64

	runCtx, cancel := context.WithCancel(ctx)
	if opt.Duration > 0 {
		var durCancel context.CancelFunc
		runCtx, durCancel = context.WithTimeout(runCtx, opt.Duration)
		defer durCancel()
	}
	defer cancel()

	for {
		if runCtx.Err() != nil {
			break
		}
		if opt.TotalRequests > 0 && atomic.LoadInt64(&total) >= int64(opt.TotalRequests) {
			break
		}
		if opt.Arrival != nil {
			if err := opt.Arrival.Wait(runCtx); err != nil {
				break
			}
		}

		atomic.AddInt64(&total, 1)
		id := correlationID()

		_, _ = opt.Throttle.Send(func() (any, error) {
			callStart := time.Now()
			_, err := opt.Requester.Do(runCtx)
			latency := time.Since(callStart)

			if opt.Collector != nil {
				opt.Collector.RecordRequest(latency, err)
			}
			if err != nil {
				atomic.AddInt64(&errs, 1)
			}
			if opt.OnAdmit != nil {
				opt.OnAdmit(id, latency, err)
			}
			return nil, err
		})
	}

	// Let an Async scheduler work through what is already queued; Len is
	// always 0 for the synchronous modes.
	for opt.Throttle.Len() > 0 && runCtx.Err() == nil {
		time.Sleep(time.Millisecond)
	}

	// Drained-but-never-invoked Async requests are deliberately excluded
	// from Errors and the collector: they never ran.
	_ = opt.Throttle.StartShutdown()

	return Result{
		Total:    atomic.LoadInt64(&total),
		Errors:   atomic.LoadInt64(&errs),
		Duration: time.Since(start),
	}
}
