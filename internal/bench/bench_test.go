package bench

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/torosent/throttlebench"
)

func TestRunCountsTotalRequestsSync(t *testing.T) {
	th, err := throttle.New(throttle.Options{
		Requests: 100, Period: time.Second, Mode: throttle.Sync{},
	})
	if err != nil {
		t.Fatalf("throttle.New: %v", err)
	}

	var invoked int32
	result := Run(context.Background(), Options{
		Throttle:      th,
		TotalRequests: 5,
		Requester: RequesterFunc(func(ctx context.Context) (time.Duration, error) {
			atomic.AddInt32(&invoked, 1)
			return time.Millisecond, nil
		}),
	})

	if result.Total != 5 {
		t.Errorf("Total = %d, want 5", result.Total)
	}
	if atomic.LoadInt32(&invoked) != 5 {
		t.Errorf("invoked = %d, want 5", invoked)
	}
	if result.Errors != 0 {
		t.Errorf("Errors = %d, want 0", result.Errors)
	}
}

func TestRunCountsErrorsFromRequester(t *testing.T) {
	th, err := throttle.New(throttle.Options{
		Requests: 100, Period: time.Second, Mode: throttle.Sync{},
	})
	if err != nil {
		t.Fatalf("throttle.New: %v", err)
	}

	result := Run(context.Background(), Options{
		Throttle:      th,
		TotalRequests: 3,
		Requester: RequesterFunc(func(ctx context.Context) (time.Duration, error) {
			return 0, errors.New("simulated failure")
		}),
	})

	if result.Errors != 3 {
		t.Errorf("Errors = %d, want 3", result.Errors)
	}
}

func TestRunWithAsyncThrottleCompletesAllWork(t *testing.T) {
	th, err := throttle.New(throttle.Options{
		Requests: 50, Period: time.Second, Mode: throttle.Async{QueueCapacity: 16},
	})
	if err != nil {
		t.Fatalf("throttle.New: %v", err)
	}

	var invoked int32
	result := Run(context.Background(), Options{
		Throttle:      th,
		TotalRequests: 4,
		Requester: RequesterFunc(func(ctx context.Context) (time.Duration, error) {
			atomic.AddInt32(&invoked, 1)
			return 0, nil
		}),
	})

	if result.Total != 4 {
		t.Errorf("Total = %d, want 4", result.Total)
	}
	// Async scheduling at 50 req/s for 4 requests finishes well within the
	// shutdown wait; all of them should have been invoked.
	if atomic.LoadInt32(&invoked) != 4 {
		t.Errorf("invoked = %d, want 4", invoked)
	}
}

func TestRunStopsAtDurationCap(t *testing.T) {
	th, err := throttle.New(throttle.Options{
		Requests: 1000, Period: time.Second, Mode: throttle.Sync{},
	})
	if err != nil {
		t.Fatalf("throttle.New: %v", err)
	}

	result := Run(context.Background(), Options{
		Throttle: th,
		Duration: 30 * time.Millisecond,
		Requester: RequesterFunc(func(ctx context.Context) (time.Duration, error) {
			return 0, nil
		}),
	})

	if result.Total == 0 {
		t.Error("expected at least one request before the duration cap")
	}
}

func TestRunInvokesOnAdmit(t *testing.T) {
	th, err := throttle.New(throttle.Options{
		Requests: 100, Period: time.Second, Mode: throttle.Sync{},
	})
	if err != nil {
		t.Fatalf("throttle.New: %v", err)
	}

	var admitted int32
	Run(context.Background(), Options{
		Throttle:      th,
		TotalRequests: 2,
		Requester: RequesterFunc(func(ctx context.Context) (time.Duration, error) {
			return 0, nil
		}),
		OnAdmit: func(id string, latency time.Duration, err error) {
			if id == "" {
				t.Error("OnAdmit received an empty correlation id")
			}
			atomic.AddInt32(&admitted, 1)
		},
	})

	if atomic.LoadInt32(&admitted) != 2 {
		t.Errorf("admitted = %d, want 2", admitted)
	}
}
