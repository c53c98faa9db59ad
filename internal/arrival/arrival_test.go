package arrival

import (
	"context"
	"testing"
	"time"
)

func TestUniformControllerWaitsProportionallyToRate(t *testing.T) {
	ctrl := New(Options{Model: ModelUniform, RatePerSecond: 50})
	ctx := context.Background()

	// Drain the initial burst token.
	if err := ctrl.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	start := time.Now()
	if err := ctrl.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Errorf("elapsed %s, expected pacing near 1/50s", elapsed)
	}
}

func TestUniformControllerUnlimitedByDefault(t *testing.T) {
	ctrl := New(Options{Model: ModelUniform})
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := ctrl.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if time.Since(start) > 20*time.Millisecond {
		t.Error("unlimited controller should not pace at all")
	}
}

func TestPoissonControllerUsesInjectedSampler(t *testing.T) {
	ctrl := New(Options{
		Model:         ModelPoisson,
		RatePerSecond: 100,
		Sampler:       func() float64 { return 1.0 },
	})
	ctx := context.Background()

	start := time.Now()
	if err := ctrl.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	elapsed := time.Since(start)

	want := 10 * time.Millisecond
	if elapsed < want-5*time.Millisecond {
		t.Errorf("elapsed %s, want ~%s", elapsed, want)
	}
}

func TestPoissonControllerZeroRateNeverWaits(t *testing.T) {
	ctrl := New(Options{Model: ModelPoisson, Sampler: func() float64 { return 1.0 }})
	ctx := context.Background()
	start := time.Now()
	if err := ctrl.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if time.Since(start) > 5*time.Millisecond {
		t.Error("zero-rate Poisson controller should never delay")
	}
}

func TestControllerRespectsContextCancellation(t *testing.T) {
	ctrl := New(Options{Model: ModelPoisson, RatePerSecond: 1, Sampler: func() float64 { return 10 }})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ctrl.Wait(ctx); err == nil {
		t.Error("Wait should return an error when the context is already cancelled")
	}
}
