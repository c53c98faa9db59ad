// Package arrival generates synthetic request-arrival timings used to
// drive a throttle.Throttle under benchmark load. It supports a uniform
// model (evenly spaced arrivals via golang.org/x/time/rate) and a Poisson
// model (exponentially distributed inter-arrival times), mirroring the
// two arrival shapes a client library actually sees in production.
package arrival

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Model selects the arrival-timing distribution.
type Model string

const (
	// ModelUniform spaces arrivals evenly at the configured rate.
	ModelUniform Model = "uniform"

	// ModelPoisson samples exponential inter-arrival gaps to approximate
	// a Poisson arrival process.
	ModelPoisson Model = "poisson"
)

// Controller paces synthetic arrivals; SetRate adjusts its rate mid-run.
type Controller interface {
	Wait(ctx context.Context) error
	SetRate(rps float64)
}

// Options configure a Controller.
type Options struct {
	Model Model
	// RatePerSecond is the initial arrival rate; 0 means unlimited (no
	// pacing at all).
	RatePerSecond float64
	// RandomSeed seeds the Poisson sampler; 0 picks a seed from the
	// current time.
	RandomSeed int64
	// Sampler overrides the exponential sampler, for deterministic tests.
	Sampler func() float64
}

// New constructs a Controller per opt.
func New(opt Options) Controller {
	switch opt.Model {
	case ModelPoisson:
		sampler := opt.Sampler
		if sampler == nil {
			seed := opt.RandomSeed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			sampler = rand.New(rand.NewSource(seed)).ExpFloat64
		}
		ctrl := &poissonController{sample: sampler}
		ctrl.SetRate(opt.RatePerSecond)
		return ctrl
	default:
		ctrl := &uniformController{limiter: newLimiter(opt.RatePerSecond)}
		return ctrl
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	// A burst of one keeps arrivals evenly spaced rather than letting up
	// to a second's worth through at once.
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// uniformController delegates pacing to a rate.Limiter.
type uniformController struct {
	limiter *rate.Limiter
}

func (u *uniformController) Wait(ctx context.Context) error {
	return u.limiter.Wait(ctx)
}

func (u *uniformController) SetRate(rps float64) {
	if rps <= 0 {
		u.limiter.SetLimit(rate.Inf)
		u.limiter.SetBurst(0)
		return
	}
	u.limiter.SetLimit(rate.Limit(rps))
	u.limiter.SetBurst(1)
}

// poissonController samples exponential inter-arrival times.
type poissonController struct {
	mu     sync.Mutex
	rate   float64
	sample func() float64
}

func (p *poissonController) Wait(ctx context.Context) error {
	delay := p.nextDelay()
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *poissonController) SetRate(rps float64) {
	if rps < 0 {
		rps = 0
	}
	p.mu.Lock()
	p.rate = rps
	p.mu.Unlock()
}

func (p *poissonController) nextDelay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rate <= 0 || p.sample == nil {
		return 0
	}

	value := p.sample()
	delay := float64(time.Second) * value / p.rate
	if delay > math.MaxInt64 {
		delay = math.MaxInt64
	}
	return time.Duration(delay)
}
