// Command throttlebench drives a throttle.Throttle with a synthetic,
// rate-paced request stream and reports admission and latency statistics.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/torosent/throttlebench"
	"github.com/torosent/throttlebench/internal/arrival"
	"github.com/torosent/throttlebench/internal/bench"
	"github.com/torosent/throttlebench/internal/benchconfig"
	"github.com/torosent/throttlebench/internal/dashboard"
	"github.com/torosent/throttlebench/internal/metrics"
	"github.com/torosent/throttlebench/internal/report"
	"github.com/torosent/throttlebench/internal/telemetry"
)

const progressInterval = time.Second

// stderrFailureLogger prints one line per failed call, matching
// cmd/crankfire's stderrFailureLogger.
type stderrFailureLogger struct {
	mu sync.Mutex
}

func (l *stderrFailureLogger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := benchconfig.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, benchconfig.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	modeConfig, err := toModeConfig(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.Options{
		Enabled: cfg.Tracing,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, runSpan := telemetry.StartRunSpan(ctx, tp.Tracer(), string(cfg.Mode))
	defer func() { telemetry.EndSpan(runSpan, nil) }()

	th, err := throttle.New(throttle.Options{
		Requests: cfg.Requests,
		Period:   cfg.Period,
		Mode:     modeConfig,
	})
	if err != nil {
		return fmt.Errorf("constructing throttle: %w", err)
	}

	arrivalCtrl := arrival.New(arrival.Options{
		Model:         toArrivalModel(cfg.ArrivalModel),
		RatePerSecond: cfg.RatePerSecond,
		RandomSeed:    cfg.RandomSeed,
	})

	collector := metrics.NewCollector()
	failureLog := &stderrFailureLogger{}

	requester := newSimulatedRequester(cfg)
	tracer := tp.Tracer()

	opts := bench.Options{
		Throttle:      th,
		Arrival:       arrivalCtrl,
		Requester:     requester,
		Collector:     collector,
		TotalRequests: cfg.TotalRequests,
		Duration:      cfg.Duration,
		OnAdmit: func(id string, latency time.Duration, err error) {
			_, span := telemetry.StartAdmissionSpan(ctx, tracer, id)
			telemetry.EndSpan(span, err)
			if err != nil {
				failureLog.Logf("admission %s failed after %s: %v", id, latency, err)
			}
		},
	}

	var prog *tea.Program
	var dashDone chan struct{}
	if cfg.Dashboard {
		model := dashboard.New(collector, dashboard.RunConfig{
			Mode:          string(cfg.Mode),
			Requests:      cfg.Requests,
			Period:        cfg.Period,
			TotalRequests: cfg.TotalRequests,
			Duration:      cfg.Duration,
			ArrivalModel:  cfg.ArrivalModel,
			RatePerSecond: cfg.RatePerSecond,
		}, cancel)
		prog = tea.NewProgram(model)
		dashDone = make(chan struct{})
		go func() {
			defer close(dashDone)
			_, _ = prog.Run()
		}()
	}

	var progress *report.ProgressReporter
	if !cfg.JSONOutput && !cfg.Dashboard {
		progress = report.NewProgressReporter(collector, progressInterval, os.Stdout)
		progress.Start()
		defer func() {
			progress.Stop()
			fmt.Fprintln(os.Stdout)
		}()
	}

	result := bench.Run(ctx, opts)

	if prog != nil {
		prog.Quit()
		<-dashDone
	}

	stats := collector.Stats(result.Duration)

	if cfg.JSONOutput {
		if err := report.PrintJSON(os.Stdout, stats); err != nil {
			return err
		}
	} else {
		report.Print(os.Stdout, stats)
	}

	if result.Errors > 0 {
		return fmt.Errorf("%d admitted requests failed", result.Errors)
	}
	return nil
}

func toModeConfig(cfg *benchconfig.Config) (throttle.ModeConfig, error) {
	switch cfg.Mode {
	case benchconfig.ModeSync:
		return throttle.Sync{}, nil
	case benchconfig.ModeSyncEarlyBurst:
		return throttle.SyncEarlyBurst{EarlyCount: cfg.EarlyCount}, nil
	case benchconfig.ModeSyncLeakyBucket:
		return throttle.SyncLeakyBucket{BucketCapacity: cfg.BucketCapacity}, nil
	case benchconfig.ModeAsync:
		return throttle.Async{QueueCapacity: cfg.QueueCapacity}, nil
	default:
		return nil, fmt.Errorf("unrecognized mode %q", cfg.Mode)
	}
}

func toArrivalModel(model string) arrival.Model {
	switch model {
	case "poisson":
		return arrival.ModelPoisson
	default:
		return arrival.ModelUniform
	}
}

// simulatedRequester stands in for the network call a real client would
// throttle: it sleeps for SimulatedLatency and fails at SimulatedErrorRate.
type simulatedRequester struct {
	latency   time.Duration
	errorRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func newSimulatedRequester(cfg *benchconfig.Config) *simulatedRequester {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &simulatedRequester{
		latency:   cfg.SimulatedLatency,
		errorRate: cfg.SimulatedErrorRate,
		rnd:       rand.New(rand.NewSource(seed)),
	}
}

func (r *simulatedRequester) Do(ctx context.Context) (time.Duration, error) {
	if r.latency > 0 {
		timer := time.NewTimer(r.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return r.latency, ctx.Err()
		case <-timer.C:
		}
	}

	if r.fail() {
		return r.latency, fmt.Errorf("simulated downstream failure")
	}
	return r.latency, nil
}

func (r *simulatedRequester) fail() bool {
	if r.errorRate <= 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64() < r.errorRate
}
