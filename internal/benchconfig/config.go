// Package benchconfig loads and validates the throttle benchmark CLI's
// configuration from flags and an optional config file.
package benchconfig

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultPeriod           = time.Second
	defaultSimulatedLatency = time.Millisecond
)

// Mode names the throttle algorithm under benchmark, mirroring the
// throttle package's ModeConfig sum type as a flat, flag-friendly string.
type Mode string

const (
	ModeSync            Mode = "sync"
	ModeSyncEarlyBurst  Mode = "sync_early_burst"
	ModeSyncLeakyBucket Mode = "sync_leaky_bucket"
	ModeAsync           Mode = "async"
)

// Config configures one benchmark run.
type Config struct {
	Mode           Mode          `mapstructure:"mode"`
	Requests       int           `mapstructure:"requests"`
	Period         time.Duration `mapstructure:"period"`
	EarlyCount     int           `mapstructure:"early_count"`
	BucketCapacity time.Duration `mapstructure:"bucket_capacity"`
	QueueCapacity  int           `mapstructure:"queue_capacity"`

	TotalRequests int           `mapstructure:"total"`
	Duration      time.Duration `mapstructure:"duration"`

	ArrivalModel  string  `mapstructure:"arrival_model"`
	RatePerSecond float64 `mapstructure:"rate"`
	RandomSeed    int64   `mapstructure:"seed"`

	SimulatedLatency   time.Duration `mapstructure:"simulated_latency"`
	SimulatedErrorRate float64       `mapstructure:"simulated_error_rate"`

	Dashboard  bool   `mapstructure:"dashboard"`
	JSONOutput bool   `mapstructure:"json_output"`
	Tracing    bool   `mapstructure:"tracing"`
	ConfigFile string `mapstructure:"-"`
}

// ValidationError aggregates every invalid field found by Validate so a
// user sees all of them at once instead of one at a time.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks Config for internally consistent, throttle.New-ready
// values. It repeats throttle.New's parameter checks for the selected
// mode (requests, period, early count, bucket capacity, queue capacity)
// and adds the CLI-specific ones, reporting every issue found at once
// before a throttle is ever constructed.
func (c Config) Validate() error {
	var issues []string

	if c.Requests <= 0 {
		issues = append(issues, "requests must be >= 1")
	}
	if c.Period <= 0 {
		issues = append(issues, "period must be a positive duration")
	}

	switch c.Mode {
	case ModeSync, ModeSyncEarlyBurst, ModeSyncLeakyBucket, ModeAsync:
	case "":
		issues = append(issues, "mode is required")
	default:
		issues = append(issues, fmt.Sprintf("mode %q is not one of sync, sync_early_burst, sync_leaky_bucket, async", c.Mode))
	}

	if c.Mode == ModeSyncEarlyBurst && c.EarlyCount < 0 {
		issues = append(issues, "early_count must be >= 0")
	}
	if c.Mode == ModeSyncLeakyBucket && c.BucketCapacity <= 0 {
		issues = append(issues, "bucket_capacity must be a positive duration")
	}
	if c.Mode == ModeAsync && c.QueueCapacity < 0 {
		issues = append(issues, "queue_capacity must be >= 0")
	}

	if c.TotalRequests < 0 {
		issues = append(issues, "total must be >= 0")
	}
	if c.Duration < 0 {
		issues = append(issues, "duration must be >= 0")
	}
	if c.TotalRequests == 0 && c.Duration == 0 {
		issues = append(issues, "one of total or duration is required so the run has a defined end")
	}

	switch strings.ToLower(c.ArrivalModel) {
	case "", "uniform", "poisson":
	default:
		issues = append(issues, fmt.Sprintf("arrival_model %q is not supported", c.ArrivalModel))
	}
	if c.RatePerSecond < 0 {
		issues = append(issues, "rate must be >= 0")
	}

	if c.SimulatedErrorRate < 0 || c.SimulatedErrorRate > 1 {
		issues = append(issues, "simulated_error_rate must be between 0 and 1")
	}
	if c.SimulatedLatency < 0 {
		issues = append(issues, "simulated_latency must be >= 0")
	}

	if c.Dashboard && c.JSONOutput {
		issues = append(issues, "dashboard and json_output are mutually exclusive")
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
