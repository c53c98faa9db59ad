package benchconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "throttlebench",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

func configureFlags(flags *pflag.FlagSet) {
	flags.String("mode", "sync", "Throttle mode: sync, sync_early_burst, sync_leaky_bucket, or async")
	flags.IntP("requests", "n", 10, "Admitted requests per period")
	flags.DurationP("period", "p", time.Second, "Period over which requests is admitted")
	flags.Int("early-count", 0, "Consecutive early arrivals admitted without delay (sync_early_burst only)")
	flags.Duration("bucket-capacity", 0, "Overdraft tolerance (sync_leaky_bucket only)")
	flags.Int("queue-capacity", 0, "Bounded queue size, 0 selects the default (async only)")

	flags.IntP("total", "t", 0, "Total synthetic requests to submit (0 means unbounded until duration)")
	flags.DurationP("duration", "d", 0, "How long to run the benchmark (0 means unbounded until total)")

	flags.String("arrival-model", "uniform", "Synthetic arrival model: uniform or poisson")
	flags.Float64P("rate", "r", 0, "Synthetic arrival rate in requests/sec (0 means as fast as possible)")
	flags.Int64("seed", 0, "Random seed for the poisson arrival sampler (0 picks one from the clock)")

	flags.Duration("simulated-latency", time.Millisecond, "Simulated per-request latency")
	flags.Float64("simulated-error-rate", 0, "Fraction of simulated requests that fail, between 0 and 1")

	flags.Bool("dashboard", false, "Show a live terminal dashboard of admission timing")
	flags.Bool("json-output", false, "Emit a JSON summary instead of the plain-text report")
	flags.Bool("tracing", false, "Wrap the benchmark run in an OpenTelemetry span")
	flags.String("config", "", "Path to a YAML configuration file")
}

func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to cfg, overriding
// whatever came from a config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("arrival-model") {
		val, err := fs.GetString("arrival-model")
		if err != nil {
			return err
		}
		cfg.ArrivalModel = val
	}
	if fs.Changed("mode") {
		val, err := fs.GetString("mode")
		if err != nil {
			return err
		}
		cfg.Mode = Mode(val)
	}
	if fs.Changed("requests") {
		val, err := fs.GetInt("requests")
		if err != nil {
			return err
		}
		cfg.Requests = val
	}
	if fs.Changed("period") {
		val, err := fs.GetDuration("period")
		if err != nil {
			return err
		}
		cfg.Period = val
	}
	if fs.Changed("early-count") {
		val, err := fs.GetInt("early-count")
		if err != nil {
			return err
		}
		cfg.EarlyCount = val
	}
	if fs.Changed("bucket-capacity") {
		val, err := fs.GetDuration("bucket-capacity")
		if err != nil {
			return err
		}
		cfg.BucketCapacity = val
	}
	if fs.Changed("queue-capacity") {
		val, err := fs.GetInt("queue-capacity")
		if err != nil {
			return err
		}
		cfg.QueueCapacity = val
	}
	if fs.Changed("total") {
		val, err := fs.GetInt("total")
		if err != nil {
			return err
		}
		cfg.TotalRequests = val
	}
	if fs.Changed("duration") {
		val, err := fs.GetDuration("duration")
		if err != nil {
			return err
		}
		cfg.Duration = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetFloat64("rate")
		if err != nil {
			return err
		}
		cfg.RatePerSecond = val
	}
	if fs.Changed("seed") {
		val, err := fs.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.RandomSeed = val
	}
	if fs.Changed("simulated-latency") {
		val, err := fs.GetDuration("simulated-latency")
		if err != nil {
			return err
		}
		cfg.SimulatedLatency = val
	}
	if fs.Changed("simulated-error-rate") {
		val, err := fs.GetFloat64("simulated-error-rate")
		if err != nil {
			return err
		}
		cfg.SimulatedErrorRate = val
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("tracing") {
		val, err := fs.GetBool("tracing")
		if err != nil {
			return err
		}
		cfg.Tracing = val
	}

	return nil
}
