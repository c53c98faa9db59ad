package benchconfig

import (
	"errors"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

// Loader loads a Config from command-line arguments and an optional file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses args and an optional --config file into a Config. It does
// not call Validate; callers do that separately.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	settings := cfgViper.AllSettings()

	cfg := &Config{
		Mode:             ModeSync,
		Requests:         10,
		Period:           defaultPeriod,
		ArrivalModel:     "uniform",
		SimulatedLatency: defaultSimulatedLatency,
		ConfigFile:       configPath,
	}

	if err := applyConfigSettings(cfg, settings); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyConfigSettings applies settings loaded from a config file to cfg.
// Flag values, applied afterward by applyFlagOverrides, take precedence.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "mode"); ok {
		val, err := asString(raw)
		if err != nil {
			return errf("mode", err)
		}
		cfg.Mode = Mode(val)
	}
	if raw, ok := lookupSetting(settings, "requests"); ok {
		val, err := asInt(raw)
		if err != nil {
			return errf("requests", err)
		}
		cfg.Requests = val
	}
	if raw, ok := lookupSetting(settings, "period"); ok {
		val, err := asDuration(raw)
		if err != nil {
			return errf("period", err)
		}
		cfg.Period = val
	}
	if raw, ok := lookupSetting(settings, "earlycount", "early_count", "early-count"); ok {
		val, err := asInt(raw)
		if err != nil {
			return errf("early_count", err)
		}
		cfg.EarlyCount = val
	}
	if raw, ok := lookupSetting(settings, "bucketcapacity", "bucket_capacity", "bucket-capacity"); ok {
		val, err := asDuration(raw)
		if err != nil {
			return errf("bucket_capacity", err)
		}
		cfg.BucketCapacity = val
	}
	if raw, ok := lookupSetting(settings, "queuecapacity", "queue_capacity", "queue-capacity"); ok {
		val, err := asInt(raw)
		if err != nil {
			return errf("queue_capacity", err)
		}
		cfg.QueueCapacity = val
	}
	if raw, ok := lookupSetting(settings, "total"); ok {
		val, err := asInt(raw)
		if err != nil {
			return errf("total", err)
		}
		cfg.TotalRequests = val
	}
	if raw, ok := lookupSetting(settings, "duration"); ok {
		val, err := asDuration(raw)
		if err != nil {
			return errf("duration", err)
		}
		cfg.Duration = val
	}
	if raw, ok := lookupSetting(settings, "arrivalmodel", "arrival_model", "arrival-model"); ok {
		val, err := asString(raw)
		if err != nil {
			return errf("arrival_model", err)
		}
		cfg.ArrivalModel = val
	}
	if raw, ok := lookupSetting(settings, "rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return errf("rate", err)
		}
		cfg.RatePerSecond = val
	}
	if raw, ok := lookupSetting(settings, "seed"); ok {
		val, err := asInt(raw)
		if err != nil {
			return errf("seed", err)
		}
		cfg.RandomSeed = int64(val)
	}
	if raw, ok := lookupSetting(settings, "simulatedlatency", "simulated_latency", "simulated-latency"); ok {
		val, err := asDuration(raw)
		if err != nil {
			return errf("simulated_latency", err)
		}
		cfg.SimulatedLatency = val
	}
	if raw, ok := lookupSetting(settings, "simulatederrorrate", "simulated_error_rate", "simulated-error-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return errf("simulated_error_rate", err)
		}
		cfg.SimulatedErrorRate = val
	}
	if raw, ok := lookupSetting(settings, "dashboard"); ok {
		val, err := asBool(raw)
		if err != nil {
			return errf("dashboard", err)
		}
		cfg.Dashboard = val
	}
	if raw, ok := lookupSetting(settings, "jsonoutput", "json_output", "json-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return errf("json_output", err)
		}
		cfg.JSONOutput = val
	}
	if raw, ok := lookupSetting(settings, "tracing"); ok {
		val, err := asBool(raw)
		if err != nil {
			return errf("tracing", err)
		}
		cfg.Tracing = val
	}

	return nil
}

func errf(field string, err error) error {
	return &fieldError{field: field, err: err}
}

type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.field + ": " + e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }
