package benchconfig

import (
	"errors"
	"testing"
	"time"
)

func TestApplyConfigSettingsAppliesKnownFields(t *testing.T) {
	cfg := &Config{}
	settings := map[string]interface{}{
		"mode":           "async",
		"requests":       20,
		"period":         "2s",
		"queue_capacity": 64,
		"total":          100,
		"arrival_model":  "poisson",
		"rate":           50.5,
		"dashboard":      true,
	}

	if err := applyConfigSettings(cfg, settings); err != nil {
		t.Fatalf("applyConfigSettings() error = %v", err)
	}

	if cfg.Mode != ModeAsync {
		t.Errorf("Mode = %v, want async", cfg.Mode)
	}
	if cfg.Requests != 20 {
		t.Errorf("Requests = %d, want 20", cfg.Requests)
	}
	if cfg.Period != 2*time.Second {
		t.Errorf("Period = %v, want 2s", cfg.Period)
	}
	if cfg.QueueCapacity != 64 {
		t.Errorf("QueueCapacity = %d, want 64", cfg.QueueCapacity)
	}
	if cfg.TotalRequests != 100 {
		t.Errorf("TotalRequests = %d, want 100", cfg.TotalRequests)
	}
	if cfg.ArrivalModel != "poisson" {
		t.Errorf("ArrivalModel = %q, want poisson", cfg.ArrivalModel)
	}
	if cfg.RatePerSecond != 50.5 {
		t.Errorf("RatePerSecond = %v, want 50.5", cfg.RatePerSecond)
	}
	if !cfg.Dashboard {
		t.Error("Dashboard = false, want true")
	}
}

func TestApplyConfigSettingsIgnoresEmptySettings(t *testing.T) {
	cfg := &Config{Mode: ModeSync, Requests: 5}
	if err := applyConfigSettings(cfg, nil); err != nil {
		t.Fatalf("applyConfigSettings() error = %v", err)
	}
	if cfg.Mode != ModeSync || cfg.Requests != 5 {
		t.Error("applyConfigSettings mutated cfg despite empty settings")
	}
}

func TestApplyConfigSettingsRejectsBadValue(t *testing.T) {
	cfg := &Config{}
	settings := map[string]interface{}{"period": "not-a-duration"}
	err := applyConfigSettings(cfg, settings)
	if err == nil {
		t.Fatal("expected an error for an unparsable period")
	}
	var fe *fieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *fieldError", err)
	}
	if fe.field != "period" {
		t.Errorf("field = %q, want period", fe.field)
	}
}

func TestLoadRequiresArgsOrConfigFile(t *testing.T) {
	_, err := (Loader{}).Load(nil)
	if !errors.Is(err, ErrHelpRequested) {
		t.Fatalf("Load(nil) error = %v, want ErrHelpRequested", err)
	}
}

func TestLoadAppliesFlagOverridesOnTopOfDefaults(t *testing.T) {
	cfg, err := (Loader{}).Load([]string{"--mode=async", "--requests=25", "--total=10"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mode != ModeAsync {
		t.Errorf("Mode = %v, want async", cfg.Mode)
	}
	if cfg.Requests != 25 {
		t.Errorf("Requests = %d, want 25", cfg.Requests)
	}
	if cfg.TotalRequests != 10 {
		t.Errorf("TotalRequests = %d, want 10", cfg.TotalRequests)
	}
	// Untouched defaults survive flag parsing.
	if cfg.Period != defaultPeriod {
		t.Errorf("Period = %v, want default %v", cfg.Period, defaultPeriod)
	}
}
