package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/torosent/throttlebench/internal/metrics"
)

func TestMsOf(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want float64
	}{
		{time.Millisecond, 1},
		{500 * time.Microsecond, 0.5},
		{0, 0},
	}
	for _, tt := range tests {
		if got := msOf(tt.in); got != tt.want {
			t.Errorf("msOf(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProgressPercentClampsToUnitRange(t *testing.T) {
	tests := []struct {
		rate float64
		want float64
	}{
		{50, 0.5},
		{0, 0},
		{1000, 1},
		{-10, 0},
	}
	for _, tt := range tests {
		if got := progressPercent(tt.rate); got != tt.want {
			t.Errorf("progressPercent(%v) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestFormatErrorBlockEmpty(t *testing.T) {
	if !strings.Contains(formatErrorBlock(nil), "no failures") {
		t.Fatalf("formatErrorBlock(nil) should report no failures")
	}
}

func TestFormatErrorBlockSortedByCountDescending(t *testing.T) {
	block := formatErrorBlock(map[string]int{
		"*net.OpError":   2,
		"context.Cancel": 9,
	})
	lines := strings.Split(block, "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Cancel") {
		t.Errorf("lines[0] = %q, want the higher-count error first", lines[0])
	}
}

func TestFormatRunParams(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RunConfig
		contains []string
	}{
		{
			name:     "requests and period always shown",
			cfg:      RunConfig{Requests: 10, Period: time.Second},
			contains: []string{"10 req / 1s"},
		},
		{
			name:     "arrival model shown when set",
			cfg:      RunConfig{Requests: 5, Period: time.Second, ArrivalModel: "poisson"},
			contains: []string{"arrival: poisson"},
		},
		{
			name:     "rate shown only when positive",
			cfg:      RunConfig{Requests: 5, Period: time.Second, RatePerSecond: 42.5},
			contains: []string{"target: 42.5/s"},
		},
		{
			name: "duration and total shown when set",
			cfg: RunConfig{
				Requests: 5, Period: time.Second,
				Duration: 30 * time.Second, TotalRequests: 1000,
			},
			contains: []string{"duration: 30s", "total: 1000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatRunParams(tt.cfg)
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("formatRunParams() = %q, want substring %q", result, s)
				}
			}
		})
	}
}

func TestUpdateHandlesQuitKey(t *testing.T) {
	var shutdownCalled bool
	m := New(metrics.NewCollector(), RunConfig{Requests: 1, Period: time.Second}, func() {
		shutdownCalled = true
	})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	next := updated.(Model)

	if !next.quitting {
		t.Error("quitting = false, want true after 'q'")
	}
	if !shutdownCalled {
		t.Error("shutdownFunc was not invoked on quit")
	}
	if cmd == nil {
		t.Error("expected a tea.Quit command")
	}
}

func TestUpdateHandlesTick(t *testing.T) {
	collector := metrics.NewCollector()
	collector.RecordRequest(5*time.Millisecond, nil)

	m := New(collector, RunConfig{Requests: 1, Period: time.Second}, nil)
	updated, _ := m.Update(tickMsg(time.Now()))
	next := updated.(Model)

	if next.stats.Total != 1 {
		t.Errorf("stats.Total = %d, want 1 after tick refreshes from the collector", next.stats.Total)
	}
}

func TestViewOmitsContentWhenQuitting(t *testing.T) {
	m := New(metrics.NewCollector(), RunConfig{Requests: 1, Period: time.Second}, nil)
	m.quitting = true
	if m.View() != "" {
		t.Error("View() should be empty once quitting")
	}
}
