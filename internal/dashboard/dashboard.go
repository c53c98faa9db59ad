// Package dashboard renders a live terminal UI of a running throttle
// benchmark: admission rate, latency distribution, and error breakdown.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/torosent/throttlebench/internal/metrics"
)

// RunConfig holds benchmark parameters for display.
type RunConfig struct {
	Mode          string
	Requests      int
	Period        time.Duration
	TotalRequests int
	Duration      time.Duration
	ArrivalModel  string
	RatePerSecond float64
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// tickMsg drives the periodic stats refresh.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model for the benchmark dashboard. It polls
// collector on every tick and renders admission throughput, latency
// percentiles, and an error breakdown alongside the run's configuration.
type Model struct {
	collector    *metrics.Collector
	runConfig    RunConfig
	shutdownFunc func()

	progress progress.Model
	spinner  spinner.Model

	startTime time.Time
	stats     metrics.Stats
	quitting  bool
}

// New creates a dashboard Model over collector. shutdownFunc, if set, is
// invoked when the user presses q or Ctrl-C so the caller can stop the
// underlying benchmark run; the dashboard itself exits immediately.
func New(collector *metrics.Collector, cfg RunConfig, shutdownFunc func()) Model {
	p := progress.New(progress.WithDefaultGradient())
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	return Model{
		collector:    collector,
		runConfig:    cfg,
		shutdownFunc: shutdownFunc,
		progress:     p,
		spinner:      s,
		startTime:    time.Now(),
	}
}

// Init starts the tick loop and the spinner animation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.spinner.Tick)
}

// Update handles a tick by refreshing stats from the collector, or a key
// press by requesting shutdown.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if m.shutdownFunc != nil {
				m.shutdownFunc()
			}
			return m, tea.Quit
		}
	case tickMsg:
		m.stats = m.collector.Stats(time.Since(m.startTime))
		cmd := m.progress.SetPercent(progressPercent(m.stats.RequestsPerSec))
		return m, tea.Batch(tick(), cmd)
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s throttlebench — %s", m.spinner.View(), m.runConfig.Mode)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(formatRunParams(m.runConfig)))
	b.WriteString("\n\n")

	successRate := 0.0
	if m.stats.Total > 0 {
		successRate = (float64(m.stats.Successes) / float64(m.stats.Total)) * 100
	}

	summary := fmt.Sprintf(
		"Admitted: %d    Success: %s    Rate: %.1f/s",
		m.stats.Total,
		successStyle.Render(fmt.Sprintf("%.1f%%", successRate)),
		m.stats.RequestsPerSec,
	)
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Admission rate"))
	b.WriteString("\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n\n")

	latency := fmt.Sprintf(
		"Min %.2fms  Mean %.2fms  P50 %.2fms  P90 %.2fms  P99 %.2fms",
		msOf(m.stats.MinLatency), msOf(m.stats.MeanLatency),
		msOf(m.stats.P50Latency), msOf(m.stats.P90Latency), msOf(m.stats.P99Latency),
	)
	b.WriteString(boxStyle.Render("Latency\n" + latency))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render("Errors\n" + formatErrorBlock(m.stats.Errors)))
	b.WriteString("\n\nq to quit\n")

	return b.String()
}

// FinalStats returns the run's statistics as of the last tick.
func (m Model) FinalStats() metrics.Stats {
	return m.stats
}

func progressPercent(requestsPerSec float64) float64 {
	const assumedCeiling = 100.0
	pct := requestsPerSec / assumedCeiling
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

func msOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func formatErrorBlock(errs map[string]int) string {
	if len(errs) == 0 {
		return successStyle.Render("no failures")
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return errs[keys[i]] > errs[keys[j]] })

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("%s x%d", metrics.FriendlyErrorName(k), errs[k])))
	}
	return strings.Join(lines, "\n")
}

func formatRunParams(cfg RunConfig) string {
	parts := []string{fmt.Sprintf("%d req / %s", cfg.Requests, cfg.Period)}

	if cfg.ArrivalModel != "" {
		parts = append(parts, fmt.Sprintf("arrival: %s", cfg.ArrivalModel))
	}
	if cfg.RatePerSecond > 0 {
		parts = append(parts, fmt.Sprintf("target: %.1f/s", cfg.RatePerSecond))
	}
	if cfg.Duration > 0 {
		parts = append(parts, fmt.Sprintf("duration: %s", cfg.Duration))
	}
	if cfg.TotalRequests > 0 {
		parts = append(parts, fmt.Sprintf("total: %d", cfg.TotalRequests))
	}

	return strings.Join(parts, " | ")
}
