package report

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/throttlebench/internal/metrics"
)

// ProgressReporter prints periodic single-line progress updates while a
// benchmark runs, for the plain-text (non-dashboard) terminal mode.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
}

// NewProgressReporter creates a progress reporter that updates at interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			stats := p.collector.Stats(time.Since(p.start))
			fmt.Fprintf(p.writer, "\rAdmitted: %d | Successes: %d | Failures: %d | Rate: %.1f/s",
				stats.Total, stats.Successes, stats.Failures, stats.RequestsPerSec)
		case <-p.done:
			return
		}
	}
}
