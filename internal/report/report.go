// Package report renders a finished benchmark run's metrics.Stats as
// either a human-readable summary or a JSON document.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/torosent/throttlebench/internal/metrics"
)

// Print outputs a human-readable summary report.
func Print(w io.Writer, stats metrics.Stats) {
	fmt.Fprintln(w, "\n--- Throttle Benchmark Results ---")
	fmt.Fprintf(w, "Admitted:          %d\n", stats.Total)
	fmt.Fprintf(w, "Successful:        %d\n", stats.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failures)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)
	fmt.Fprintf(w, "Admissions/sec:    %.2f\n", stats.RequestsPerSec)
	fmt.Fprintln(w, "\nLatency:")
	fmt.Fprintf(w, "  Min:             %s\n", stats.MinLatency)
	fmt.Fprintf(w, "  Max:             %s\n", stats.MaxLatency)
	fmt.Fprintf(w, "  Mean:            %s\n", stats.MeanLatency)
	fmt.Fprintf(w, "  P50:             %s\n", stats.P50Latency)
	fmt.Fprintf(w, "  P90:             %s\n", stats.P90Latency)
	fmt.Fprintf(w, "  P99:             %s\n", stats.P99Latency)

	if len(stats.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		keys := make([]string, 0, len(stats.Errors))
		for k := range stats.Errors {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return stats.Errors[keys[i]] > stats.Errors[keys[j]] })
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %d\n", metrics.FriendlyErrorName(k), stats.Errors[k])
		}
	}
}

// PrintJSON outputs stats as an indented JSON document.
func PrintJSON(w io.Writer, stats metrics.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
