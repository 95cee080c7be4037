// Package report renders threshold tables and simulation outcomes as
// fixed-width text. Output goes to any io.Writer; nothing is persisted.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"moser/experiments"
	"moser/sim"
	"moser/solver"
)

// WriteTable renders the acceptance thresholds ordered from the full press
// budget down to the forced final press.
func WriteTable(w io.Writer, t solver.Table) error {
	_, err := fmt.Fprintf(w, "Optimal thresholds for %d presses over [0, %.0f):\n\n", t.Presses(), t.Ceiling())
	if err != nil {
		return fmt.Errorf("report: failed to write table header: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%-10s | %s\n", "Remaining", "Threshold"); err != nil {
		return fmt.Errorf("report: failed to write table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 24)); err != nil {
		return fmt.Errorf("report: failed to write table header: %w", err)
	}

	for remaining := t.Presses(); remaining >= 1; remaining-- {
		if _, err := fmt.Fprintf(w, "%-10d | %11.2f\n", remaining, t.At(remaining)); err != nil {
			return fmt.Errorf("report: failed to write table row: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "\nExpected payout under optimal play: %.2f\n", t.Expected()); err != nil {
		return fmt.Errorf("report: failed to write expectation: %w", err)
	}
	return nil
}

// WriteResult renders one simulation outcome next to the theoretical
// expectation it is validating.
func WriteResult(w io.Writer, t solver.Table, res sim.Result) error {
	if res.Metric.Workers > 0 {
		_, err := fmt.Fprintf(w, "Simulated %d trials across %d workers in %s\n\n",
			res.Trials, res.Metric.Workers, res.Elapsed.Round(time.Millisecond))
		if err != nil {
			return fmt.Errorf("report: failed to write result header: %w", err)
		}
	} else {
		_, err := fmt.Fprintf(w, "Simulated %d trials in %s\n\n", res.Trials, res.Elapsed.Round(time.Millisecond))
		if err != nil {
			return fmt.Errorf("report: failed to write result header: %w", err)
		}
	}

	absErr := math.Abs(res.Mean - t.Expected())
	relErr := 100 * absErr / t.Expected()
	_, err := fmt.Fprintf(w, "%-17s %12.2f\n%-17s %12.2f\n%-17s %12.2f (%.3f%%)\n",
		"Mean payout:", res.Mean,
		"Expected payout:", t.Expected(),
		"Absolute error:", absErr, relErr)
	if err != nil {
		return fmt.Errorf("report: failed to write result body: %w", err)
	}
	return nil
}

// WriteScaling renders one row per sweep point.
func WriteScaling(w io.Writer, records []experiments.ScalingRecord) error {
	if _, err := fmt.Fprintf(w, "%-10s | %-12s | %-10s | %-12s | %s\n",
		"Workers", "Mean", "Abs Error", "Elapsed", "Speedup"); err != nil {
		return fmt.Errorf("report: failed to write scaling header: %w", err)
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 62)); err != nil {
		return fmt.Errorf("report: failed to write scaling header: %w", err)
	}

	for _, rec := range records {
		_, err := fmt.Fprintf(w, "%-10d | %-12.2f | %-10.2f | %-12s | %.2f\n",
			rec.Workers, rec.Mean, rec.AbsError, rec.Elapsed.Round(time.Millisecond), rec.Speedup)
		if err != nil {
			return fmt.Errorf("report: failed to write scaling row: %w", err)
		}
	}
	return nil
}
