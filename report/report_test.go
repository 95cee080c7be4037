package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"moser/experiments"
	"moser/sim"
	"moser/solver"
)

func TestWriteTable(t *testing.T) {
	table, err := solver.New(10, 100000)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, table))

	out := buf.String()
	require.Contains(t, out, "Optimal thresholds for 10 presses over [0, 100000):")
	require.Contains(t, out, "Remaining  | Threshold")
	require.Contains(t, out, "84982.14", "The full-budget threshold should appear")
	require.Contains(t, out, "0.00", "The forced final press should appear")
	require.Contains(t, out, "Expected payout under optimal play: 86109.82")
}

func TestWriteResult(t *testing.T) {
	table, err := solver.New(10, 100000)
	require.NoError(t, err)

	res := sim.Result{
		GrandTotal: 86120.5 * 1000,
		Trials:     1000,
		Mean:       86120.5,
		Elapsed:    1234 * time.Millisecond,
		Metric:     sim.RunMetric{Workers: 4, Trials: 1000, TrialsDone: 1000, WorkersDone: 4},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, table, res))

	out := buf.String()
	require.Contains(t, out, "Simulated 1000 trials across 4 workers in 1.234s")
	require.Contains(t, out, "Mean payout:")
	require.Contains(t, out, "86120.50")
	require.Contains(t, out, "Expected payout:")
	require.Contains(t, out, "86109.82")
	require.Contains(t, out, "Absolute error:")
}

func TestWriteResultWithoutMetrics(t *testing.T) {
	table, err := solver.New(10, 100000)
	require.NoError(t, err)

	res := sim.Result{Mean: 86109.8, Trials: 500, Elapsed: time.Second}

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, table, res))
	require.Contains(t, buf.String(), "Simulated 500 trials in 1s")
	require.NotContains(t, buf.String(), "workers", "An uninstrumented run should not claim a worker count")
}

func TestWriteScaling(t *testing.T) {
	records := []experiments.ScalingRecord{
		{Workers: 1, Trials: 1000, Mean: 86100.12, AbsError: 9.68, Elapsed: 2 * time.Second, Speedup: 1},
		{Workers: 2, Trials: 1000, Mean: 86120.34, AbsError: 10.54, Elapsed: time.Second, Speedup: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteScaling(&buf, records))

	out := buf.String()
	require.Contains(t, out, "Workers")
	require.Contains(t, out, "Speedup")
	require.Contains(t, out, "86100.12")
	require.Contains(t, out, "2.00", "The two-worker point should show its speedup")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriteFailuresPropagate(t *testing.T) {
	table, err := solver.New(3, 100)
	require.NoError(t, err)

	require.Error(t, WriteTable(failingWriter{}, table))
	require.Error(t, WriteResult(failingWriter{}, table, sim.Result{Trials: 1}))
	require.Error(t, WriteScaling(failingWriter{}, []experiments.ScalingRecord{{Workers: 1}}))
}
