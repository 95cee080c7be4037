package sim

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"

	"moser/solver"
)

// flushEvery is how many trials a worker plays between cancellation polls
// and metrics bumps.
const flushEvery = 4096

// task is one worker's share of a run. Each task is handed to exactly one
// goroutine; workers share nothing but the Collector's atomic counters.
type task struct {
	index   int
	trials  int64
	table   solver.Table
	seed    uint64
	metrics Collector
}

// partial is the payout one worker accumulated over its trials. It carries
// the worker index so the merge can sum in index order and stay bit
// reproducible regardless of which worker finishes first.
type partial struct {
	worker  int
	payouts float64
	trials  int64
}

// runBatch plays t.trials games with a private RNG and sums the payouts.
// Each game presses until a draw meets the threshold for the presses still
// remaining; the final press keeps whatever comes up. A cancelled context
// stops the worker at the next flush boundary, and a panicking trial loop
// comes back as a WorkerError instead of taking down the process.
func runBatch(ctx context.Context, t task) (p partial, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &WorkerError{Worker: t.index, Err: fmt.Errorf("panic: %v", r)}
			p = partial{}
		}
	}()

	p.worker = t.index
	rng := rand.New(rand.NewSource(t.seed))
	presses := t.table.Presses()
	ceiling := t.table.Ceiling()
	thresholds := t.table.Values()

	for p.trials < t.trials {
		select {
		case <-ctx.Done():
			return partial{}, ctx.Err()
		default:
		}

		flush := t.trials - p.trials
		if flush > flushEvery {
			flush = flushEvery
		}

		for i := int64(0); i < flush; i++ {
			for press := 1; ; press++ {
				draw := rng.Float64() * ceiling
				if draw >= thresholds[press-1] || press == presses {
					p.payouts += draw
					break
				}
			}
		}

		p.trials += flush
		t.metrics.AddTrials(flush)
	}
	return p, nil
}
