// Package experiments measures how the simulation behaves as its resources
// change. The scaling sweep replays the same workload across doubling worker
// counts to show where throughput stops improving.
package experiments

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"moser/sim"
	"moser/solver"
)

// ScalingConfig describes one worker-scaling sweep. Every point replays the
// same trial budget and base seed, so the only variable is the worker count.
type ScalingConfig struct {
	Trials     int64
	MaxWorkers int
	Presses    int
	Ceiling    float64
	Seed       uint64
}

// ScalingRecord is the outcome of one sweep point.
type ScalingRecord struct {
	Workers  int
	Trials   int64
	Mean     float64
	AbsError float64
	Elapsed  time.Duration
	Speedup  float64
}

// RunScaling sweeps worker counts doubling from 1 up to cfg.MaxWorkers and
// runs the full trial budget at each point. Speedup is wall time relative to
// the single-worker point; AbsError is the distance from the theoretical
// expectation. The first failed point abandons the sweep.
func RunScaling(ctx context.Context, cfg ScalingConfig) ([]ScalingRecord, error) {
	if cfg.MaxWorkers < 1 {
		return nil, sim.ErrInvalidWorkers
	}
	table, err := solver.New(cfg.Presses, cfg.Ceiling)
	if err != nil {
		return nil, err
	}

	counts := workerCounts(cfg.MaxWorkers)

	log.Info().Msgf("starting scaling sweep over %d worker counts...", len(counts))

	records := make([]ScalingRecord, 0, len(counts))
	var baseline time.Duration
	for i, workers := range counts {
		log.Info().Msgf("starting point %d of %d with %d workers...", i+1, len(counts), workers)

		r := sim.New(workers, sim.WithSeed(cfg.Seed), sim.WithMetrics())
		res, err := r.Run(ctx, cfg.Trials, table)
		if err != nil {
			return nil, err
		}

		if workers == 1 {
			baseline = res.Elapsed
		}
		speedup := 0.0
		if res.Elapsed > 0 {
			speedup = float64(baseline) / float64(res.Elapsed)
		}
		records = append(records, ScalingRecord{
			Workers:  workers,
			Trials:   res.Trials,
			Mean:     res.Mean,
			AbsError: math.Abs(res.Mean - table.Expected()),
			Elapsed:  res.Elapsed,
			Speedup:  speedup,
		})

		log.Info().Msgf("completed point %d of %d: mean %.2f in %s", i+1, len(counts), res.Mean, res.Elapsed)
	}

	log.Info().Msg("completed scaling sweep")
	return records, nil
}

// workerCounts doubles from 1 up to limit, always ending on limit itself.
func workerCounts(limit int) []int {
	counts := []int{}
	for w := 1; w < limit; w *= 2 {
		counts = append(counts, w)
	}
	return append(counts, limit)
}
