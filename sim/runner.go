// Package sim validates a threshold table empirically: it replays the press
// game over millions of independent trials, fanned out across worker
// goroutines, and merges the payouts into a single mean for comparison
// against the table's theoretical expectation.
package sim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"moser/solver"
)

// Phase is the lifecycle stage of a Runner. Phases only ever advance; a
// Runner never re-enters an earlier stage.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseDistributing
	PhaseRunning
	PhaseAggregating
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDistributing:
		return "distributing"
	case PhaseRunning:
		return "running"
	case PhaseAggregating:
		return "aggregating"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Result is the merged outcome of one run.
type Result struct {
	GrandTotal float64
	Trials     int64
	Mean       float64
	Elapsed    time.Duration
	Metric     RunMetric
}

type Option func(r *Runner)

// WithSeed pins the run to a reproducible base seed. Worker seeds derive
// from it, so the same seed, workers, trials and table reproduce the same
// GrandTotal bit for bit.
func WithSeed(seed uint64) Option {
	return func(r *Runner) {
		r.seed = seed
		r.seeded = true
	}
}

// WithMetrics turns on run instrumentation.
func WithMetrics() Option {
	return func(r *Runner) {
		r.metrics = NewCollector()
	}
}

// WithProgress logs a heartbeat every interval while workers run. Implies
// metrics.
func WithProgress(interval time.Duration) Option {
	return func(r *Runner) {
		if interval > 0 {
			r.progress = interval
			r.metrics = NewCollector()
		}
	}
}

// Runner fans one simulation out over a fixed set of workers and merges
// their partial payouts. A Runner runs exactly once; build a new one for
// the next run.
type Runner struct {
	workers  int
	seed     uint64
	seeded   bool
	progress time.Duration
	metrics  Collector
	phase    atomic.Int32
}

func New(workers int, options ...Option) *Runner {
	r := &Runner{ // Default values
		workers: workers,
		metrics: NewDummyCollector(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Phase reports the lifecycle stage the Runner is in.
func (r *Runner) Phase() Phase {
	return Phase(r.phase.Load())
}

// Run plays trials games against table and returns the merged result. Any
// call consumes the Runner's single shot: later calls get ErrAlreadyRun no
// matter how the first ended. Validation failures, cancellation and worker
// errors all leave the Runner in PhaseFailed with nothing merged.
func (r *Runner) Run(ctx context.Context, trials int64, table solver.Table) (Result, error) {
	if !r.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseDistributing)) {
		return Result{}, ErrAlreadyRun
	}

	if err := r.validate(trials, table); err != nil {
		r.phase.Store(int32(PhaseFailed))
		return Result{}, err
	}

	start := time.Now()
	if !r.seeded {
		r.seed = NewSeed()
	}
	shares := distribute(trials, r.workers)
	r.metrics.Start(r.workers, trials)

	log.Debug().
		Int("workers", r.workers).
		Int64("trials", trials).
		Uint64("seed", r.seed).
		Msg("dispatching workers")

	r.phase.Store(int32(PhaseRunning))

	partials := make(chan partial, r.workers) // buffered so senders never block
	g, gctx := errgroup.WithContext(ctx)
	for i, share := range shares {
		t := task{
			index:   i,
			trials:  share,
			table:   table,
			seed:    workerSeed(r.seed, i),
			metrics: r.metrics,
		}
		g.Go(func() error {
			defer r.metrics.WorkerDone()

			p, err := runBatch(gctx, t)
			if err != nil {
				return err
			}
			partials <- p
			return nil
		})
	}

	beat := make(chan struct{})
	if r.progress > 0 {
		go r.heartbeat(beat)
	}
	err := g.Wait()
	close(beat)

	if err != nil {
		r.phase.Store(int32(PhaseFailed))
		return Result{}, err
	}

	r.phase.Store(int32(PhaseAggregating))
	close(partials)

	// Sum in worker order, not arrival order, so seeded runs reproduce the
	// grand total bit for bit.
	byWorker := make([]partial, r.workers)
	for p := range partials {
		byWorker[p.worker] = p
	}
	var grand float64
	var covered int64
	for _, p := range byWorker {
		grand += p.payouts
		covered += p.trials
	}
	if covered != trials {
		r.phase.Store(int32(PhaseFailed))
		return Result{}, fmt.Errorf("sim: merged %d of %d trials", covered, trials)
	}

	result := Result{
		GrandTotal: grand,
		Trials:     trials,
		Mean:       grand / float64(trials),
		Elapsed:    time.Since(start),
		Metric:     r.metrics.Complete(),
	}
	r.phase.Store(int32(PhaseDone))

	log.Debug().
		Float64("mean", result.Mean).
		Dur("elapsed", result.Elapsed).
		Msg("run complete")
	return result, nil
}

func (r *Runner) validate(trials int64, table solver.Table) error {
	if r.workers < 1 {
		return ErrInvalidWorkers
	}
	if trials < 0 {
		return ErrInvalidTrials
	}
	if trials == 0 {
		return ErrZeroTrials
	}
	if table.Presses() == 0 {
		return ErrEmptyTable
	}
	return nil
}

func (r *Runner) heartbeat(done <-chan struct{}) {
	ticker := time.NewTicker(r.progress)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m := r.metrics.Complete()
			log.Info().
				Int64("trials_done", m.TrialsDone).
				Int64("trials", m.Trials).
				Int("workers_done", m.WorkersDone).
				Msg("simulation progress")
		}
	}
}
