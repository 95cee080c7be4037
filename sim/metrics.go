package sim

import (
	"sync/atomic"
	"time"
)

// RunMetric summarizes the instrumentation gathered over one run.
type RunMetric struct {
	Workers     int
	Trials      int64
	TrialsDone  int64
	WorkersDone int
	Elapsed     time.Duration
}

// Collector gathers run instrumentation. Implementations must be safe for
// concurrent use by all worker goroutines.
type Collector interface {
	Start(workers int, trials int64)
	AddTrials(n int64)
	WorkerDone()
	Complete() RunMetric
}

type collector struct {
	workers     int
	trials      int64
	startTime   time.Time
	trialsDone  atomic.Int64
	workersDone atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(workers int, trials int64) {
	m.startTime = time.Now()
	m.workers = workers
	m.trials = trials
}

func (m *collector) AddTrials(n int64) {
	m.trialsDone.Add(n)
}

func (m *collector) WorkerDone() {
	m.workersDone.Add(1)
}

// Complete snapshots the metric. Mid-run calls see the counters so far; the
// call after the last worker finishes is the run summary.
func (m *collector) Complete() RunMetric {
	return RunMetric{
		Workers:     m.workers,
		Trials:      m.trials,
		TrialsDone:  m.trialsDone.Load(),
		WorkersDone: int(m.workersDone.Load()),
		Elapsed:     time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(workers int, trials int64) {}
func (m *dummyCollector) AddTrials(n int64)               {}
func (m *dummyCollector) WorkerDone()                     {}
func (m *dummyCollector) Complete() RunMetric             { return RunMetric{} }
