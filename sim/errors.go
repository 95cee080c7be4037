package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkers reports a worker count below one.
	ErrInvalidWorkers = errors.New("sim: workers must be at least 1")

	// ErrInvalidTrials reports a negative trial count.
	ErrInvalidTrials = errors.New("sim: trials must not be negative")

	// ErrZeroTrials reports a run with no trials. Refused up front so the run
	// can never produce a mean over zero samples.
	ErrZeroTrials = errors.New("sim: trials must be greater than zero")

	// ErrEmptyTable reports a zero-valued threshold table.
	ErrEmptyTable = errors.New("sim: threshold table has no presses")

	// ErrAlreadyRun reports a second Run call on the same Runner.
	ErrAlreadyRun = errors.New("sim: runner has already run")
)

// WorkerError reports that a single worker gave up mid-run. One failed
// worker fails the whole run; partial payouts are never merged.
type WorkerError struct {
	Worker int
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("sim: worker %d: %v", e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}
