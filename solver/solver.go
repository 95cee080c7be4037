// Package solver derives the optimal acceptance thresholds for the bounded
// press game: up to n presses of a button, each revealing a prize drawn
// uniformly from [0, ceiling); keeping a prize ends the game, and a prize
// revealed on the final press must be kept.
package solver

import (
	"errors"
	"math"
)

// ErrInvalidPresses indicates a press budget below one.
var ErrInvalidPresses = errors.New("solver: presses must be at least 1")

// ErrInvalidCeiling indicates a prize ceiling that is not a positive finite number.
var ErrInvalidCeiling = errors.New("solver: ceiling must be a positive finite number")

// Table holds one acceptance threshold per number of presses remaining,
// ordered from the full press budget down to the forced final press. A draw
// is kept iff it meets the threshold for the presses still available.
// A Table is immutable once built and safe to share across goroutines.
type Table struct {
	thresholds []float64 // index i holds the threshold with Presses()-i presses remaining
	ceiling    float64
	expected   float64
}

// New solves the threshold recurrence for a game of presses draws bounded
// by ceiling.
//
// With f(0) = 0 and f(j) = (1 + f(j-1)^2) / 2, f(j) is the expected fraction
// of ceiling won under optimal play with j presses remaining, and the
// threshold with k presses remaining is f(k-1) * ceiling. f(j) climbs toward
// 1 as j grows, so thresholds approach the ceiling but never reach it.
func New(presses int, ceiling float64) (Table, error) {
	if presses < 1 {
		return Table{}, ErrInvalidPresses
	}
	if ceiling <= 0 || math.IsInf(ceiling, 1) || math.IsNaN(ceiling) {
		return Table{}, ErrInvalidCeiling
	}

	f := make([]float64, presses+1)
	for j := 1; j <= presses; j++ {
		f[j] = (1 + f[j-1]*f[j-1]) / 2
	}

	thresholds := make([]float64, presses)
	for i := range thresholds {
		remaining := presses - i
		thresholds[i] = f[remaining-1] * ceiling
	}

	return Table{
		thresholds: thresholds,
		ceiling:    ceiling,
		expected:   f[presses] * ceiling,
	}, nil
}

// Presses returns the press budget the table was built for. The zero Table
// reports 0.
func (t Table) Presses() int {
	return len(t.thresholds)
}

// Ceiling returns the exclusive upper bound of a single draw.
func (t Table) Ceiling() float64 {
	return t.ceiling
}

// At returns the acceptance threshold with remaining presses left,
// 1 <= remaining <= Presses(). The final press carries a zero threshold:
// a forced draw is always kept.
func (t Table) At(remaining int) float64 {
	if remaining < 1 || remaining > len(t.thresholds) {
		panic("solver: presses remaining out of range")
	}
	return t.thresholds[len(t.thresholds)-remaining]
}

// Values returns a copy of the thresholds ordered from the full budget down
// to one press remaining. Mutating the copy does not affect the table.
func (t Table) Values() []float64 {
	out := make([]float64, len(t.thresholds))
	copy(out, t.thresholds)
	return out
}

// Expected returns the theoretical mean payout under optimal play,
// f(Presses()) * Ceiling().
func (t Table) Expected() float64 {
	return t.expected
}
