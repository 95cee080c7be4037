package sim

import "testing"

func TestWorkerSeedDistinct(t *testing.T) {
	for _, base := range []uint64{0, 1, 42, 1 << 63, ^uint64(0)} {
		seen := make(map[uint64]bool)
		for i := 0; i < 1024; i++ {
			s := workerSeed(base, i)
			if seen[s] {
				t.Fatalf("base %d: duplicate seed %d at worker %d", base, s, i)
			}
			seen[s] = true
		}
	}
}

func TestWorkerSeedDeterministic(t *testing.T) {
	if workerSeed(42, 7) != workerSeed(42, 7) {
		t.Error("expected the same base and index to derive the same seed")
	}
	if workerSeed(42, 0) != 42 {
		t.Errorf("expected worker 0 to run on the base seed, got %d", workerSeed(42, 0))
	}
}

func TestNewSeedVaries(t *testing.T) {
	a, b := NewSeed(), NewSeed()
	if a == b {
		t.Errorf("expected two fresh seeds to differ, both were %d", a)
	}
}
