package sim

// distribute splits total trials across workers: everyone gets the floor
// share and the first worker also takes the whole remainder. Shares always
// sum back to total. Assumes total >= 0 and workers >= 1; Run validates
// before calling.
func distribute(total int64, workers int) []int64 {
	shares := make([]int64, workers)
	base := total / int64(workers)
	for i := range shares {
		shares[i] = base
	}
	shares[0] += total % int64(workers)
	return shares
}
