package sim

import (
	"crypto/rand"
	"encoding/binary"
)

// Golden-ratio stride keeps derived worker seeds far apart even when base
// seeds are small hand-picked numbers.
const seedStride = 0x9e3779b97f4a7c15

// NewSeed draws a base seed from the OS entropy pool. Callers that need
// reproducible runs keep the returned value and replay it with WithSeed.
func NewSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("sim: reading entropy: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// workerSeed derives one worker's seed from the run's base seed. Distinct
// indexes always map to distinct seeds for any base.
func workerSeed(base uint64, index int) uint64 {
	return base + uint64(index)*seedStride
}
