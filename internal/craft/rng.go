package craft

import (
	cryptoRand "crypto/rand"
	"math/rand/v2"
)

// RandomSource is what a simulated craft rolls with. *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

// DefaultRNG returns a ChaCha8 stream keyed from crypto/rand.
func DefaultRNG() RandomSource {
	var key [32]byte
	_, _ = cryptoRand.Read(key[:])
	return rand.New(rand.NewChaCha8(key))
}

// NewSeededRNG returns a reproducible source for tests and -seed runs.
func NewSeededRNG(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// drawSlots shuffles DrawSize of the n slot ids in scratch into its front,
// the way a craft picks which options appear, and reports how many of the
// wanted slots 0..wanted-1 were picked.
func drawSlots(rng RandomSource, scratch []int, wanted int) int {
	for i := range scratch {
		scratch[i] = i
	}
	picked := 0
	for i := 0; i < DrawSize; i++ {
		j := i + rng.IntN(len(scratch)-i)
		scratch[i], scratch[j] = scratch[j], scratch[i]
		if scratch[i] < wanted {
			picked++
		}
	}
	return picked
}
