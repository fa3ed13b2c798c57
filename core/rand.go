package core

import (
	"math/rand/v2"
	"time"
)

// Rand is the random source shared by verse selection and the bounce machine.
// *rand.Rand from math/rand/v2 satisfies it; tests pass a seeded PCG.
type Rand interface {
	// IntN returns a uniform integer in [0, n), n > 0
	IntN(n int) int
}

// NewRand returns a PCG source seeded from the wall clock
func NewRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewSeededRand returns a deterministic source for reproducible runs
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
