// Package randutil centralises deterministic RNG construction so every
// call site derives the same sequence from the same session seed.
package randutil

import "math/rand"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded from the provided int64. The seed is
// run through a splitmix64 finalizer first: adjacent session seeds
// (1, 2, 3...) would otherwise produce visibly correlated shuffles.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(uint64(seed) + goldenRatio64))))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
