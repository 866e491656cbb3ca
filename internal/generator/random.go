package generator

import (
	"math"
	"math/rand"
	"time"
)

// Source is the randomness a Generator draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// ResolveSeed returns seed, or a time-based seed when seed is zero
func ResolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// NewSeededRNG creates a deterministic source. Seed 0 selects a time-based seed.
func NewSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(ResolveSeed(seed)))
}

// SubstreamFor derives an independent source for one shipment id.
// The result depends only on (seed, id), so records can be generated in
// any order or in parallel and still match a sequential run.
func SubstreamFor(seed int64, id int) *rand.Rand {
	return rand.New(rand.NewSource(int64(splitmix64(uint64(seed) ^ splitmix64(uint64(id))))))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// uniformInt draws from [lo, hi] inclusive
func uniformInt(rng Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// uniformFloat draws from [lo, hi)
func uniformFloat(rng Source, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
