// Package rng is the randomness abstraction consumed by the race engine.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness provider of the race.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a uniformly distributed int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between draws a uniform int in the closed range [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// PCG is a Source backed by math/rand/v2.
type PCG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a PCG seeded with seed. A zero seed picks a random one, so runs
// are only repeatable when a seed is configured.
func New(seed uint64) *PCG {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &PCG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn implements Source.
func (p *PCG) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}
