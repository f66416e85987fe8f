// Package rng provides a seed-addressable random source that can be split into
// independent child streams.
package rng

import "math/rand/v2"

// streamID selects the PCG increment. Fixed so that a seed alone identifies a stream.
const streamID = 0x9e3779b97f4a7c15

// Source is a splittable deterministic random source. It is a plain value:
// copying a Source copies its future output.
type Source struct {
	Seed uint64
}

// New creates a source from a root seed
func New(seed uint64) Source {
	return Source{Seed: seed}
}

// yield builds a generator from the current seed and advances the seed from it.
func (s *Source) yield() *rand.Rand {
	gen := rand.New(rand.NewPCG(s.Seed, streamID))
	s.Seed = gen.Uint64()
	return gen
}

// Fork consumes entropy from s and returns an independent child source.
func (s *Source) Fork() Source {
	return Source{Seed: s.yield().Uint64()}
}

// Uint64 returns a pseudo-random value and advances the source.
func (s *Source) Uint64() uint64 {
	return s.yield().Uint64()
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int {
	return s.yield().IntN(n)
}

// Shuffle permutes n elements in place using swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	if n < 2 {
		return
	}
	s.yield().Shuffle(n, swap)
}
