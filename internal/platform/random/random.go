// Package random provides the injectable random source used by scoring and
// the session engine.
package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source draws uniform values. Implementations must be safe for use by the
// engine goroutine and timer callbacks at the same time.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a seeded source. A zero seed picks one from the wall clock.
func New(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Pick returns a uniform index into a slice of length n, clamped to
// [0, n-1]. It returns -1 for an empty slice.
func Pick(src Source, n int) int {
	if n <= 0 {
		return -1
	}
	idx := src.IntN(n)
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
