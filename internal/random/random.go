// Package random is the randomness capability injected into prompt assembly,
// song selection and hashtag shuffling.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source picks integers in [0, n). Implementations must be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

type global struct{}

func (global) IntN(n int) int { return rand.IntN(n) }

// Default returns the process-wide, unseeded source.
func Default() Source { return global{} }

// Seeded is a deterministic source for tests and reproducible runs.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a deterministic Source.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Fixed always returns the same index, clamped to n-1.
type Fixed int

func (f Fixed) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	if f < 0 {
		return 0
	}
	return int(f)
}

// Pick returns a uniformly chosen element of items. It panics on an empty slice.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
