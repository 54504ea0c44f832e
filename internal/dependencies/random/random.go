package random

import (
	"math/rand"
	"sync"
	"time"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// PseudoRandom implements Random with a seedable math/rand source
type PseudoRandom struct {
	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// New creates a PseudoRandom seeded from the wall clock
func New() *PseudoRandom {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a PseudoRandom with a fixed seed, for reproducible
// game runs
func NewSeeded(seed int64) *PseudoRandom {
	return &PseudoRandom{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n)
func (r *PseudoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}
