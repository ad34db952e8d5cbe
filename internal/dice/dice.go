// Package dice implements the dice rolls driving the Maker Bazaar engine.
package dice

import (
	"math/rand"
	"time"
)

// Roller produces die results from an injectable random source so tests
// and replays can fix the sequence.
type Roller struct {
	rng *rand.Rand
}

// NewRoller constructs a Roller with the provided rng or a time-seeded default.
func NewRoller(rng *rand.Rand) *Roller {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Roller{rng: rng}
}

// D6 rolls one six-sided die.
func (r *Roller) D6() int {
	return r.rng.Intn(6) + 1
}

// Sum2D6 rolls two six-sided dice and returns their total (2..12).
func (r *Roller) Sum2D6() int {
	return r.D6() + r.D6()
}

// Sum3D6 rolls three six-sided dice and returns their total (3..18).
func (r *Roller) Sum3D6() int {
	return r.D6() + r.D6() + r.D6()
}

// Intn returns a uniform value in [0, n).
func (r *Roller) Intn(n int) int {
	return r.rng.Intn(n)
}

// Between returns a uniform value in [lo, hi] inclusive.
func (r *Roller) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}
