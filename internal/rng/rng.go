// Package rng provides the per-simulator deterministic piece stream.
//
// No Mersenne-Twister package appears anywhere in the retrieved example
// pack; every example that needs a seeded, owned random stream (the
// cartpole rollout worker, the teacher's food-spawning logic) reaches for
// math/rand's *rand.Rand with an explicit source instead of a named PRNG
// library. Stream follows that convention but hides the *rand.Rand behind a
// narrow API so the underlying generator could later be swapped for a real
// MT19937 package without touching callers.
package rng

import (
	"math/rand"

	"github.com/tetris-rl/batched-tetris/internal/piece"
)

// Stream is a per-simulator uniform integer source. It is created once per
// simulator and never reseeded; Env.Reset reuses the same Stream so that
// successive episodes of one simulator form a single deterministic sequence.
type Stream struct {
	r *rand.Rand
}

// New creates a Stream seeded deterministically from seed.
func New(seed uint32) *Stream {
	return &Stream{r: rand.New(rand.NewSource(int64(seed)))}
}

// Uint32 returns the next raw 32-bit value from the stream.
func (s *Stream) Uint32() uint32 {
	return s.r.Uint32()
}

// PieceType draws a uniform i.i.d. tetromino type in [0, 7).
func (s *Stream) PieceType() piece.Type {
	return piece.Type(s.Uint32() % piece.Types)
}
