// Package tetris implements the single-instance, deterministic Tetris
// simulator: reset/step state machine, piece model, and the
// collision/lock/line-clear pipeline. It has no knowledge of workers,
// queues, or policies — those live in internal/collector.
package tetris

import (
	"github.com/tetris-rl/batched-tetris/internal/obs"
	"github.com/tetris-rl/batched-tetris/internal/piece"
	"github.com/tetris-rl/batched-tetris/internal/rng"
)

// Env is a single Tetris instance: board, active piece, queue, holder,
// score, and a dedicated RNG. It is created once per worker and lives for
// the collector's lifetime; Reset re-initializes episode state without
// touching the RNG stream.
type Env struct {
	obs       *obs.Observation
	rngStream *rng.Stream

	queue []piece.Type
	qi    int

	holder     piece.Type
	holderFull bool

	curType piece.Type
	curRot  int
	curX    int
	curY    int

	score    int
	scored   int
	gameOver bool
}

// New creates a ready simulator: a queue of queueSize random piece types
// drawn from a stream seeded with seed, an empty holder, and a freshly
// spawned first piece. If the spawn collides, the simulator starts
// game-over.
func New(queueSize int, seed uint32) *Env {
	e := &Env{
		obs:       obs.NewObservation(queueSize),
		rngStream: rng.New(seed),
		queue:     make([]piece.Type, queueSize),
	}
	for i := range e.queue {
		e.queue[i] = e.rngStream.PieceType()
	}
	e.spawn()
	e.updateViews()
	return e
}

// Reset re-initializes every field to the post-construction state, reusing
// the existing RNG stream (no reseeding) so that successive episodes of one
// simulator form a single deterministic sequence.
func (e *Env) Reset() *obs.Observation {
	e.obs.Reset()
	e.score = 0
	e.scored = 0
	e.gameOver = false
	e.holderFull = false
	e.qi = 0
	for i := range e.queue {
		e.queue[i] = e.rngStream.PieceType()
	}
	e.spawn()
	e.updateViews()
	return e.obs
}

// Step applies action, advances the gravity/lock/line-clear pipeline, and
// returns the updated observation, the reward earned this step, and
// whether the game is now over. A game-over simulator refuses further
// mutation: it returns the last observation and a zero reward.
func (e *Env) Step(a Action) (*obs.Observation, float32, bool) {
	if e.gameOver {
		return e.obs, 0, true
	}

	e.scored = 0
	if a == Drop {
		e.hardDrop()
	} else {
		e.applyAction(a)
		if !e.gameOver {
			e.gravityTick()
		}
	}
	e.updateViews()

	return e.obs, float32(e.scored), e.gameOver
}

// Observation returns the simulator's current observation view without
// mutating state.
func (e *Env) Observation() *obs.Observation { return e.obs }

// Score returns the cumulative number of lines cleared this episode.
func (e *Env) Score() int { return e.score }

// GameOver reports whether the simulator has terminated.
func (e *Env) GameOver() bool { return e.gameOver }

// QueueSize returns the configured upcoming-piece queue length.
func (e *Env) QueueSize() int { return len(e.queue) }
