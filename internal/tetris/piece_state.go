package tetris

import (
	"github.com/tetris-rl/batched-tetris/internal/obs"
	"github.com/tetris-rl/batched-tetris/internal/piece"
)

// nextPiece pops the head of the queue, refills it with a freshly sampled
// type, advances the ring index, and returns the popped type.
func (e *Env) nextPiece() piece.Type {
	t := e.queue[e.qi]
	e.queue[e.qi] = e.rngStream.PieceType()
	e.qi = (e.qi + 1) % len(e.queue)
	return t
}

// spawn places a freshly drawn piece at the spawn pose. If the spawn
// position collides, game_over is set — the caller decides whether that is
// expected (construction/reset) or terminal (mid-episode).
func (e *Env) spawn() {
	e.curType = e.nextPiece()
	e.curRot = 0
	e.curX = obs.PlayW / 2
	e.curY = obs.PlayH - 1
	if e.collides(e.curType, e.curRot, e.curX, e.curY) {
		e.gameOver = true
	}
}

// swap implements the SWAP action: move the active piece into the holder
// (or exchange with whatever is already held), then respawn at the spawn
// pose. A collision here ends the game without reverting — the held piece
// has already changed.
func (e *Env) swap() {
	if !e.holderFull {
		e.holder = e.curType
		e.holderFull = true
		e.curType = e.nextPiece()
	} else {
		e.curType, e.holder = e.holder, e.curType
	}
	e.curRot = 0
	e.curX = obs.PlayW / 2
	e.curY = obs.PlayH - 1
	if e.collides(e.curType, e.curRot, e.curX, e.curY) {
		e.gameOver = true
	}
}

// updateViews recomputes the derived observation matrices (active piece
// mask, holder mask, queue masks) from the current piece/queue/holder
// state. The board itself is already authoritative in e.obs.Board.
func (e *Env) updateViews() {
	e.obs.ActiveTetromino = [obs.BoardH][obs.BoardW]uint8{}
	for r := 0; r < piece.CellSize; r++ {
		for c := 0; c < piece.CellSize; c++ {
			if piece.Shapes[e.curType][e.curRot][r][c] == 0 {
				continue
			}
			by := e.curY + r
			bx := e.curX + c
			if by >= 0 && by < obs.BoardH && bx >= 0 && bx < obs.BoardW {
				e.obs.ActiveTetromino[by][bx] = 1
			}
		}
	}

	e.obs.Holder = [4][4]uint8{}
	if e.holderFull {
		e.obs.Holder = piece.Shapes[e.holder][0]
	}

	for i := 0; i < len(e.queue); i++ {
		t := e.queue[(e.qi+i)%len(e.queue)]
		for r := 0; r < piece.CellSize; r++ {
			e.obs.Queue[i*piece.CellSize+r] = piece.Shapes[t][0][r]
		}
	}
}
