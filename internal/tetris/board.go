package tetris

import (
	"sort"

	"github.com/tetris-rl/batched-tetris/internal/obs"
	"github.com/tetris-rl/batched-tetris/internal/piece"
)

// collides reports whether placing piece type t at rotation rot, board
// position (x, y), overlaps the walls/ceiling or an already-locked cell.
//
// The bound is asymmetric by design: vertically it uses the full board
// height (spawn headroom included), horizontally only the playable width.
func (e *Env) collides(t piece.Type, rot, x, y int) bool {
	for r := 0; r < piece.CellSize; r++ {
		for c := 0; c < piece.CellSize; c++ {
			if piece.Shapes[t][rot][r][c] == 0 {
				continue
			}
			by := y + r
			bx := x + c
			if by < 0 || by >= obs.BoardH {
				return true
			}
			if bx < 0 || bx >= obs.PlayW {
				return true
			}
			if e.obs.Board[by][bx] != 0 {
				return true
			}
		}
	}
	return false
}

// lockAndClear stores the active piece's cells into the board, clears any
// now-complete lines among the rows it just occupied, and records how many
// lines were cleared in e.scored.
func (e *Env) lockAndClear() {
	for r := 0; r < piece.CellSize; r++ {
		for c := 0; c < piece.CellSize; c++ {
			if piece.Shapes[e.curType][e.curRot][r][c] == 0 {
				continue
			}
			by := e.curY + r
			bx := e.curX + c
			if by >= 0 && by < obs.BoardH && bx >= 0 && bx < obs.PlayW {
				e.obs.Board[by][bx] = uint8(e.curType) + 1
			}
		}
	}

	var full []int
	for r := 0; r < piece.CellSize; r++ {
		row := e.curY + r
		if row < 0 || row >= obs.PlayH {
			continue
		}
		if rowFull(&e.obs.Board, row) {
			full = append(full, row)
		}
	}

	// Clear in descending row order so lower indices stay valid as rows
	// above shift down.
	sort.Sort(sort.Reverse(sort.IntSlice(full)))
	for _, row := range full {
		e.clearRow(row)
	}

	e.scored = len(full)
	e.score += e.scored
}

func rowFull(board *[obs.BoardH][obs.BoardW]uint8, row int) bool {
	for c := 0; c < obs.PlayW; c++ {
		if board[row][c] == 0 {
			return false
		}
	}
	return true
}

// clearRow shifts every row above row down by one across the full board
// height and zeroes the new top row.
func (e *Env) clearRow(row int) {
	for y := row; y < obs.BoardH-1; y++ {
		e.obs.Board[y] = e.obs.Board[y+1]
	}
	e.obs.Board[obs.BoardH-1] = [obs.BoardW]uint8{}
}
