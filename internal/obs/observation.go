// Package obs defines the structured per-step observation and its flattened
// encoding into the fixed-length vector the collector batches.
//
// The Observation type lives here rather than in internal/tetris so that
// both the simulator and the collector's worker pool can depend on one
// definition without an import cycle — mirroring the teacher's split
// between game (state/types) and executor/convert (flattening for a
// consumer).
package obs

const (
	// BoardW and BoardH are the full board dimensions, including the
	// walls/ceiling headroom surrounding the playable region.
	BoardW = 18
	BoardH = 24

	// PlayW and PlayH are the playable sub-grid dimensions.
	PlayW = 10
	PlayH = 20
)

// Observation is the structured step output: four 2D uint8 matrices.
type Observation struct {
	// Board holds locked-cell types: 0 = empty, 1..7 = tetromino type + 1.
	Board [BoardH][BoardW]uint8
	// ActiveTetromino is a 0/1 mask of the falling piece's current cells.
	ActiveTetromino [BoardH][BoardW]uint8
	// Holder is a 0/1 mask of the held piece, all zero if none is held.
	Holder [4][4]uint8
	// Queue stacks the upcoming Q pieces' 0/1 masks vertically, 4 rows each.
	Queue [][4]uint8
}

// NewObservation allocates an Observation with a Queue sized for queueSize
// upcoming pieces (4*queueSize rows).
func NewObservation(queueSize int) *Observation {
	return &Observation{Queue: make([][4]uint8, 4*queueSize)}
}

// Reset zeroes every matrix in place, leaving no residue from a prior
// episode. Queue keeps its existing length.
func (o *Observation) Reset() {
	o.Board = [BoardH][BoardW]uint8{}
	o.ActiveTetromino = [BoardH][BoardW]uint8{}
	o.Holder = [4][4]uint8{}
	for i := range o.Queue {
		o.Queue[i] = [4]uint8{}
	}
}

// Dim computes D, the flattened vector length, for a given queue size. It
// is an invariant of the collector: computed once and exposed read-only.
func Dim(queueSize int) int {
	return BoardH*BoardW + BoardH*BoardW + 4*4 + 4*queueSize*4
}

// Flatten writes o into dest in the fixed order active_tetromino, board,
// holder, queue — row-major within each matrix — and returns the number of
// floats written. dest must have length >= Dim(len(o.Queue)/4).
func Flatten(o *Observation, dest []float32) int {
	n := 0
	for r := 0; r < BoardH; r++ {
		for c := 0; c < BoardW; c++ {
			dest[n] = float32(o.ActiveTetromino[r][c])
			n++
		}
	}
	for r := 0; r < BoardH; r++ {
		for c := 0; c < BoardW; c++ {
			dest[n] = float32(o.Board[r][c])
			n++
		}
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			dest[n] = float32(o.Holder[r][c])
			n++
		}
	}
	for r := range o.Queue {
		for c := 0; c < 4; c++ {
			dest[n] = float32(o.Queue[r][c])
			n++
		}
	}
	return n
}
