package archive

import "github.com/tetris-rl/batched-tetris/internal/collector"

// Writer implements collector.Archiver, writing every completed Batch as one
// or more rotated Parquet part files under OutDir.
type Writer struct {
	OutDir string
}

// NewWriter returns a Writer rooted at outDir. outDir is created on first
// write if it does not exist.
func NewWriter(outDir string) *Writer {
	return &Writer{OutDir: outDir}
}

// WriteBatch converts b into one Row per episode and writes them to
// w.OutDir, split into one or more Parquet part files named after runID.
func (w *Writer) WriteBatch(runID string, b *collector.Batch) error {
	rows := make([]Row, b.Episodes)
	for ep := 0; ep < b.Episodes; ep++ {
		length := int(b.Lengths[ep])
		stepOff := ep * b.MaxSteps

		var score float32
		for t := 0; t < length; t++ {
			score += b.Rewards[stepOff+t]
		}

		rows[ep] = Row{
			RunID:   runID,
			Episode: int32(ep),
			Length:  int32(length),
			Score:   score,
			Actions: append([]int32(nil), b.Actions[stepOff:stepOff+length]...),
			Rewards: append([]float32(nil), b.Rewards[stepOff:stepOff+length]...),
			Dones:   append([]uint8(nil), b.Dones[stepOff:stepOff+length]...),
		}
	}

	_, err := writeRowsAtomic(w.OutDir, runID, rows)
	return err
}
