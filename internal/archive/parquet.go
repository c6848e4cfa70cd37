// Package archive persists completed collector batches to Parquet for
// offline inspection, and lets that Parquet be queried with DuckDB's SQL
// engine reading the files directly. Neither capability is part of
// spec.md's contract — RequestEpisodes works identically whether or not an
// Archiver is configured — it supplements it the way the teacher persists
// self-play rollouts for later training, here applied to Tetris episodes,
// with its own rotation and naming policy sized for episode batches rather
// than self-play game logs (see writeRowsAtomic).
package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// Row is one archived episode: enough of the raw per-step trace to
// reconstruct what happened without needing the original Batch.
type Row struct {
	RunID   string    `parquet:"run_id,dict"`
	Episode int32     `parquet:"episode"`
	Length  int32     `parquet:"length"`
	Score   float32   `parquet:"score"`
	Actions []int32   `parquet:"actions"`
	Rewards []float32 `parquet:"rewards"`
	Dones   []uint8   `parquet:"dones"`
}

// maxRowsPerFile bounds how many episode rows one Parquet file holds. A
// RequestEpisodes call can ask for far more episodes than is comfortable in
// a single file (DuckDB's read_parquet globs over many small files just
// fine), so a batch is rotated into one file per maxRowsPerFile rows rather
// than writing an unbounded single file per run.
const maxRowsPerFile = 4096

// writeRowsAtomic splits rows into at most maxRowsPerFile-row parts and
// writes each to outDir, named by runID and part index rather than a
// wall-clock timestamp so that re-archiving the same run (a caller retrying
// after a failed write) never guesses a colliding name: each part probes
// outDir for the next free index instead of assuming its own name is free.
// Every part is written to outDir/tmp first and renamed in, so readers
// (including archive.Query) never observe a partially written file.
func writeRowsAtomic(outDir, runID string, rows []Row) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	var written []string
	for offset := 0; offset < len(rows); offset += maxRowsPerFile {
		end := offset + maxRowsPerFile
		if end > len(rows) {
			end = len(rows)
		}
		path, err := writePart(outDir, tmpDir, runID, rows[offset:end])
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// writePart claims the next unused part name for runID in outDir and writes
// one Parquet file of rows to it, atomically.
func writePart(outDir, tmpDir, runID string, rows []Row) (string, error) {
	var finalPath, tmpPath string
	for part := 0; ; part++ {
		name := fmt.Sprintf("%s_part%04d.parquet", runID, part)
		candidate := filepath.Join(outDir, name)
		if _, err := os.Stat(candidate); err == nil {
			continue // name taken by a prior write of this run; try the next part
		}
		finalPath = candidate
		tmpPath = filepath.Join(tmpDir, name+".tmp")
		break
	}
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "episode_row_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}
