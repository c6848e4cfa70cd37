package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/tetris-rl/batched-tetris/internal/collector"
)

func TestWriteRowsAtomicProducesAFileAndNoTmpLeftover(t *testing.T) {
	dir, err := os.MkdirTemp("", "archive-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	rows := []Row{
		{RunID: "run-a", Episode: 0, Length: 3, Score: 2, Actions: []int32{1, 2, 3}, Rewards: []float32{0, 1, 1}, Dones: []uint8{0, 0, 1}},
	}

	paths, err := writeRowsAtomic(dir, "run-a", rows)
	if err != nil {
		t.Fatalf("writeRowsAtomic: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("len(paths) = %d, want 1", len(paths))
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if filepath.Dir(paths[0]) != dir {
		t.Fatalf("output file %s not directly under %s", paths[0], dir)
	}
	if filepath.Base(paths[0]) != "run-a_part0000.parquet" {
		t.Fatalf("output file named %q, want run-a_part0000.parquet", filepath.Base(paths[0]))
	}

	entries, err := os.ReadDir(filepath.Join(dir, "tmp"))
	if err != nil {
		t.Fatalf("ReadDir tmp: %v", err)
	}
	for _, e := range entries {
		t.Fatalf("leftover tmp file after atomic write: %s", e.Name())
	}
}

func TestWriteRowsAtomicSplitsIntoParts(t *testing.T) {
	dir, err := os.MkdirTemp("", "archive-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	rows := make([]Row, maxRowsPerFile+1)
	for i := range rows {
		rows[i] = Row{RunID: "run-c", Episode: int32(i), Length: 1}
	}

	paths, err := writeRowsAtomic(dir, "run-c", rows)
	if err != nil {
		t.Fatalf("writeRowsAtomic: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("len(paths) = %d, want 2 for %d rows at maxRowsPerFile=%d", len(paths), len(rows), maxRowsPerFile)
	}
}

func TestWriteRowsAtomicDoesNotClobberAnExistingPart(t *testing.T) {
	dir, err := os.MkdirTemp("", "archive-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	rows := []Row{{RunID: "run-d", Episode: 0, Length: 1}}

	first, err := writeRowsAtomic(dir, "run-d", rows)
	if err != nil {
		t.Fatalf("first writeRowsAtomic: %v", err)
	}
	second, err := writeRowsAtomic(dir, "run-d", rows)
	if err != nil {
		t.Fatalf("second writeRowsAtomic: %v", err)
	}

	if first[0] == second[0] {
		t.Fatalf("second write reused the first write's path %s instead of claiming the next part", first[0])
	}
	if filepath.Base(second[0]) != "run-d_part0001.parquet" {
		t.Fatalf("second write named %q, want run-d_part0001.parquet", filepath.Base(second[0]))
	}
}

func TestWriterWriteBatchBuildsOneRowPerEpisode(t *testing.T) {
	dir, err := os.MkdirTemp("", "archive-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	const maxSteps = 4
	b := &collector.Batch{
		Episodes: 2,
		MaxSteps: maxSteps,
		ObsDim:   1,
		Actions:  make([]int32, 2*maxSteps),
		Rewards:  make([]float32, 2*maxSteps),
		Dones:    make([]uint8, 2*maxSteps),
		Lengths:  []uint32{3, 4},
	}
	// Episode 0: length 3, rewards 0,1,1 -> score 2.
	b.Rewards[1] = 1
	b.Rewards[2] = 1
	// Episode 1: length 4, rewards all 1 -> score 4.
	for i := maxSteps; i < 2*maxSteps; i++ {
		b.Rewards[i] = 1
	}

	w := NewWriter(dir)
	if err := w.WriteBatch("run-b", b); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.parquet"))
	if len(matches) != 1 {
		t.Fatalf("expected exactly one parquet file, found %d", len(matches))
	}

	got, err := parquet.ReadFile[Row](matches[0])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d rows, want one per episode (2)", len(got))
	}
	if got[0].Length != 3 || got[0].Score != 2 || got[1].Length != 4 || got[1].Score != 4 {
		t.Fatalf("rows = %+v, want lengths 3,4 and scores 2,4", got)
	}
}
