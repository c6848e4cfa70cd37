// Command bench drives the collector against a uniform-random policy and
// reports rollout throughput. It is diagnostic test tooling, not a runtime
// entry point for training — there is no model loaded here, only the
// collector's own mechanics.
//
// Grounded on executor/main.go's "Stats: Moves/s: ... Inf/s: ..." loop and
// original_source/rl/benchmark_rollouts.py's fixed-round throughput harness.
package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/tetris-rl/batched-tetris/internal/archive"
	"github.com/tetris-rl/batched-tetris/internal/collector"
	"github.com/tetris-rl/batched-tetris/internal/tetris"
)

func main() {
	workers := flag.Int("workers", 8, "number of collector workers")
	episodes := flag.Int("episodes", 256, "episodes requested per round")
	rounds := flag.Int("rounds", 5, "number of RequestEpisodes rounds")
	maxSteps := flag.Int("max-steps", 512, "per-episode step cap")
	queueSize := flag.Int("queue-size", 3, "upcoming-piece queue length")
	seed := flag.Uint64("seed", 1, "seed base for worker RNG streams")
	outDir := flag.String("out", "", "if set, archive each round's batch as parquet here")
	flag.Parse()

	var archiver collector.Archiver
	if *outDir != "" {
		archiver = archive.NewWriter(*outDir)
	}

	c, err := collector.New(collector.Config{
		NumWorkers: *workers,
		MaxSteps:   *maxSteps,
		QueueSize:  *queueSize,
		SeedBase:   uint32(*seed),
		Archiver:   archiver,
	})
	if err != nil {
		log.Fatalf("bench: collector.New: %v", err)
	}
	defer c.Close()

	policyRNG := rand.New(rand.NewSource(int64(*seed)))
	policy := func(observation []float32) (int, float32, float32, error) {
		return policyRNG.Intn(tetris.NumActions), 0, 0, nil
	}

	for round := 1; round <= *rounds; round++ {
		start := time.Now()
		batch, err := c.RequestEpisodes(*episodes, policy)
		if err != nil {
			log.Fatalf("bench: round %d: RequestEpisodes: %v", round, err)
		}
		elapsed := time.Since(start)

		var totalSteps int
		for _, l := range batch.Lengths {
			totalSteps += int(l)
		}

		episodesPerSec := float64(*episodes) / elapsed.Seconds()
		stepsPerSec := float64(totalSteps) / elapsed.Seconds()
		log.Printf(
			"Stats: round=%d episodes=%d steps=%d elapsed=%s Episodes/s: %.1f Steps/s: %.1f",
			round, *episodes, totalSteps, elapsed.Round(time.Millisecond), episodesPerSec, stepsPerSec,
		)
	}
}
