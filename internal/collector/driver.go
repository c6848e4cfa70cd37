// Package collector implements the batched rollout driver: a worker pool
// that drives N independent tetris.Env simulators through full episodes,
// calling an externally supplied policy for each action, and assembling the
// results into dense batched tensors.
package collector

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tetris-rl/batched-tetris/internal/obs"
	"github.com/tetris-rl/batched-tetris/internal/tetris"
)

// Archiver persists a completed Batch for offline inspection. A nil
// Archiver in Config means RequestEpisodes never touches this hook.
type Archiver interface {
	WriteBatch(runID string, b *Batch) error
}

// Config holds the collector's construction-time parameters.
type Config struct {
	// NumWorkers is the number of long-lived worker goroutines, each
	// owning one simulator and its scratch buffers. Must be > 0.
	NumWorkers int
	// MaxSteps is the per-episode step cap. Must be > 0.
	MaxSteps int
	// QueueSize is the upcoming-piece queue length for every simulator.
	// Defaults to 3 if <= 0.
	QueueSize int
	// SeedBase seeds worker w with SeedBase + w.
	SeedBase uint32

	// Archiver, if set, receives every completed Batch.
	Archiver Archiver
	// Spectator, if set, receives a live feed of every worker's steps.
	Spectator Spectator
}

// Collector is the batched rollout driver described in the package doc. It
// owns every worker; each worker holds only a non-owning, lifetime-bound
// handle to the shared job/result queues and policy handle.
type Collector struct {
	cfg    Config
	obsDim int

	jobs    *fifo[EpisodeJob]
	results *fifo[EpisodeResult]
	policy  *policyHandle

	workers []*worker
	wg      sync.WaitGroup

	nextJobID atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// New constructs a Collector and starts its worker pool. num_workers == 0
// fails with ErrInvalidArgument.
func New(cfg Config) (*Collector, error) {
	if cfg.NumWorkers <= 0 {
		return nil, fmt.Errorf("%w: num_workers must be > 0", ErrInvalidArgument)
	}
	if cfg.MaxSteps <= 0 {
		return nil, fmt.Errorf("%w: max_steps must be > 0", ErrInvalidArgument)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 3
	}

	c := &Collector{
		cfg:     cfg,
		obsDim:  obs.Dim(cfg.QueueSize),
		jobs:    newFIFO[EpisodeJob](),
		results: newFIFO[EpisodeResult](),
		policy:  &policyHandle{},
	}

	c.workers = make([]*worker, cfg.NumWorkers)
	for i := 0; i < cfg.NumWorkers; i++ {
		env := tetris.New(cfg.QueueSize, cfg.SeedBase+uint32(i))
		c.workers[i] = &worker{
			idx:     i,
			env:     env,
			buf:     newWorkerBuffers(cfg.MaxSteps, c.obsDim),
			obsDim:  c.obsDim,
			jobs:    c.jobs,
			results: c.results,
			policy:  c.policy,
			spec:    cfg.Spectator,
		}
	}

	c.wg.Add(cfg.NumWorkers)
	for _, w := range c.workers {
		w := w
		go func() {
			defer c.wg.Done()
			log.Printf("collector: worker %d started", w.idx)
			w.run()
		}()
	}

	return c, nil
}

// ObsDim is the read-only flattened observation length.
func (c *Collector) ObsDim() int { return c.obsDim }

// MaxSteps is the read-only per-episode step cap.
func (c *Collector) MaxSteps() int { return c.cfg.MaxSteps }

// RequestEpisodes is the collector's only public batch operation: install
// the policy, fan out num_episodes jobs, gather exactly that many results
// (arbitrary completion order), and assemble them into a dense Batch.
// num_episodes == 0 fails with ErrInvalidArgument; a request after Close
// fails with ErrClosed.
func (c *Collector) RequestEpisodes(numEpisodes int, policy PolicyFunc) (*Batch, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if numEpisodes <= 0 {
		return nil, fmt.Errorf("%w: num_episodes must be > 0", ErrInvalidArgument)
	}

	runID := uuid.New().String()
	c.policy.set(policy)
	defer c.policy.clear()

	for i := 0; i < numEpisodes; i++ {
		c.jobs.push(EpisodeJob{
			ID:       c.nextJobID.Add(1),
			MaxSteps: c.cfg.MaxSteps,
		})
	}

	results := make([]EpisodeResult, 0, numEpisodes)
	var firstErr error
	for len(results) < numEpisodes {
		r, ok := c.results.pop()
		if !ok {
			// Only reachable if Close raced this request; treat as closed.
			return nil, ErrClosed
		}
		if r.Err != nil && firstErr == nil {
			firstErr = r.Err
		}
		results = append(results, r)
	}

	if firstErr != nil {
		log.Printf("collector: run %s failed: %v", runID, firstErr)
		return nil, firstErr
	}

	batch := newBatch(numEpisodes, c.cfg.MaxSteps, c.obsDim)
	for ep, r := range results {
		batch.fill(ep, r)
	}

	if c.cfg.Archiver != nil {
		if err := c.cfg.Archiver.WriteBatch(runID, batch); err != nil {
			log.Printf("collector: run %s archive failed: %v", runID, err)
		}
	}

	log.Printf("collector: run %s collected %d episodes", runID, numEpisodes)
	return batch, nil
}

// Close sets shutdown, wakes every waiter, and joins all workers. It is
// idempotent; repeated calls are no-ops. In-progress episodes run to their
// natural end or step cap — there is no mid-episode cancel.
func (c *Collector) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.jobs.close()
		c.results.close()
		c.wg.Wait()
	})
}
