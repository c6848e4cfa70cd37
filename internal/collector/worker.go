package collector

import (
	"fmt"

	"github.com/tetris-rl/batched-tetris/internal/obs"
	"github.com/tetris-rl/batched-tetris/internal/tetris"
)

// Spectator receives a copy of a worker's per-step observation while at
// least one consumer is attached. Workers never block on it: a Spectator
// implementation must not allow ObserveStep to stall the caller. See
// internal/spectate for the websocket-backed implementation.
type Spectator interface {
	ObserveStep(workerIdx int, o *obs.Observation)
}

// worker owns one simulator and its scratch buffers exclusively across its
// lifetime. No other goroutine reads or writes env or buf.
type worker struct {
	idx    int
	env    *tetris.Env
	buf    *workerBuffers
	obsDim int

	jobs    *fifo[EpisodeJob]
	results *fifo[EpisodeResult]
	policy  *policyHandle
	spec    Spectator
}

// run is the worker's infinite loop: pop a job, run one episode to
// termination or the step cap, push the result, repeat. It returns once the
// job queue reports shutdown.
func (w *worker) run() {
	for {
		job, ok := w.jobs.pop()
		if !ok {
			return
		}
		w.results.push(w.playEpisode(job))
	}
}

func (w *worker) playEpisode(job EpisodeJob) EpisodeResult {
	obsDim := w.obsDim
	current := w.env.Reset()
	t := 0

	for t < job.MaxSteps {
		row := w.buf.observations[t*obsDim : (t+1)*obsDim]
		obs.Flatten(current, row)

		if w.spec != nil {
			w.spec.ObserveStep(w.idx, current)
		}

		action, logProb, value, err := w.policy.invoke(row)
		if err != nil {
			return failureResult(job.ID, &CollectorError{Kind: KindPolicyFailure, Cause: err})
		}
		if action < 0 || action >= tetris.NumActions {
			return failureResult(job.ID, &CollectorError{
				Kind:  KindInvalidArgument,
				Cause: fmt.Errorf("policy returned out-of-range action %d", action),
			})
		}

		next, reward, terminated := w.env.Step(tetris.Action(action))

		w.buf.actions[t] = int32(action)
		w.buf.logProbs[t] = logProb
		w.buf.values[t] = value
		w.buf.rewards[t] = reward
		if terminated {
			w.buf.dones[t] = 1
		} else {
			w.buf.dones[t] = 0
		}

		current = next
		t++
		if terminated {
			break
		}
	}

	return EpisodeResult{
		JobID:        job.ID,
		Length:       t,
		Observations: append([]float32(nil), w.buf.observations[:t*obsDim]...),
		Actions:      append([]int32(nil), w.buf.actions[:t]...),
		LogProbs:     append([]float32(nil), w.buf.logProbs[:t]...),
		Values:       append([]float32(nil), w.buf.values[:t]...),
		Rewards:      append([]float32(nil), w.buf.rewards[:t]...),
		Dones:        append([]uint8(nil), w.buf.dones[:t]...),
	}
}

func failureResult(jobID uint64, err error) EpisodeResult {
	return EpisodeResult{JobID: jobID, Err: err}
}
