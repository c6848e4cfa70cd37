package collector

// EpisodeJob is a short-lived message token pushed by the driver and owned
// exclusively by whichever worker pops it.
type EpisodeJob struct {
	ID       uint64
	MaxSteps int
}

// EpisodeResult is a short-lived message value pushed by a worker once its
// episode finishes (terminated or hit the step cap). Err is non-nil only
// for a sentinel failure result — the policy raised, panicked, or returned
// a malformed tuple — and carries the underlying cause for the driver to
// re-raise.
type EpisodeResult struct {
	JobID        uint64
	Length       int
	Observations []float32
	Actions      []int32
	LogProbs     []float32
	Values       []float32
	Rewards      []float32
	Dones        []uint8
	Err          error
}

// workerBuffers are per-worker scratch vectors sized for one full episode,
// reused across episodes so steady-state rollout collection does no
// per-step allocation.
type workerBuffers struct {
	observations []float32
	actions      []int32
	logProbs     []float32
	values       []float32
	rewards      []float32
	dones        []uint8
}

func newWorkerBuffers(maxSteps, obsDim int) *workerBuffers {
	return &workerBuffers{
		observations: make([]float32, maxSteps*obsDim),
		actions:      make([]int32, maxSteps),
		logProbs:     make([]float32, maxSteps),
		values:       make([]float32, maxSteps),
		rewards:      make([]float32, maxSteps),
		dones:        make([]uint8, maxSteps),
	}
}
