package collector

// Batch is the dense, fixed-shape output of RequestEpisodes: pre-allocated
// [E, T, ...] tensors, zero-filled, with Lengths conveying each episode's
// valid prefix. Positions at or beyond Lengths[ep] are guaranteed zero —
// consumers mask by Lengths rather than relying on ragged shapes.
type Batch struct {
	Episodes int
	MaxSteps int
	ObsDim   int

	Observations []float32 // [Episodes, MaxSteps, ObsDim]
	Actions      []int32   // [Episodes, MaxSteps]
	LogProbs     []float32 // [Episodes, MaxSteps]
	Values       []float32 // [Episodes, MaxSteps]
	Rewards      []float32 // [Episodes, MaxSteps]
	Dones        []uint8   // [Episodes, MaxSteps]
	Lengths      []uint32  // [Episodes]
}

func newBatch(episodes, maxSteps, obsDim int) *Batch {
	return &Batch{
		Episodes:     episodes,
		MaxSteps:     maxSteps,
		ObsDim:       obsDim,
		Observations: make([]float32, episodes*maxSteps*obsDim),
		Actions:      make([]int32, episodes*maxSteps),
		LogProbs:     make([]float32, episodes*maxSteps),
		Values:       make([]float32, episodes*maxSteps),
		Rewards:      make([]float32, episodes*maxSteps),
		Dones:        make([]uint8, episodes*maxSteps),
		Lengths:      make([]uint32, episodes),
	}
}

// fill copies one EpisodeResult's valid prefix into row ep. Positions at or
// beyond the episode's length are left at their zero-filled default.
func (b *Batch) fill(ep int, r EpisodeResult) {
	b.Lengths[ep] = uint32(r.Length)

	obsStride := b.MaxSteps * b.ObsDim
	stepStride := b.MaxSteps

	copy(b.Observations[ep*obsStride:ep*obsStride+r.Length*b.ObsDim], r.Observations)
	copy(b.Actions[ep*stepStride:ep*stepStride+r.Length], r.Actions)
	copy(b.LogProbs[ep*stepStride:ep*stepStride+r.Length], r.LogProbs)
	copy(b.Values[ep*stepStride:ep*stepStride+r.Length], r.Values)
	copy(b.Rewards[ep*stepStride:ep*stepStride+r.Length], r.Rewards)
	copy(b.Dones[ep*stepStride:ep*stepStride+r.Length], r.Dones)
}
