package bandit

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ThompsonSampling draws one sample per arm from its Beta(alpha, beta)
// posterior and selects the arm with the highest sample. The uniform
// Beta(1,1) prior is fixed; there are no tunables.
type ThompsonSampling struct{}

// NewThompsonSampling returns the policy.
func NewThompsonSampling() *ThompsonSampling {
	return &ThompsonSampling{}
}

// Select implements Policy.
func (p *ThompsonSampling) Select(arms []ArmStats, total uint64, rng *rand.Rand) int {
	samples := make([]float64, len(arms))
	for i, a := range arms {
		samples[i] = distuv.Beta{Alpha: a.Alpha, Beta: a.Beta, Src: rng}.Rand()
	}
	return argmax(samples)
}
