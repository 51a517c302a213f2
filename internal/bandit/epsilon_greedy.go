package bandit

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultEpsilon is the exploration rate used when none is configured.
const DefaultEpsilon = 0.1

// EpsilonGreedy explores a uniformly random arm with probability Epsilon and
// otherwise exploits the arm with the highest mean reward.
type EpsilonGreedy struct {
	Epsilon float64
}

// NewEpsilonGreedy validates epsilon and returns the policy.
func NewEpsilonGreedy(epsilon float64) (*EpsilonGreedy, error) {
	if math.IsNaN(epsilon) || epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("%w: epsilon must be in [0,1], got %v", ErrInvalidConfig, epsilon)
	}
	return &EpsilonGreedy{Epsilon: epsilon}, nil
}

// Select implements Policy. Ties on the exploit path break to the lowest
// index so behavior stays reproducible.
func (p *EpsilonGreedy) Select(arms []ArmStats, total uint64, rng *rand.Rand) int {
	if rng.Float64() < p.Epsilon {
		return rng.IntN(len(arms))
	}
	means := make([]float64, len(arms))
	for i, a := range arms {
		means[i] = a.Mean()
	}
	return argmax(means)
}
