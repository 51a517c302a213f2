package bandit

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultUCBC is the exploration constant used when none is configured.
const DefaultUCBC = 1.0

// UCB implements UCB1: mean reward plus an optimism bonus that shrinks as an
// arm accumulates pulls. Arms with zero pulls are forced first, lowest index
// leading, since no confidence bound is computable for them.
type UCB struct {
	C float64
}

// NewUCB validates the exploration constant and returns the policy.
func NewUCB(c float64) (*UCB, error) {
	if math.IsNaN(c) || c <= 0 {
		return nil, fmt.Errorf("%w: ucb exploration constant must be > 0, got %v", ErrInvalidConfig, c)
	}
	return &UCB{C: c}, nil
}

// Select implements Policy.
func (p *UCB) Select(arms []ArmStats, total uint64, rng *rand.Rand) int {
	for i, a := range arms {
		if a.Pulls == 0 {
			return i
		}
	}
	scores := make([]float64, len(arms))
	logTotal := math.Log(float64(total))
	for i, a := range arms {
		scores[i] = a.Mean() + p.C*math.Sqrt(2*logTotal/float64(a.Pulls))
	}
	return argmax(scores)
}
