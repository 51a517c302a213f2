package bandit

import (
	"fmt"
	"math/rand/v2"
)

// Algorithm identifies a selection policy. The set is closed; ParseAlgorithm
// rejects anything else.
type Algorithm string

const (
	AlgorithmEpsilonGreedy    Algorithm = "epsilon_greedy"
	AlgorithmThompsonSampling Algorithm = "thompson_sampling"
	AlgorithmUCB              Algorithm = "ucb"
)

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmEpsilonGreedy, AlgorithmThompsonSampling, AlgorithmUCB:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("%w: unknown algorithm %q", ErrInvalidExperimentConfig, s)
}

// Policy selects an arm index given current statistics. Implementations are
// stateless apart from construction-time tunables; all randomness comes from
// the passed source, so selection is reproducible under a fixed seed.
//
// total is the experiment's total-selection counter including the in-flight
// selection. Callers guarantee len(arms) >= 2.
type Policy interface {
	Select(arms []ArmStats, total uint64, rng *rand.Rand) int
}

// newPolicy builds the policy for a normalized experiment config.
func newPolicy(cfg ExperimentConfig) (Policy, error) {
	switch cfg.Algorithm {
	case AlgorithmEpsilonGreedy:
		return NewEpsilonGreedy(cfg.Epsilon)
	case AlgorithmThompsonSampling:
		return NewThompsonSampling(), nil
	case AlgorithmUCB:
		return NewUCB(cfg.C)
	}
	return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidExperimentConfig, cfg.Algorithm)
}

// argmax returns the index of the highest score, ties broken by lowest index.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
