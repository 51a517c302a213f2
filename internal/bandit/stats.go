package bandit

import (
	"fmt"
	"math"
)

// ArmStats holds the sufficient statistics for one arm.
//
// Alpha and Beta are the Beta-distribution parameters used by Thompson
// Sampling. They are carried for every algorithm (initialized to the uniform
// prior Alpha=Beta=1) so snapshots stay algorithm-independent; only Thompson
// Sampling reads or validates against them.
type ArmStats struct {
	Label            string  `json:"label"`
	Pulls            uint64  `json:"pulls"`
	CumulativeReward float64 `json:"cumulative_reward"`
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
}

// newArmStats returns zeroed statistics with the uniform Beta prior.
func newArmStats(label string) ArmStats {
	return ArmStats{Label: label, Alpha: 1, Beta: 1}
}

// Mean returns the empirical mean reward, 0 for a never-pulled arm.
func (a ArmStats) Mean() float64 {
	if a.Pulls == 0 {
		return 0
	}
	return a.CumulativeReward / float64(a.Pulls)
}

// record applies one reward observation. The caller must have validated the
// reward first; record never partially applies.
func (a *ArmStats) record(reward float64) {
	a.Pulls++
	a.CumulativeReward += reward
	// Soft Beta-Bernoulli update: rewards in [0,1] count as fractional
	// successes. Outside [0,1] (non-Thompson experiments) the parameters
	// are still advanced but never consulted.
	a.Alpha += reward
	a.Beta += 1 - reward
}

// validateReward checks a reward value against the store's contract.
// bernoulli requires the reward to lie in [0,1] (Thompson Sampling).
func validateReward(reward float64, bernoulli bool) error {
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return fmt.Errorf("%w: reward must be finite, got %v", ErrInvalidReward, reward)
	}
	if bernoulli && (reward < 0 || reward > 1) {
		return fmt.Errorf("%w: thompson_sampling requires reward in [0,1], got %v", ErrInvalidReward, reward)
	}
	return nil
}

// bestArm returns the index of the arm with the highest mean reward,
// ties broken by lowest index.
func bestArm(arms []ArmStats) int {
	best := 0
	for i := 1; i < len(arms); i++ {
		if arms[i].Mean() > arms[best].Mean() {
			best = i
		}
	}
	return best
}
