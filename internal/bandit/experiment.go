package bandit

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// pcgStream is the fixed second PCG seed word; the per-experiment seed
// selects the first. Keeping the stream constant makes a seed alone
// sufficient to reproduce a selection sequence.
const pcgStream = 0x9e3779b97f4a7c15

// ExperimentConfig describes a new experiment.
//
// Epsilon applies to epsilon_greedy only; 0 is a valid value (pure
// exploitation), so callers that want the default must pass DefaultEpsilon
// explicitly. C applies to ucb only; 0 is never a valid exploration constant
// and means "use DefaultUCBC". Seed 0 means "pick a random seed".
type ExperimentConfig struct {
	Name      string    `json:"name"`
	Arms      []string  `json:"arms"`
	Algorithm Algorithm `json:"algorithm"`
	Epsilon   float64   `json:"epsilon,omitempty"`
	C         float64   `json:"c,omitempty"`
	Seed      uint64    `json:"seed,omitempty"`
}

// Experiment binds a name, an ordered list of arms, a selection policy, and
// the arm statistics. One mutex serializes select/update/stats so a policy
// decision never reads statistics mid-update.
type Experiment struct {
	mu        sync.Mutex
	id        string
	name      string
	algorithm Algorithm
	epsilon   float64
	c         float64
	seed      uint64
	createdAt time.Time
	policy    Policy
	arms      []ArmStats
	total     uint64
	deleted   bool
	rng       *rand.Rand
	tracker   Tracker
}

// newExperiment validates the config and builds the experiment.
func newExperiment(cfg ExperimentConfig, tracker Tracker) (*Experiment, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidExperimentConfig)
	}
	if len(cfg.Arms) < 2 {
		return nil, fmt.Errorf("%w: experiment %q needs at least 2 arms, got %d",
			ErrInvalidExperimentConfig, cfg.Name, len(cfg.Arms))
	}
	for i, label := range cfg.Arms {
		if label == "" {
			return nil, fmt.Errorf("%w: experiment %q arm %d has an empty label",
				ErrInvalidExperimentConfig, cfg.Name, i)
		}
	}
	algorithm, err := ParseAlgorithm(string(cfg.Algorithm))
	if err != nil {
		return nil, err
	}
	cfg.Algorithm = algorithm
	if cfg.C == 0 {
		cfg.C = DefaultUCBC
	}
	policy, err := newPolicy(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	if tracker == nil {
		tracker = NopTracker{}
	}

	arms := make([]ArmStats, len(cfg.Arms))
	for i, label := range cfg.Arms {
		arms[i] = newArmStats(label)
	}

	return &Experiment{
		id:        uuid.New().String(),
		name:      cfg.Name,
		algorithm: cfg.Algorithm,
		epsilon:   cfg.Epsilon,
		c:         cfg.C,
		seed:      cfg.Seed,
		createdAt: time.Now().UTC(),
		policy:    policy,
		arms:      arms,
		rng:       rand.New(rand.NewPCG(cfg.Seed, pcgStream)),
		tracker:   tracker,
	}, nil
}

// Name returns the immutable experiment name.
func (e *Experiment) Name() string { return e.name }

// SelectArm increments the total-selection counter, runs the policy on a
// consistent view of the statistics, and returns the chosen arm.
func (e *Experiment) SelectArm() (Selection, error) {
	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return Selection{}, fmt.Errorf("%w: %q", ErrExperimentNotFound, e.name)
	}
	e.total++
	idx := e.policy.Select(e.arms, e.total, e.rng)
	sel := Selection{
		Experiment: e.name,
		ArmIndex:   idx,
		ArmLabel:   e.arms[idx].Label,
		Timestamp:  time.Now().UTC(),
	}
	e.mu.Unlock()

	emit(func() { e.tracker.ObserveSelection(sel) })
	return sel, nil
}

// UpdateReward applies a reward observation to one arm. On error the
// statistics are left unchanged.
func (e *Experiment) UpdateReward(armIndex int, reward float64) error {
	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrExperimentNotFound, e.name)
	}
	if armIndex < 0 || armIndex >= len(e.arms) {
		n := len(e.arms)
		e.mu.Unlock()
		return fmt.Errorf("%w: experiment %q has %d arms, got index %d",
			ErrArmIndexOutOfRange, e.name, n, armIndex)
	}
	if err := validateReward(reward, e.algorithm == AlgorithmThompsonSampling); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("experiment %q arm %d: %w", e.name, armIndex, err)
	}
	e.arms[armIndex].record(reward)
	r := Reward{
		Experiment: e.name,
		ArmIndex:   armIndex,
		ArmLabel:   e.arms[armIndex].Label,
		Reward:     reward,
		Timestamp:  time.Now().UTC(),
	}
	e.mu.Unlock()

	emit(func() { e.tracker.ObserveReward(r) })
	return nil
}

// ExperimentStats is a consistent read of an experiment's state.
type ExperimentStats struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Algorithm       Algorithm  `json:"algorithm"`
	CreatedAt       time.Time  `json:"created_at"`
	TotalSelections uint64     `json:"total_selections"`
	TotalReward     float64    `json:"total_reward"`
	AverageReward   float64    `json:"average_reward"`
	BestArm         int        `json:"best_arm"`
	Arms            []ArmStats `json:"arms"`
	Epsilon         float64    `json:"epsilon,omitempty"`
	C               float64    `json:"c,omitempty"`
}

// Stats returns per-arm statistics, totals, and the best arm so far
// (highest mean reward, ties broken by lowest index).
func (e *Experiment) Stats() (ExperimentStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.deleted {
		return ExperimentStats{}, fmt.Errorf("%w: %q", ErrExperimentNotFound, e.name)
	}

	arms := make([]ArmStats, len(e.arms))
	copy(arms, e.arms)

	var totalPulls uint64
	var totalReward float64
	for _, a := range arms {
		totalPulls += a.Pulls
		totalReward += a.CumulativeReward
	}
	avg := 0.0
	if totalPulls > 0 {
		avg = totalReward / float64(totalPulls)
	}

	stats := ExperimentStats{
		ID:              e.id,
		Name:            e.name,
		Algorithm:       e.algorithm,
		CreatedAt:       e.createdAt,
		TotalSelections: e.total,
		TotalReward:     totalReward,
		AverageReward:   avg,
		BestArm:         bestArm(arms),
		Arms:            arms,
	}
	switch e.algorithm {
	case AlgorithmEpsilonGreedy:
		stats.Epsilon = e.epsilon
	case AlgorithmUCB:
		stats.C = e.c
	}
	return stats, nil
}

// ExperimentSummary is the listing view of an experiment.
type ExperimentSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Algorithm       Algorithm `json:"algorithm"`
	ArmCount        int       `json:"arm_count"`
	TotalSelections uint64    `json:"total_selections"`
	CreatedAt       time.Time `json:"created_at"`
}

func (e *Experiment) summary() ExperimentSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ExperimentSummary{
		ID:              e.id,
		Name:            e.name,
		Algorithm:       e.algorithm,
		ArmCount:        len(e.arms),
		TotalSelections: e.total,
		CreatedAt:       e.createdAt,
	}
}

// markDeleted flips the deleted flag. Acquiring the lock here drains any
// in-flight select/update before deletion completes.
func (e *Experiment) markDeleted() {
	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()
}
