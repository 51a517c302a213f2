package bandit

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// RegistrySnapshot is the serializable state of a registry. Restoring a
// snapshot reproduces the same selection behavior as the original registry
// given the same subsequent inputs, modulo the random source's internal
// position, which is re-seeded from the stored seed and is not observable
// through Stats.
type RegistrySnapshot struct {
	Version     int               `json:"version"`
	SavedAt     time.Time         `json:"saved_at"`
	Experiments []ExperimentState `json:"experiments"`
}

// ExperimentState is the serializable state of one experiment.
type ExperimentState struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Algorithm       Algorithm  `json:"algorithm"`
	Epsilon         float64    `json:"epsilon,omitempty"`
	C               float64    `json:"c,omitempty"`
	Seed            uint64     `json:"seed"`
	CreatedAt       time.Time  `json:"created_at"`
	TotalSelections uint64     `json:"total_selections"`
	Arms            []ArmStats `json:"arms"`
}

// Snapshot captures the full registry state. Each experiment is read under
// its own lock, so every per-experiment state is internally consistent.
func (r *Registry) Snapshot() RegistrySnapshot {
	r.mu.RLock()
	exps := make([]*Experiment, 0, len(r.experiments))
	for _, exp := range r.experiments {
		exps = append(exps, exp)
	}
	r.mu.RUnlock()

	snap := RegistrySnapshot{
		Version: SnapshotVersion,
		SavedAt: time.Now().UTC(),
	}
	for _, exp := range exps {
		snap.Experiments = append(snap.Experiments, exp.state())
	}
	sort.Slice(snap.Experiments, func(i, j int) bool {
		return snap.Experiments[i].Name < snap.Experiments[j].Name
	})
	return snap
}

// Restore replaces the registry contents with the snapshot's experiments.
// The registry must be freshly constructed or emptied; names already present
// fail with ErrExperimentExists and leave the registry partially restored.
func (r *Registry) Restore(snap RegistrySnapshot) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", ErrInvalidExperimentConfig, snap.Version)
	}

	restored := make([]*Experiment, 0, len(snap.Experiments))
	for _, state := range snap.Experiments {
		exp, err := experimentFromState(state, r.tracker)
		if err != nil {
			return fmt.Errorf("restoring experiment %q: %w", state.Name, err)
		}
		restored = append(restored, exp)
	}

	r.mu.Lock()
	for _, exp := range restored {
		if _, ok := r.experiments[exp.name]; ok {
			r.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrExperimentExists, exp.name)
		}
		r.experiments[exp.name] = exp
	}
	r.mu.Unlock()

	for _, exp := range restored {
		name := exp.name
		emit(func() { r.tracker.ExperimentCreated(name) })
	}
	return nil
}

// state reads one experiment's serializable state under its lock.
func (e *Experiment) state() ExperimentState {
	e.mu.Lock()
	defer e.mu.Unlock()

	arms := make([]ArmStats, len(e.arms))
	copy(arms, e.arms)
	return ExperimentState{
		ID:              e.id,
		Name:            e.name,
		Algorithm:       e.algorithm,
		Epsilon:         e.epsilon,
		C:               e.c,
		Seed:            e.seed,
		CreatedAt:       e.createdAt,
		TotalSelections: e.total,
		Arms:            arms,
	}
}

// experimentFromState rebuilds an experiment from persisted state, including
// its policy and a random source re-seeded from the stored seed.
func experimentFromState(state ExperimentState, tracker Tracker) (*Experiment, error) {
	if state.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidExperimentConfig)
	}
	if len(state.Arms) < 2 {
		return nil, fmt.Errorf("%w: needs at least 2 arms, got %d",
			ErrInvalidExperimentConfig, len(state.Arms))
	}
	algorithm, err := ParseAlgorithm(string(state.Algorithm))
	if err != nil {
		return nil, err
	}
	if state.C == 0 {
		state.C = DefaultUCBC
	}
	policy, err := newPolicy(ExperimentConfig{
		Algorithm: algorithm,
		Epsilon:   state.Epsilon,
		C:         state.C,
	})
	if err != nil {
		return nil, err
	}
	if tracker == nil {
		tracker = NopTracker{}
	}

	arms := make([]ArmStats, len(state.Arms))
	copy(arms, state.Arms)
	return &Experiment{
		id:        state.ID,
		name:      state.Name,
		algorithm: algorithm,
		epsilon:   state.Epsilon,
		c:         state.C,
		seed:      state.Seed,
		createdAt: state.CreatedAt,
		policy:    policy,
		arms:      arms,
		total:     state.TotalSelections,
		rng:       rand.New(rand.NewPCG(state.Seed, pcgStream)),
		tracker:   tracker,
	}, nil
}
