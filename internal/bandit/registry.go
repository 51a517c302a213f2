package bandit

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Registry is the process-wide mapping from experiment name to experiment.
// It is constructed explicitly and passed by reference; there is no package
// singleton. The registry mutex guards only the name map — per-experiment
// state is guarded by each experiment's own lock, so operations on different
// experiments proceed in parallel.
type Registry struct {
	mu          sync.RWMutex
	experiments map[string]*Experiment
	tracker     Tracker
	logger      *zap.Logger
}

// NewRegistry creates an empty registry. tracker and logger may be nil.
func NewRegistry(tracker Tracker, logger *zap.Logger) *Registry {
	if tracker == nil {
		tracker = NopTracker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		experiments: make(map[string]*Experiment),
		tracker:     tracker,
		logger:      logger,
	}
}

// Create validates the config and registers a new experiment.
func (r *Registry) Create(cfg ExperimentConfig) (ExperimentSummary, error) {
	r.mu.Lock()
	if _, ok := r.experiments[cfg.Name]; ok {
		r.mu.Unlock()
		return ExperimentSummary{}, fmt.Errorf("%w: %q", ErrExperimentExists, cfg.Name)
	}
	exp, err := newExperiment(cfg, r.tracker)
	if err != nil {
		r.mu.Unlock()
		return ExperimentSummary{}, err
	}
	r.experiments[exp.name] = exp
	r.mu.Unlock()

	emit(func() { r.tracker.ExperimentCreated(exp.name) })
	r.logger.Info("experiment created",
		zap.String("experiment", exp.name),
		zap.String("algorithm", string(exp.algorithm)),
		zap.Int("arms", len(exp.arms)),
		zap.Uint64("seed", exp.seed),
	)
	return exp.summary(), nil
}

// Get returns the experiment registered under name.
func (r *Registry) Get(name string) (*Experiment, error) {
	r.mu.RLock()
	exp, ok := r.experiments[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrExperimentNotFound, name)
	}
	return exp, nil
}

// SelectArm selects an arm for the named experiment.
func (r *Registry) SelectArm(name string) (Selection, error) {
	exp, err := r.Get(name)
	if err != nil {
		return Selection{}, err
	}
	return exp.SelectArm()
}

// UpdateReward applies a reward to one arm of the named experiment.
func (r *Registry) UpdateReward(name string, armIndex int, reward float64) error {
	exp, err := r.Get(name)
	if err != nil {
		return err
	}
	return exp.UpdateReward(armIndex, reward)
}

// Stats returns current statistics for the named experiment.
func (r *Registry) Stats(name string) (ExperimentStats, error) {
	exp, err := r.Get(name)
	if err != nil {
		return ExperimentStats{}, err
	}
	return exp.Stats()
}

// Delete removes the named experiment. Deletion is not idempotent: deleting
// an absent name fails with ErrExperimentNotFound. Delete drains in-flight
// operations on the experiment before returning; callers holding a stale
// handle afterwards get ErrExperimentNotFound.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	exp, ok := r.experiments[name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrExperimentNotFound, name)
	}
	delete(r.experiments, name)
	r.mu.Unlock()

	exp.markDeleted()

	emit(func() { r.tracker.ExperimentDeleted(name) })
	r.logger.Info("experiment deleted", zap.String("experiment", name))
	return nil
}

// List returns summaries of all experiments, sorted by name for stable
// output.
func (r *Registry) List() []ExperimentSummary {
	r.mu.RLock()
	exps := make([]*Experiment, 0, len(r.experiments))
	for _, exp := range r.experiments {
		exps = append(exps, exp)
	}
	r.mu.RUnlock()

	summaries := make([]ExperimentSummary, 0, len(exps))
	for _, exp := range exps {
		summaries = append(summaries, exp.summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// Len returns the number of registered experiments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.experiments)
}
