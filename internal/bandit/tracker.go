package bandit

import "time"

// Selection describes one arm selection event.
type Selection struct {
	Experiment string    `json:"experiment"`
	ArmIndex   int       `json:"arm_index"`
	ArmLabel   string    `json:"arm_label"`
	Timestamp  time.Time `json:"timestamp"`
}

// Reward describes one applied reward observation.
type Reward struct {
	Experiment string    `json:"experiment"`
	ArmIndex   int       `json:"arm_index"`
	ArmLabel   string    `json:"arm_label"`
	Reward     float64   `json:"reward"`
	Timestamp  time.Time `json:"timestamp"`
}

// Tracker receives experiment lifecycle and decision events. Implementations
// forward them to metrics or tracking collaborators.
//
// Calls are fire-and-forget from the engine's perspective: they happen
// outside experiment locks, panics are swallowed, and no error can propagate
// back into a select/update operation.
type Tracker interface {
	ObserveSelection(sel Selection)
	ObserveReward(r Reward)
	ExperimentCreated(name string)
	ExperimentDeleted(name string)
}

// NopTracker discards all events.
type NopTracker struct{}

func (NopTracker) ObserveSelection(Selection) {}
func (NopTracker) ObserveReward(Reward)       {}
func (NopTracker) ExperimentCreated(string)   {}
func (NopTracker) ExperimentDeleted(string)   {}

// emit invokes a tracker callback, swallowing panics so a misbehaving
// collaborator cannot fail a core operation.
func emit(f func()) {
	defer func() { _ = recover() }()
	f()
}
