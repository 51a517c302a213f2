package tracking

import "github.com/fyrsmithlabs/banditd/internal/bandit"

// Multi fans events out to several trackers.
type Multi []bandit.Tracker

// NewMulti combines trackers into one. Nil entries are skipped.
func NewMulti(trackers ...bandit.Tracker) Multi {
	out := make(Multi, 0, len(trackers))
	for _, t := range trackers {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// ObserveSelection implements bandit.Tracker.
func (m Multi) ObserveSelection(sel bandit.Selection) {
	for _, t := range m {
		t.ObserveSelection(sel)
	}
}

// ObserveReward implements bandit.Tracker.
func (m Multi) ObserveReward(r bandit.Reward) {
	for _, t := range m {
		t.ObserveReward(r)
	}
}

// ExperimentCreated implements bandit.Tracker.
func (m Multi) ExperimentCreated(name string) {
	for _, t := range m {
		t.ExperimentCreated(name)
	}
}

// ExperimentDeleted implements bandit.Tracker.
func (m Multi) ExperimentDeleted(name string) {
	for _, t := range m {
		t.ExperimentDeleted(name)
	}
}
