package tracking

import (
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/banditd/internal/bandit"
)

// Log emits engine events as structured debug logs. It stands in for an
// external tracking store; operators can replay decision history from the
// log stream.
type Log struct {
	logger *zap.Logger
}

// NewLog returns a log tracker. A nil logger disables output.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// ObserveSelection implements bandit.Tracker.
func (l *Log) ObserveSelection(sel bandit.Selection) {
	l.logger.Debug("arm selected",
		zap.String("experiment", sel.Experiment),
		zap.Int("arm_index", sel.ArmIndex),
		zap.String("arm", sel.ArmLabel),
		zap.Time("ts", sel.Timestamp),
	)
}

// ObserveReward implements bandit.Tracker.
func (l *Log) ObserveReward(r bandit.Reward) {
	l.logger.Debug("reward applied",
		zap.String("experiment", r.Experiment),
		zap.Int("arm_index", r.ArmIndex),
		zap.String("arm", r.ArmLabel),
		zap.Float64("reward", r.Reward),
		zap.Time("ts", r.Timestamp),
	)
}

// ExperimentCreated implements bandit.Tracker.
func (l *Log) ExperimentCreated(name string) {
	l.logger.Debug("experiment registered", zap.String("experiment", name))
}

// ExperimentDeleted implements bandit.Tracker.
func (l *Log) ExperimentDeleted(name string) {
	l.logger.Debug("experiment removed", zap.String("experiment", name))
}
