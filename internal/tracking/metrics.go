// Package tracking provides bandit.Tracker implementations that forward
// decision events to Prometheus metrics and structured logs.
package tracking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fyrsmithlabs/banditd/internal/bandit"
)

var (
	// ArmSelectionsTotal counts arm selections by experiment and arm.
	ArmSelectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "banditd",
			Subsystem: "engine",
			Name:      "arm_selections_total",
			Help:      "Total number of arm selections by experiment and arm",
		},
		[]string{"experiment", "arm"},
	)

	// RewardsTotal counts reward observations by experiment.
	RewardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "banditd",
			Subsystem: "engine",
			Name:      "rewards_total",
			Help:      "Total number of reward observations by experiment",
		},
		[]string{"experiment"},
	)

	// RewardValue tracks the distribution of observed reward values.
	RewardValue = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "banditd",
			Subsystem: "engine",
			Name:      "reward_value",
			Help:      "Distribution of observed reward values",
			Buckets:   []float64{0.0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
		[]string{"experiment"},
	)

	// ActiveExperiments tracks the number of registered experiments.
	ActiveExperiments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "banditd",
			Subsystem: "engine",
			Name:      "active_experiments",
			Help:      "Number of currently registered experiments",
		},
	)
)

// Metrics forwards engine events to the Prometheus collectors above.
type Metrics struct{}

// NewMetrics returns a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveSelection implements bandit.Tracker.
func (*Metrics) ObserveSelection(sel bandit.Selection) {
	ArmSelectionsTotal.WithLabelValues(sel.Experiment, sel.ArmLabel).Inc()
}

// ObserveReward implements bandit.Tracker.
func (*Metrics) ObserveReward(r bandit.Reward) {
	RewardsTotal.WithLabelValues(r.Experiment).Inc()
	RewardValue.WithLabelValues(r.Experiment).Observe(r.Reward)
}

// ExperimentCreated implements bandit.Tracker.
func (*Metrics) ExperimentCreated(string) {
	ActiveExperiments.Inc()
}

// ExperimentDeleted implements bandit.Tracker.
func (*Metrics) ExperimentDeleted(name string) {
	ActiveExperiments.Dec()
	ArmSelectionsTotal.DeletePartialMatch(prometheus.Labels{"experiment": name})
	RewardsTotal.DeleteLabelValues(name)
	RewardValue.DeleteLabelValues(name)
}
