package http

import (
	"time"

	"github.com/fyrsmithlabs/banditd/internal/bandit"
)

// CreateExperimentRequest is the request body for POST /api/v1/experiments.
//
// Epsilon and C are pointers so "not provided" is distinguishable from an
// explicit zero; epsilon 0 is a valid configuration (pure exploitation).
type CreateExperimentRequest struct {
	Name      string   `json:"name"`
	Arms      []string `json:"arms"`
	Algorithm string   `json:"algorithm"`
	Epsilon   *float64 `json:"epsilon,omitempty"`
	C         *float64 `json:"c,omitempty"`
	Seed      uint64   `json:"seed,omitempty"`
}

// SelectResponse is the response body for POST /api/v1/experiments/:name/select.
type SelectResponse struct {
	Experiment string    `json:"experiment"`
	ArmIndex   int       `json:"arm_index"`
	ArmLabel   string    `json:"arm_label"`
	Timestamp  time.Time `json:"timestamp"`
}

// RewardRequest is the request body for POST /api/v1/experiments/:name/reward.
type RewardRequest struct {
	ArmIndex int     `json:"arm_index"`
	Reward   float64 `json:"reward"`
}

// ListResponse is the response body for GET /api/v1/experiments.
type ListResponse struct {
	Experiments []bandit.ExperimentSummary `json:"experiments"`
}

// MessageResponse acknowledges a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
