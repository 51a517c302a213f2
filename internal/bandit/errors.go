package bandit

import "errors"

// Errors for bandit operations. All are local validation failures surfaced
// synchronously to the caller; none are retried internally.
var (
	ErrInvalidConfig           = errors.New("invalid algorithm config")
	ErrInvalidExperimentConfig = errors.New("invalid experiment config")
	ErrExperimentExists        = errors.New("experiment already exists")
	ErrExperimentNotFound      = errors.New("experiment not found")
	ErrArmIndexOutOfRange      = errors.New("arm index out of range")
	ErrInvalidReward           = errors.New("invalid reward")
)
