// Package bandit implements the multi-armed bandit decision engine behind
// banditd: experiments that assign traffic to content variants ("arms"),
// ingest reward observations, and adapt arm selection over time.
//
// # Overview
//
// The package provides:
//   - Per-arm sufficient statistics (pulls, cumulative reward, Beta prior)
//   - Three selection policies: Epsilon-Greedy, Thompson Sampling, UCB1
//   - Experiment state with per-experiment locking and a seeded random source
//   - A process-wide registry mapping experiment names to experiments
//   - Versioned snapshot/restore of the full registry state
//
// # Usage
//
// Create a registry and an experiment, then drive the select/reward loop:
//
//	reg := bandit.NewRegistry(tracker, logger)
//	_, err := reg.Create(bandit.ExperimentConfig{
//	    Name:      "homepage_banner",
//	    Arms:      []string{"A", "B", "C"},
//	    Algorithm: bandit.AlgorithmThompsonSampling,
//	})
//	sel, err := reg.SelectArm("homepage_banner")
//	err = reg.UpdateReward("homepage_banner", sel.ArmIndex, 1.0)
//
// # Concurrency
//
// Each experiment owns one mutex guarding its statistics, selection counter,
// and random source; operations on different experiments never block each
// other. The registry guards only its own name map. Delete drains in-flight
// operations on the target experiment before it returns; stale handles
// observe ErrExperimentNotFound afterwards.
//
// # Reproducibility
//
// Every experiment carries its own PCG random source seeded at creation (or
// from a caller-provided seed), so selection sequences are reproducible under
// a fixed seed and deterministic in tests. Policies receive the source as an
// explicit argument and never touch global randomness.
package bandit
