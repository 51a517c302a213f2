package bandit

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExperiment(t *testing.T, cfg ExperimentConfig) *Experiment {
	t.Helper()
	exp, err := newExperiment(cfg, nil)
	require.NoError(t, err)
	return exp
}

func TestNewExperiment_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ExperimentConfig
		wantErr error
	}{
		{
			name:    "empty name",
			cfg:     ExperimentConfig{Arms: []string{"a", "b"}, Algorithm: AlgorithmUCB},
			wantErr: ErrInvalidExperimentConfig,
		},
		{
			name:    "one arm",
			cfg:     ExperimentConfig{Name: "x", Arms: []string{"a"}, Algorithm: AlgorithmUCB},
			wantErr: ErrInvalidExperimentConfig,
		},
		{
			name:    "empty arm label",
			cfg:     ExperimentConfig{Name: "x", Arms: []string{"a", ""}, Algorithm: AlgorithmUCB},
			wantErr: ErrInvalidExperimentConfig,
		},
		{
			name:    "unknown algorithm",
			cfg:     ExperimentConfig{Name: "x", Arms: []string{"a", "b"}, Algorithm: "softmax"},
			wantErr: ErrInvalidExperimentConfig,
		},
		{
			name:    "bad epsilon",
			cfg:     ExperimentConfig{Name: "x", Arms: []string{"a", "b"}, Algorithm: AlgorithmEpsilonGreedy, Epsilon: 1.5},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative ucb constant",
			cfg:     ExperimentConfig{Name: "x", Arms: []string{"a", "b"}, Algorithm: AlgorithmUCB, C: -1},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "valid",
			cfg:  ExperimentConfig{Name: "x", Arms: []string{"a", "b"}, Algorithm: AlgorithmThompsonSampling},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newExperiment(tt.cfg, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExperiment_SelectAlwaysReturnsArm(t *testing.T) {
	for _, cfg := range []ExperimentConfig{
		{Name: "eg", Arms: []string{"a", "b"}, Algorithm: AlgorithmEpsilonGreedy, Epsilon: 0.1},
		{Name: "ts", Arms: []string{"a", "b"}, Algorithm: AlgorithmThompsonSampling},
		{Name: "ucb", Arms: []string{"a", "b"}, Algorithm: AlgorithmUCB, C: 1},
	} {
		t.Run(string(cfg.Algorithm), func(t *testing.T) {
			exp := newTestExperiment(t, cfg)
			for i := 0; i < 50; i++ {
				sel, err := exp.SelectArm()
				require.NoError(t, err)
				assert.GreaterOrEqual(t, sel.ArmIndex, 0)
				assert.Less(t, sel.ArmIndex, 2)
				assert.Equal(t, cfg.Arms[sel.ArmIndex], sel.ArmLabel)
			}
		})
	}
}

func TestExperiment_UpdateRewardBoundaries(t *testing.T) {
	exp := newTestExperiment(t, ExperimentConfig{
		Name: "x", Arms: []string{"a", "b", "c"}, Algorithm: AlgorithmUCB,
	})

	assert.ErrorIs(t, exp.UpdateReward(-1, 1), ErrArmIndexOutOfRange)
	assert.ErrorIs(t, exp.UpdateReward(3, 1), ErrArmIndexOutOfRange)
	assert.ErrorIs(t, exp.UpdateReward(0, math.NaN()), ErrInvalidReward)
	assert.ErrorIs(t, exp.UpdateReward(0, math.Inf(1)), ErrInvalidReward)
	assert.ErrorIs(t, exp.UpdateReward(0, math.Inf(-1)), ErrInvalidReward)

	// Failed updates leave statistics unchanged.
	stats, err := exp.Stats()
	require.NoError(t, err)
	for _, a := range stats.Arms {
		assert.Zero(t, a.Pulls)
		assert.Zero(t, a.CumulativeReward)
	}
}

func TestExperiment_ThompsonRewardRange(t *testing.T) {
	exp := newTestExperiment(t, ExperimentConfig{
		Name: "x", Arms: []string{"a", "b"}, Algorithm: AlgorithmThompsonSampling,
	})

	assert.ErrorIs(t, exp.UpdateReward(0, 1.5), ErrInvalidReward)
	assert.ErrorIs(t, exp.UpdateReward(0, -0.1), ErrInvalidReward)
	assert.NoError(t, exp.UpdateReward(0, 0))
	assert.NoError(t, exp.UpdateReward(0, 0.25))
	assert.NoError(t, exp.UpdateReward(0, 1))

	// Soft Beta-Bernoulli: alpha-1 is the sum of rewards, beta-1 the
	// complement; alpha-1 + beta-1 equals pulls.
	stats, err := exp.Stats()
	require.NoError(t, err)
	a := stats.Arms[0]
	assert.Equal(t, uint64(3), a.Pulls)
	assert.InDelta(t, 1.25, a.Alpha-1, 1e-12)
	assert.InDelta(t, 1.75, a.Beta-1, 1e-12)
	assert.InDelta(t, float64(a.Pulls), (a.Alpha-1)+(a.Beta-1), 1e-12)
}

func TestExperiment_NonThompsonAcceptsAnyFiniteReward(t *testing.T) {
	exp := newTestExperiment(t, ExperimentConfig{
		Name: "x", Arms: []string{"a", "b"}, Algorithm: AlgorithmEpsilonGreedy,
	})
	assert.NoError(t, exp.UpdateReward(0, 3.5))
	assert.NoError(t, exp.UpdateReward(0, -2))

	stats, err := exp.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.Arms[0].Pulls)
	assert.InDelta(t, 1.5, stats.Arms[0].CumulativeReward, 1e-12)
}

func TestExperiment_Stats(t *testing.T) {
	exp := newTestExperiment(t, ExperimentConfig{
		Name: "x", Arms: []string{"a", "b", "c"}, Algorithm: AlgorithmEpsilonGreedy, Epsilon: 0.2,
	})

	require.NoError(t, exp.UpdateReward(0, 1))
	require.NoError(t, exp.UpdateReward(1, 1))
	require.NoError(t, exp.UpdateReward(1, 1))
	require.NoError(t, exp.UpdateReward(2, 0))

	_, err := exp.SelectArm()
	require.NoError(t, err)

	stats, err := exp.Stats()
	require.NoError(t, err)

	assert.Equal(t, "x", stats.Name)
	assert.Equal(t, AlgorithmEpsilonGreedy, stats.Algorithm)
	assert.Equal(t, 0.2, stats.Epsilon)
	assert.Equal(t, uint64(1), stats.TotalSelections)
	assert.InDelta(t, 3, stats.TotalReward, 1e-12)
	assert.InDelta(t, 0.75, stats.AverageReward, 1e-12)
	// Arms 0 and 1 both have mean 1; ties break to the lowest index.
	assert.Equal(t, 0, stats.BestArm)
	assert.Len(t, stats.Arms, 3)
	assert.Equal(t, uint64(2), stats.Arms[1].Pulls)
}

func TestExperiment_ConcurrentUpdatesLoseNothing(t *testing.T) {
	exp := newTestExperiment(t, ExperimentConfig{
		Name: "x", Arms: []string{"a", "b"}, Algorithm: AlgorithmThompsonSampling,
	})

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, exp.UpdateReward(0, 1))
		}()
	}
	wg.Wait()

	stats, err := exp.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(n), stats.Arms[0].Pulls)
	assert.InDelta(t, n, stats.Arms[0].CumulativeReward, 1e-9)
}

func TestExperiment_ConcurrentSelectAndUpdate(t *testing.T) {
	exp := newTestExperiment(t, ExperimentConfig{
		Name: "x", Arms: []string{"a", "b", "c"}, Algorithm: AlgorithmUCB,
	})

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := exp.SelectArm()
			assert.NoError(t, err)
		}()
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, exp.UpdateReward(i%3, 0.5))
		}(i)
	}
	wg.Wait()

	stats, err := exp.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(n), stats.TotalSelections)

	var pulls uint64
	for _, a := range stats.Arms {
		pulls += a.Pulls
	}
	assert.Equal(t, uint64(n), pulls)
}

// End-to-end: run the select/reward loop against hidden conversion rates the
// way the surrounding system would.
func TestExperiment_SelectRewardLoop(t *testing.T) {
	exp := newTestExperiment(t, ExperimentConfig{
		Name:      "homepage_banner",
		Arms:      []string{"A", "B", "C"},
		Algorithm: AlgorithmThompsonSampling,
		Seed:      42,
	})

	conversionRates := []float64{0.1, 0.5, 0.9}
	world := rand.New(rand.NewPCG(7, 7))

	const rounds = 100
	for i := 0; i < rounds; i++ {
		sel, err := exp.SelectArm()
		require.NoError(t, err)

		reward := 0.0
		if world.Float64() < conversionRates[sel.ArmIndex] {
			reward = 1.0
		}
		require.NoError(t, exp.UpdateReward(sel.ArmIndex, reward))
	}

	stats, err := exp.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(rounds), stats.TotalSelections)

	var pulls uint64
	for _, a := range stats.Arms {
		pulls += a.Pulls
	}
	assert.Equal(t, uint64(rounds), pulls)
}
