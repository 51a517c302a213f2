package bandit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(name string) ExperimentConfig {
	return ExperimentConfig{
		Name:      name,
		Arms:      []string{"a", "b"},
		Algorithm: AlgorithmThompsonSampling,
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := NewRegistry(nil, nil)

	summary, err := reg.Create(testConfig("exp1"))
	require.NoError(t, err)
	assert.Equal(t, "exp1", summary.Name)
	assert.Equal(t, AlgorithmThompsonSampling, summary.Algorithm)
	assert.Equal(t, 2, summary.ArmCount)
	assert.NotEmpty(t, summary.ID)
	assert.False(t, summary.CreatedAt.IsZero())

	exp, err := reg.Get("exp1")
	require.NoError(t, err)
	assert.Equal(t, "exp1", exp.Name())

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, ErrExperimentNotFound)
}

func TestRegistry_CreateDuplicate(t *testing.T) {
	reg := NewRegistry(nil, nil)

	_, err := reg.Create(testConfig("exp1"))
	require.NoError(t, err)

	_, err = reg.Create(testConfig("exp1"))
	assert.ErrorIs(t, err, ErrExperimentExists)
}

func TestRegistry_CreateInvalidConfigNotRegistered(t *testing.T) {
	reg := NewRegistry(nil, nil)

	cfg := testConfig("bad")
	cfg.Arms = []string{"only"}
	_, err := reg.Create(cfg)
	assert.ErrorIs(t, err, ErrInvalidExperimentConfig)

	_, err = reg.Get("bad")
	assert.ErrorIs(t, err, ErrExperimentNotFound)
}

func TestRegistry_ByNameOperations(t *testing.T) {
	reg := NewRegistry(nil, nil)
	_, err := reg.Create(testConfig("exp1"))
	require.NoError(t, err)

	sel, err := reg.SelectArm("exp1")
	require.NoError(t, err)
	require.NoError(t, reg.UpdateReward("exp1", sel.ArmIndex, 1))

	stats, err := reg.Stats("exp1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalSelections)

	// Unknown names are never created implicitly.
	_, err = reg.SelectArm("nope")
	assert.ErrorIs(t, err, ErrExperimentNotFound)
	assert.ErrorIs(t, reg.UpdateReward("nope", 0, 1), ErrExperimentNotFound)
	_, err = reg.Stats("nope")
	assert.ErrorIs(t, err, ErrExperimentNotFound)
}

func TestRegistry_DeleteNotIdempotent(t *testing.T) {
	reg := NewRegistry(nil, nil)
	_, err := reg.Create(testConfig("exp1"))
	require.NoError(t, err)

	require.NoError(t, reg.Delete("exp1"))
	assert.ErrorIs(t, reg.Delete("exp1"), ErrExperimentNotFound)

	_, err = reg.SelectArm("exp1")
	assert.ErrorIs(t, err, ErrExperimentNotFound)
}

func TestRegistry_StaleHandleAfterDelete(t *testing.T) {
	reg := NewRegistry(nil, nil)
	_, err := reg.Create(testConfig("exp1"))
	require.NoError(t, err)

	exp, err := reg.Get("exp1")
	require.NoError(t, err)
	require.NoError(t, reg.Delete("exp1"))

	_, err = exp.SelectArm()
	assert.ErrorIs(t, err, ErrExperimentNotFound)
	assert.ErrorIs(t, exp.UpdateReward(0, 1), ErrExperimentNotFound)
	_, err = exp.Stats()
	assert.ErrorIs(t, err, ErrExperimentNotFound)
}

func TestRegistry_List(t *testing.T) {
	reg := NewRegistry(nil, nil)
	assert.Empty(t, reg.List())

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := reg.Create(testConfig(name))
		require.NoError(t, err)
	}

	list := reg.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_CrossExperimentParallelism(t *testing.T) {
	reg := NewRegistry(nil, nil)
	names := []string{"e1", "e2", "e3", "e4"}
	for _, name := range names {
		_, err := reg.Create(testConfig(name))
		require.NoError(t, err)
	}

	const perExperiment = 100
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < perExperiment; i++ {
				sel, err := reg.SelectArm(name)
				assert.NoError(t, err)
				assert.NoError(t, reg.UpdateReward(name, sel.ArmIndex, 1))
			}
		}(name)
	}
	wg.Wait()

	for _, name := range names {
		stats, err := reg.Stats(name)
		require.NoError(t, err)
		assert.Equal(t, uint64(perExperiment), stats.TotalSelections)
	}
}

func TestRegistry_ConcurrentCreateDelete(t *testing.T) {
	reg := NewRegistry(nil, nil)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			// Exactly one goroutine per name wins creation.
			_, err := reg.Create(testConfig("contested"))
			if err != nil {
				assert.ErrorIs(t, err, ErrExperimentExists)
			}
		}()
		go func() {
			defer wg.Done()
			if err := reg.Delete("contested"); err != nil {
				assert.ErrorIs(t, err, ErrExperimentNotFound)
			}
		}()
	}
	wg.Wait()
}
