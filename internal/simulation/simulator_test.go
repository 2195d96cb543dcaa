package simulation

import (
	"math"
	"math/rand/v2"
	"testing"

	"gobayes/domain/core"
	"gobayes/domain/prevalence"
	"gobayes/internal/config"
	"gobayes/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_DeterministicForSeed(t *testing.T) {
	first, err := NewSeeded(1).Simulate(100, 0.7)
	require.NoError(t, err)
	second, err := NewSeeded(1).Simulate(100, 0.7)
	require.NoError(t, err)

	assert.Equal(t, first.Outcomes(), second.Outcomes())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())

	a, err := Summarize(first)
	require.NoError(t, err)
	b, err := Summarize(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulate_DifferentSeedsDiffer(t *testing.T) {
	first, err := NewSeeded(1).Simulate(100, 0.5)
	require.NoError(t, err)
	second, err := NewSeeded(2).Simulate(100, 0.5)
	require.NoError(t, err)

	assert.NotEqual(t, first.Fingerprint(), second.Fingerprint())
}

func TestSimulate_SimulatorsDoNotShareState(t *testing.T) {
	shared := NewSeeded(9)
	_, err := shared.Simulate(50, 0.4)
	require.NoError(t, err)
	afterWarmup, err := shared.Simulate(50, 0.4)
	require.NoError(t, err)

	fresh, err := NewSeeded(9).Simulate(50, 0.4)
	require.NoError(t, err)

	// a second draw from the same simulator continues its stream
	assert.NotEqual(t, fresh.Fingerprint(), afterWarmup.Fingerprint())

	again, err := NewSeeded(9).Simulate(50, 0.4)
	require.NoError(t, err)
	assert.Equal(t, fresh.Fingerprint(), again.Fingerprint())
}

func TestSimulate_ObservedPrevalenceNearTruth(t *testing.T) {
	obs, err := NewSeeded(42).Simulate(20000, 0.7)
	require.NoError(t, err)

	summary, err := Summarize(obs)
	require.NoError(t, err)
	assert.Equal(t, 20000, summary.N)
	assert.InDelta(t, 0.7, summary.ObservedPrevalence, 0.02)
}

func TestSimulate_Extremes(t *testing.T) {
	none, err := NewSeeded(3).Simulate(25, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, none.Positives())

	all, err := NewSeeded(3).Simulate(25, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, all.Positives())
}

func TestSimulate_InvalidParameters(t *testing.T) {
	sim := NewSeeded(1)

	for _, theta := range []float64{-0.1, 1.01} {
		_, err := sim.Simulate(10, theta)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidParameter, errors.GetCode(err))
		assert.True(t, core.IsInvalidParameter(err))
	}

	_, err := sim.Simulate(-1, 0.5)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParameter, errors.GetCode(err))
}

func TestSimulate_NaNPrevalence(t *testing.T) {
	_, err := NewSeeded(1).Simulate(10, math.NaN())
	require.Error(t, err)
	assert.True(t, core.IsInvalidParameter(err))
}

func TestSimulate_ZeroSampleIsDegenerate(t *testing.T) {
	obs, err := NewSeeded(1).Simulate(0, 0.7)
	require.NoError(t, err)
	assert.True(t, obs.IsEmpty())

	_, err = Summarize(obs)
	require.Error(t, err)
	assert.Equal(t, errors.CodeDegenerateSample, errors.GetCode(err))
	assert.True(t, core.IsDegenerateSample(err))
}

func TestSummarize_Counts(t *testing.T) {
	obs := prevalence.NewObservations([]bool{true, true, false, true, false})
	summary, err := Summarize(obs)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.N)
	assert.Equal(t, 3, summary.Positives)
	assert.Equal(t, 2, summary.Negatives())
	assert.InDelta(t, 0.6, summary.ObservedPrevalence, 1e-12)
	assert.InDelta(t, 0.6, summary.MLE, 1e-12)
}

func TestNewSimulator_CustomSource(t *testing.T) {
	sim := NewSimulator(rand.NewPCG(5, 5))
	_, seeded := sim.Seed()
	assert.False(t, seeded)

	obs, err := sim.Simulate(30, 0.5)
	require.NoError(t, err)
	expected, err := NewSeeded(5).Simulate(30, 0.5)
	require.NoError(t, err)
	assert.Equal(t, expected.Outcomes(), obs.Outcomes())
}

func TestNewUnseeded(t *testing.T) {
	sim := NewUnseeded()
	_, seeded := sim.Seed()
	assert.False(t, seeded)

	obs, err := sim.Simulate(10, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 10, obs.Len())
}

func TestFromConfig(t *testing.T) {
	sim := FromConfig(config.SimulationConfig{Seed: 11, Seeded: true})
	seed, seeded := sim.Seed()
	assert.True(t, seeded)
	assert.Equal(t, uint64(11), seed)

	_, seeded = FromConfig(config.SimulationConfig{Seed: 11}).Seed()
	assert.False(t, seeded)
}
