package simulation

import (
	"math/rand/v2"
	"time"

	"gobayes/domain/prevalence"
	"gobayes/internal/config"
	"gobayes/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// DataSimulator draws synthetic test outcomes from an owned random source.
// Each simulator holds its own generator, so independent runs never share
// random state.
type DataSimulator struct {
	src    rand.Source
	seed   uint64
	seeded bool
}

// NewSimulator creates a simulator drawing from src
func NewSimulator(src rand.Source) *DataSimulator {
	return &DataSimulator{src: src}
}

// NewSeeded creates a simulator whose draws are reproducible for a given seed
func NewSeeded(seed uint64) *DataSimulator {
	return &DataSimulator{
		src:    rand.NewPCG(seed, seed),
		seed:   seed,
		seeded: true,
	}
}

// NewUnseeded creates a simulator seeded from the clock
func NewUnseeded() *DataSimulator {
	return NewSimulator(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
}

// Seed returns the seed and whether one was fixed
func (s *DataSimulator) Seed() (uint64, bool) {
	return s.seed, s.seeded
}

// Simulate draws n independent Bernoulli(thetaTrue) outcomes.
// n = 0 yields an empty observation set; Summarize reports it.
func (s *DataSimulator) Simulate(n int, thetaTrue float64) (prevalence.Observations, error) {
	if n < 0 {
		return prevalence.Observations{}, errors.InvalidParameter("sample size", n, "must be non-negative")
	}
	if !(thetaTrue >= 0 && thetaTrue <= 1) {
		return prevalence.Observations{}, errors.InvalidParameter("true prevalence", thetaTrue, "must be in [0,1]")
	}

	dist := distuv.Bernoulli{P: thetaTrue, Src: s.src}
	outcomes := make([]bool, n)
	for i := range outcomes {
		outcomes[i] = dist.Rand() == 1
	}
	return prevalence.NewObservations(outcomes), nil
}

// Summarize reduces observations to sample size, positive count, observed
// prevalence and MLE. An empty set has no defined mean and is rejected.
func Summarize(obs prevalence.Observations) (prevalence.SummaryStats, error) {
	values := obs.Values()

	mean, err := stats.Mean(values)
	if err != nil {
		return prevalence.SummaryStats{}, errors.DegenerateSample("no observations: observed prevalence is undefined")
	}
	positives, err := stats.Sum(values)
	if err != nil {
		return prevalence.SummaryStats{}, errors.Wrap(err, "failed to count positives")
	}

	return prevalence.SummaryStats{
		N:                  len(values),
		Positives:          int(positives),
		ObservedPrevalence: mean,
		MLE:                mean,
	}, nil
}

// FromConfig builds a seeded simulator, or a clock-seeded one when no seed is fixed
func FromConfig(cfg config.SimulationConfig) *DataSimulator {
	if cfg.Seeded {
		return NewSeeded(cfg.Seed)
	}
	return NewUnseeded()
}
