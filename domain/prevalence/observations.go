package prevalence

import "gobayes/domain/core"

// Observations is an ordered, immutable set of binary test outcomes
// (true = positive).
type Observations struct {
	outcomes []bool
}

// NewObservations copies outcomes into a new observation set.
func NewObservations(outcomes []bool) Observations {
	copied := make([]bool, len(outcomes))
	copy(copied, outcomes)
	return Observations{outcomes: copied}
}

// Len returns the sample size.
func (o Observations) Len() int { return len(o.outcomes) }

// IsEmpty reports whether there are no observations.
func (o Observations) IsEmpty() bool { return len(o.outcomes) == 0 }

// At returns the i-th outcome.
func (o Observations) At(i int) bool { return o.outcomes[i] }

// Positives counts positive outcomes.
func (o Observations) Positives() int {
	k := 0
	for _, positive := range o.outcomes {
		if positive {
			k++
		}
	}
	return k
}

// Outcomes returns a copy of the outcome sequence.
func (o Observations) Outcomes() []bool {
	copied := make([]bool, len(o.outcomes))
	copy(copied, o.outcomes)
	return copied
}

// Values returns the outcomes coded as 1 (positive) and 0 (negative).
func (o Observations) Values() []float64 {
	values := make([]float64, len(o.outcomes))
	for i, positive := range o.outcomes {
		if positive {
			values[i] = 1
		}
	}
	return values
}

// Fingerprint hashes the ordered outcomes; equal seeds give equal fingerprints.
func (o Observations) Fingerprint() core.Hash {
	return core.ComputeOutcomeHash(o.outcomes)
}

// SummaryStats reduces an observation set to the quantities the analysis needs.
//
// Positives is the sufficient statistic of the binomial model; MLE is the
// point estimate. For a Bernoulli mean both MLE and ObservedPrevalence equal
// Positives/N.
type SummaryStats struct {
	N                  int     `json:"n"`
	Positives          int     `json:"positives"`
	ObservedPrevalence float64 `json:"prevalence_observed"`
	MLE                float64 `json:"mle"`
}

// Negatives returns n - k.
func (s SummaryStats) Negatives() int { return s.N - s.Positives }

// Valid checks 0 <= k <= n and n >= 1.
func (s SummaryStats) Valid() bool {
	return s.N >= 1 && s.Positives >= 0 && s.Positives <= s.N
}
