package analysis

import (
	"fmt"
	"strings"

	"gobayes/domain/core"
	"gobayes/domain/prevalence"
	"gobayes/internal/errors"
)

// DefaultGridSize is the number of candidate prevalence values.
const DefaultGridSize = 1000

// Options configures an analyzer run
type Options struct {
	GridSize    int
	Credibility float64
}

// DefaultOptions returns the grid size and credibility level used by default
func DefaultOptions() Options {
	return Options{
		GridSize:    DefaultGridSize,
		Credibility: DefaultCredibility,
	}
}

// Validate checks the grid size and credibility level
func (o Options) Validate() error {
	if o.GridSize < prevalence.MinGridSize {
		return errors.InvalidParameter("grid size", o.GridSize, fmt.Sprintf("must be at least %d", prevalence.MinGridSize))
	}
	return ValidateCredibility(o.Credibility)
}

// BayesianAnalyzer evaluates the likelihood and the conjugate posteriors of a
// sample over a fixed prevalence grid. Every quantity is computed from
// immutable inputs, so recomputing overwrites a field with the same value.
type BayesianAnalyzer struct {
	sample  prevalence.SummaryStats
	options Options
	grid    prevalence.Grid
	funcs   *StatisticalFunctions
	results prevalence.Results
}

// NewAnalyzer validates the sample and options and builds the grid
func NewAnalyzer(sample prevalence.SummaryStats, options Options) (*BayesianAnalyzer, error) {
	if sample.N == 0 {
		return nil, errors.DegenerateSample("sample has no observations")
	}
	if !sample.Valid() {
		return nil, errors.InvalidParameter("sample", fmt.Sprintf("k=%d n=%d", sample.Positives, sample.N), "must satisfy 0 <= k <= n")
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	grid := prevalence.NewGrid(options.GridSize)
	return &BayesianAnalyzer{
		sample:  sample,
		options: options,
		grid:    grid,
		funcs:   NewStatisticalFunctions(),
		results: prevalence.Results{
			RunID: core.NewRunID(),
			Grid:  grid,
		},
	}, nil
}

// Grid returns the prevalence grid shared by every curve
func (a *BayesianAnalyzer) Grid() prevalence.Grid {
	return a.grid
}

// Sample returns the summary statistics being analyzed
func (a *BayesianAnalyzer) Sample() prevalence.SummaryStats {
	return a.sample
}

// RunID identifies this analysis run
func (a *BayesianAnalyzer) RunID() core.RunID {
	return a.results.RunID
}

// ComputeLikelihood fills the likelihood curve from the sample's (k, n)
func (a *BayesianAnalyzer) ComputeLikelihood() (prevalence.Curve, error) {
	curve, err := a.funcs.BinomialLikelihoodCurve(a.sample.Positives, a.sample.N, a.grid)
	if err != nil {
		return nil, errors.Wrap(err, "likelihood computation failed")
	}
	a.results.Likelihood = curve
	return curve.Clone(), nil
}

// ComputePriorAnalysis fills the prior curve, posterior curve, posterior
// parameters and credible interval for one named prior. It writes only the
// slot belonging to spec.Name.
func (a *BayesianAnalyzer) ComputePriorAnalysis(spec prevalence.PriorSpec) (*prevalence.PriorAnalysis, error) {
	if spec.Name != prevalence.PriorFlat && spec.Name != prevalence.PriorInformative {
		return nil, errors.InvalidParameter("prior name", spec.Name, "must be flat or informative")
	}

	priorCurve, err := a.funcs.BetaDensityCurve(a.grid, spec.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "%s prior density failed", spec.Name)
	}

	posteriorCurve, posterior, err := a.funcs.BetaPosteriorUpdate(a.grid, spec.Params, a.sample.Positives, a.sample.N)
	if err != nil {
		return nil, errors.Wrapf(err, "%s posterior update failed", spec.Name)
	}

	interval, err := a.funcs.CredibleInterval(posterior, a.options.Credibility)
	if err != nil {
		return nil, errors.Wrapf(err, "%s credible interval failed", spec.Name)
	}

	analysis := &prevalence.PriorAnalysis{
		Spec:           spec,
		PriorCurve:     priorCurve,
		PosteriorCurve: posteriorCurve,
		Posterior:      posterior,
		Interval:       interval,
	}

	switch spec.Name {
	case prevalence.PriorFlat:
		a.results.Flat = analysis
	case prevalence.PriorInformative:
		a.results.Informative = analysis
	}

	return cloneAnalysis(analysis), nil
}

// RunFullAnalysis computes the likelihood, then the flat and informative
// prior analyses, in that order
func (a *BayesianAnalyzer) RunFullAnalysis(flat, informative prevalence.PriorSpec) (*prevalence.Results, error) {
	if flat.Name != prevalence.PriorFlat {
		return nil, errors.InvalidParameter("flat prior name", flat.Name, "must be flat")
	}
	if informative.Name != prevalence.PriorInformative {
		return nil, errors.InvalidParameter("informative prior name", informative.Name, "must be informative")
	}

	if _, err := a.ComputeLikelihood(); err != nil {
		return nil, err
	}
	if _, err := a.ComputePriorAnalysis(flat); err != nil {
		return nil, err
	}
	if _, err := a.ComputePriorAnalysis(informative); err != nil {
		return nil, err
	}

	return a.Results(), nil
}

// Results returns a copy of the results record; callers cannot mutate the
// analyzer's state through it.
func (a *BayesianAnalyzer) Results() *prevalence.Results {
	return &prevalence.Results{
		RunID:       a.results.RunID,
		Grid:        a.results.Grid,
		Likelihood:  a.results.Likelihood.Clone(),
		Flat:        cloneAnalysis(a.results.Flat),
		Informative: cloneAnalysis(a.results.Informative),
	}
}

// Summary formats sample size, positive count, MLE and each computed
// prior's credible interval
func (a *BayesianAnalyzer) Summary() string {
	lines := []string{
		fmt.Sprintf("Sample size: %d", a.sample.N),
		fmt.Sprintf("Positive tests: %d", a.sample.Positives),
		fmt.Sprintf("MLE: %.3f", a.sample.MLE),
	}

	for _, analysis := range a.results.Analyses() {
		lines = append(lines, fmt.Sprintf("%s CI (%s prior): %s",
			analysis.Interval.Label(), analysis.Spec.Name, analysis.Interval))
	}

	return strings.Join(lines, "\n")
}

func cloneAnalysis(analysis *prevalence.PriorAnalysis) *prevalence.PriorAnalysis {
	if analysis == nil {
		return nil
	}
	copied := *analysis
	copied.PriorCurve = analysis.PriorCurve.Clone()
	copied.PosteriorCurve = analysis.PosteriorCurve.Clone()
	return &copied
}
