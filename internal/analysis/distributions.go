package analysis

import (
	"math"

	"gobayes/domain/prevalence"
	"gobayes/internal/errors"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultCredibility is the credibility level used when none is configured.
const DefaultCredibility = 0.95

// StatisticalFunctions provides the closed-form routines of the Beta-Binomial
// model. It holds no state; every method is a pure function of its arguments.
type StatisticalFunctions struct{}

// NewStatisticalFunctions creates a new statistical functions utility
func NewStatisticalFunctions() *StatisticalFunctions {
	return &StatisticalFunctions{}
}

// BinomialLikelihood computes P(K=k | n, theta) = C(n,k) theta^k (1-theta)^(n-k).
func (sf *StatisticalFunctions) BinomialLikelihood(k, n int, theta float64) (float64, error) {
	if err := validateCounts(k, n); err != nil {
		return 0, err
	}
	if err := validateProbability("theta", theta); err != nil {
		return 0, err
	}
	return binomialPMF(k, n, theta), nil
}

// BinomialLikelihoodCurve evaluates the binomial likelihood at every grid point.
func (sf *StatisticalFunctions) BinomialLikelihoodCurve(k, n int, grid prevalence.Grid) (prevalence.Curve, error) {
	if err := validateCounts(k, n); err != nil {
		return nil, err
	}

	curve := make(prevalence.Curve, grid.Len())
	for i := range curve {
		curve[i] = binomialPMF(k, n, grid.At(i))
	}
	return curve, nil
}

// binomialPMF handles the endpoints exactly; distuv.Binomial would produce
// 0*log(0) there.
func binomialPMF(k, n int, theta float64) float64 {
	switch theta {
	case 0:
		if k == 0 {
			return 1
		}
		return 0
	case 1:
		if k == n {
			return 1
		}
		return 0
	}
	return distuv.Binomial{N: float64(n), P: theta}.Prob(float64(k))
}

// BetaDensity computes the Beta(alpha, beta) probability density at theta.
func (sf *StatisticalFunctions) BetaDensity(theta float64, params prevalence.BetaParams) (float64, error) {
	if err := validateBeta(params); err != nil {
		return 0, err
	}
	if err := validateProbability("theta", theta); err != nil {
		return 0, err
	}
	return betaPDF(theta, params), nil
}

// BetaDensityCurve evaluates the Beta density at every grid point.
func (sf *StatisticalFunctions) BetaDensityCurve(grid prevalence.Grid, params prevalence.BetaParams) (prevalence.Curve, error) {
	if err := validateBeta(params); err != nil {
		return nil, err
	}

	curve := make(prevalence.Curve, grid.Len())
	for i := range curve {
		curve[i] = betaPDF(grid.At(i), params)
	}
	return curve, nil
}

// betaPDF returns the limit of the density at the endpoints:
// 0 when the exponent is positive, the other shape when it is zero,
// +Inf when it is negative.
func betaPDF(theta float64, params prevalence.BetaParams) float64 {
	switch theta {
	case 0:
		return endpointDensity(params.Alpha, params.Beta)
	case 1:
		return endpointDensity(params.Beta, params.Alpha)
	}
	return distuv.Beta{Alpha: params.Alpha, Beta: params.Beta}.Prob(theta)
}

func endpointDensity(near, far float64) float64 {
	switch {
	case near > 1:
		return 0
	case near == 1:
		// 1/B(1, far) = far
		return far
	default:
		return math.Inf(1)
	}
}

// BetaPosteriorUpdate applies the conjugate update of a Beta prior with a
// Binomial likelihood: alpha' = alpha + k, beta' = beta + (n - k). It returns
// the posterior density over the grid together with the posterior parameters.
func (sf *StatisticalFunctions) BetaPosteriorUpdate(grid prevalence.Grid, prior prevalence.BetaParams, k, n int) (prevalence.Curve, prevalence.BetaParams, error) {
	posterior, err := sf.PosteriorParams(prior, k, n)
	if err != nil {
		return nil, prevalence.BetaParams{}, err
	}
	curve, err := sf.BetaDensityCurve(grid, posterior)
	if err != nil {
		return nil, prevalence.BetaParams{}, err
	}
	return curve, posterior, nil
}

// PosteriorParams returns Beta(alpha + k, beta + n - k) without evaluating
// a density.
func (sf *StatisticalFunctions) PosteriorParams(prior prevalence.BetaParams, k, n int) (prevalence.BetaParams, error) {
	if err := validateCounts(k, n); err != nil {
		return prevalence.BetaParams{}, err
	}
	if err := validateBeta(prior); err != nil {
		return prevalence.BetaParams{}, err
	}
	return prior.Update(k, n), nil
}

// NormalizeCurve rescales a curve so its maximum equals 1. Curves whose
// maximum is not a positive finite number are returned as an unchanged copy.
func (sf *StatisticalFunctions) NormalizeCurve(values prevalence.Curve) prevalence.Curve {
	out := values.Clone()
	maxVal := values.Max()
	if !(maxVal > 0) || math.IsInf(maxVal, 1) {
		return out
	}
	for i, v := range out {
		out[i] = v / maxVal
	}
	return out
}

// BetaCDF computes the cumulative distribution function of Beta(alpha, beta) at x.
func (sf *StatisticalFunctions) BetaCDF(x float64, params prevalence.BetaParams) (float64, error) {
	if err := validateBeta(params); err != nil {
		return 0, err
	}
	switch {
	case x <= 0:
		return 0, nil
	case x >= 1:
		return 1, nil
	}
	return distuv.Beta{Alpha: params.Alpha, Beta: params.Beta}.CDF(x), nil
}

// BetaQuantile computes the inverse CDF of Beta(alpha, beta) at probability p,
// via the inverse regularized incomplete Beta function.
func (sf *StatisticalFunctions) BetaQuantile(p float64, params prevalence.BetaParams) (float64, error) {
	if err := validateBeta(params); err != nil {
		return 0, err
	}
	if err := validateProbability("p", p); err != nil {
		return 0, err
	}
	return mathext.InvRegIncBeta(params.Alpha, params.Beta, p), nil
}

// CredibleInterval computes the central interval
// [F^-1((1-c)/2), F^-1(1-(1-c)/2)] of the posterior Beta distribution.
func (sf *StatisticalFunctions) CredibleInterval(posterior prevalence.BetaParams, credibility float64) (prevalence.CredibleInterval, error) {
	if err := validateBeta(posterior); err != nil {
		return prevalence.CredibleInterval{}, err
	}
	if err := ValidateCredibility(credibility); err != nil {
		return prevalence.CredibleInterval{}, err
	}

	tail := (1 - credibility) / 2
	lower := mathext.InvRegIncBeta(posterior.Alpha, posterior.Beta, tail)
	upper := mathext.InvRegIncBeta(posterior.Alpha, posterior.Beta, 1-tail)

	return prevalence.CredibleInterval{
		Lower:       lower,
		Upper:       upper,
		Credibility: credibility,
	}, nil
}

// ValidateCredibility checks 0 < c < 1.
func ValidateCredibility(c float64) error {
	if !(c > 0 && c < 1) {
		return errors.InvalidParameter("credibility", c, "must be in (0,1)")
	}
	return nil
}

func validateCounts(k, n int) error {
	if n < 0 {
		return errors.InvalidParameter("n", n, "must be non-negative")
	}
	if k < 0 || k > n {
		return errors.InvalidParameter("k", k, "must be in [0,n]")
	}
	return nil
}

func validateProbability(name string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return errors.InvalidParameter(name, p, "must be in [0,1]")
	}
	return nil
}

func validateBeta(params prevalence.BetaParams) error {
	if !params.Valid() {
		return errors.InvalidParameter("beta parameters", params, "must have alpha > 0 and beta > 0")
	}
	return nil
}
