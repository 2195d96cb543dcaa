package testkit

import (
	"math"

	"gobayes/domain/prevalence"
	"gobayes/internal/config"

	"gonum.org/v1/gonum/integrate"
)

// ObservationsWithPositives builds an observation set of n outcomes whose
// first k are positive.
func ObservationsWithPositives(n, k int) prevalence.Observations {
	outcomes := make([]bool, n)
	for i := 0; i < k && i < n; i++ {
		outcomes[i] = true
	}
	return prevalence.NewObservations(outcomes)
}

// SampleWithPositives builds summary statistics for k positives out of n.
func SampleWithPositives(n, k int) prevalence.SummaryStats {
	mle := float64(k) / float64(n)
	return prevalence.SummaryStats{
		N:                  n,
		Positives:          k,
		ObservedPrevalence: mle,
		MLE:                mle,
	}
}

// ScenarioConfig returns the reference configuration writing into outputDir.
// The grid is kept at its default size.
func ScenarioConfig(outputDir string) *config.Config {
	cfg := config.Default()
	cfg.Plot.OutputDir = outputDir
	cfg.Plot.DPI = 72
	cfg.Logging.Level = "debug"
	return cfg
}

// ReferenceBetaDensity evaluates the Beta density from log-gamma terms,
// independently of gonum's distuv. Valid for 0 < x < 1.
func ReferenceBetaDensity(x, alpha, beta float64) float64 {
	lgA, _ := math.Lgamma(alpha)
	lgB, _ := math.Lgamma(beta)
	lgAB, _ := math.Lgamma(alpha + beta)
	logDensity := lgAB - lgA - lgB + (alpha-1)*math.Log(x) + (beta-1)*math.Log(1-x)
	return math.Exp(logDensity)
}

// ReferenceBinomialPMF evaluates C(n,k) p^k (1-p)^(n-k) from log-gamma
// terms. Valid for 0 < p < 1.
func ReferenceBinomialPMF(k, n int, p float64) float64 {
	lgN, _ := math.Lgamma(float64(n + 1))
	lgK, _ := math.Lgamma(float64(k + 1))
	lgNK, _ := math.Lgamma(float64(n - k + 1))
	logPMF := lgN - lgK - lgNK + float64(k)*math.Log(p) + float64(n-k)*math.Log1p(-p)
	return math.Exp(logPMF)
}

// TrapezoidArea integrates a curve over a grid with the trapezoid rule.
// Curves with infinite endpoints are not supported.
func TrapezoidArea(grid prevalence.Grid, curve prevalence.Curve) float64 {
	return integrate.Trapezoidal(grid.Points(), curve)
}
