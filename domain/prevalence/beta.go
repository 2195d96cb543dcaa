package prevalence

import (
	"fmt"
	"math"
)

// BetaParams holds the shape parameters of a Beta distribution.
// Both must be strictly positive.
type BetaParams struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Valid reports whether both shapes are finite and > 0.
func (p BetaParams) Valid() bool {
	return p.Alpha > 0 && p.Beta > 0 && !math.IsInf(p.Alpha, 0) && !math.IsInf(p.Beta, 0)
}

// Mean returns alpha / (alpha + beta).
func (p BetaParams) Mean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// Mode returns the density's maximum for alpha, beta > 1; NaN otherwise.
func (p BetaParams) Mode() float64 {
	if p.Alpha <= 1 || p.Beta <= 1 {
		return math.NaN()
	}
	return (p.Alpha - 1) / (p.Alpha + p.Beta - 2)
}

// Update applies the conjugate Binomial update with k positives out of n.
func (p BetaParams) Update(k, n int) BetaParams {
	return BetaParams{
		Alpha: p.Alpha + float64(k),
		Beta:  p.Beta + float64(n-k),
	}
}

func (p BetaParams) String() string {
	return fmt.Sprintf("Beta(%g, %g)", p.Alpha, p.Beta)
}

// CredibleInterval is a central posterior interval containing Credibility mass.
type CredibleInterval struct {
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	Credibility float64 `json:"credibility"`
}

// Width returns Upper - Lower.
func (ci CredibleInterval) Width() float64 { return ci.Upper - ci.Lower }

// Midpoint returns the centre of the interval.
func (ci CredibleInterval) Midpoint() float64 { return (ci.Lower + ci.Upper) / 2 }

// Contains reports whether x lies inside the closed interval.
func (ci CredibleInterval) Contains(x float64) bool {
	return x >= ci.Lower && x <= ci.Upper
}

// Label renders the credibility as a percentage, e.g. "95%".
func (ci CredibleInterval) Label() string {
	return fmt.Sprintf("%g%%", math.Round(ci.Credibility*1000)/10)
}

func (ci CredibleInterval) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", ci.Lower, ci.Upper)
}
