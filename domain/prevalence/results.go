package prevalence

import "gobayes/domain/core"

// PriorName identifies one of the named priors of an analysis run.
type PriorName string

const (
	PriorFlat        PriorName = "flat"
	PriorInformative PriorName = "informative"
)

// PriorSpec is a named Beta prior.
type PriorSpec struct {
	Name   PriorName  `json:"name"`
	Params BetaParams `json:"params"`
}

// NewPriorSpec builds a named prior.
func NewPriorSpec(name PriorName, alpha, beta float64) PriorSpec {
	return PriorSpec{Name: name, Params: BetaParams{Alpha: alpha, Beta: beta}}
}

// PriorAnalysis holds every quantity derived for one prior.
type PriorAnalysis struct {
	Spec           PriorSpec        `json:"spec"`
	PriorCurve     Curve            `json:"prior_curve"`
	PosteriorCurve Curve            `json:"posterior_curve"`
	Posterior      BetaParams       `json:"posterior"`
	Interval       CredibleInterval `json:"interval"`
}

// Results is the record produced by one analysis run. Each field is written
// once per run by the analyzer and read by renderers and reports.
type Results struct {
	RunID       core.RunID     `json:"run_id"`
	Grid        Grid           `json:"-"`
	Likelihood  Curve          `json:"likelihood,omitempty"`
	Flat        *PriorAnalysis `json:"flat,omitempty"`
	Informative *PriorAnalysis `json:"informative,omitempty"`
}

// Analysis returns the analysis for the named prior, or nil.
func (r *Results) Analysis(name PriorName) *PriorAnalysis {
	switch name {
	case PriorFlat:
		return r.Flat
	case PriorInformative:
		return r.Informative
	}
	return nil
}

// Analyses returns the computed prior analyses in fixed order: flat, informative.
func (r *Results) Analyses() []*PriorAnalysis {
	var out []*PriorAnalysis
	if r.Flat != nil {
		out = append(out, r.Flat)
	}
	if r.Informative != nil {
		out = append(out, r.Informative)
	}
	return out
}

// Complete reports whether the likelihood and both priors are computed.
func (r *Results) Complete() bool {
	return r.Likelihood != nil && r.Flat != nil && r.Informative != nil
}
