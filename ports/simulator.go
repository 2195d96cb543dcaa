package ports

import "gobayes/domain/prevalence"

// SimulatorPort draws synthetic binary test outcomes
type SimulatorPort interface {
	Simulate(n int, thetaTrue float64) (prevalence.Observations, error)
}
