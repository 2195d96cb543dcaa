package core

import (
	"errors"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidParameter marks a value outside its valid domain
	// (prevalence outside [0,1], Beta shape <= 0, counts out of range).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateSample marks a sample with no observations.
	ErrDegenerateSample = errors.New("degenerate sample")

	// ErrRenderingFailure marks a chart that could not be drawn or written.
	ErrRenderingFailure = errors.New("rendering failure")
)

// Error checking helpers
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsDegenerateSample(err error) bool {
	return errors.Is(err, ErrDegenerateSample)
}

func IsRenderingFailure(err error) bool {
	return errors.Is(err, ErrRenderingFailure)
}
