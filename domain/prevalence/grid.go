package prevalence

import (
	"gonum.org/v1/gonum/floats"
)

// MinGridSize is the smallest grid that still spans both ends of [0,1].
const MinGridSize = 2

// Grid is an evenly spaced, inclusive set of candidate prevalence values on [0,1].
type Grid struct {
	points []float64
}

// NewGrid builds a grid of size points from 0 to 1 inclusive.
// Callers validate size >= MinGridSize.
func NewGrid(size int) Grid {
	points := make([]float64, size)
	floats.Span(points, 0, 1)
	return Grid{points: points}
}

// Len returns the number of grid points.
func (g Grid) Len() int { return len(g.points) }

// At returns the i-th grid value.
func (g Grid) At(i int) float64 { return g.points[i] }

// Points returns a copy of the grid values.
func (g Grid) Points() []float64 {
	copied := make([]float64, len(g.points))
	copy(copied, g.points)
	return copied
}

// Step returns the spacing between adjacent points.
func (g Grid) Step() float64 {
	if len(g.points) < 2 {
		return 0
	}
	return g.points[1] - g.points[0]
}

// Curve is a sequence of non-negative values aligned with a Grid.
type Curve []float64

// Max returns the largest value, or 0 for an empty curve.
func (c Curve) Max() float64 {
	if len(c) == 0 {
		return 0
	}
	return floats.Max(c)
}

// ArgMax returns the index of the largest value, or -1 for an empty curve.
func (c Curve) ArgMax() int {
	if len(c) == 0 {
		return -1
	}
	return floats.MaxIdx(c)
}

// Clone returns an independent copy.
func (c Curve) Clone() Curve {
	if c == nil {
		return nil
	}
	copied := make(Curve, len(c))
	copy(copied, c)
	return copied
}
