package ports

import (
	"context"

	"gobayes/domain/prevalence"
)

// RenderRequest carries everything a renderer consumes from one analysis run.
// Renderers read it and never reach into the analyzer.
type RenderRequest struct {
	Grid      prevalence.Grid
	Results   *prevalence.Results
	Sample    prevalence.SummaryStats
	TrueValue float64
}

// RenderedArtifact describes one chart produced by a renderer
type RenderedArtifact struct {
	Name string
	// Path is empty when the chart was built but not written.
	Path string
}

// RenderReport lists produced charts and the charts that failed.
// A failure of one chart does not prevent the others.
type RenderReport struct {
	Artifacts []RenderedArtifact
	Failures  []error
}

// Failed reports whether any chart failed
func (r *RenderReport) Failed() bool {
	return len(r.Failures) > 0
}

// Saved returns the paths of written charts
func (r *RenderReport) Saved() []string {
	var paths []string
	for _, a := range r.Artifacts {
		if a.Path != "" {
			paths = append(paths, a.Path)
		}
	}
	return paths
}

// RendererPort turns analysis results into charts
type RendererPort interface {
	Render(ctx context.Context, req RenderRequest) (*RenderReport, error)
}
