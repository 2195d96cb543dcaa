package charts

import (
	"fmt"
	"image/color"
	"math"

	"gobayes/domain/prevalence"
	"gobayes/ports"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	colorBlack   = color.NRGBA{A: 255}
	colorRed     = color.NRGBA{R: 214, G: 39, B: 40, A: 204}
	colorPurple  = color.NRGBA{R: 128, G: 0, B: 128, A: 255}
	colorMagenta = color.NRGBA{R: 191, G: 0, B: 191, A: 204}
	colorBlue    = color.NRGBA{R: 31, G: 119, B: 180, A: 178}
	colorGreen   = color.NRGBA{R: 44, G: 160, B: 44, A: 204}
	colorGray    = color.NRGBA{R: 128, G: 128, B: 128, A: 153}

	dashed = []vg.Length{vg.Points(6), vg.Points(3)}
	dotted = []vg.Length{vg.Points(1), vg.Points(2)}
)

const thetaLabel = "θ (Prevalence)"

// PlotLikelihood draws the likelihood with MLE and true-value markers
func (r *Renderer) PlotLikelihood(req ports.RenderRequest) (*plot.Plot, error) {
	if req.Results.Likelihood == nil {
		return nil, fmt.Errorf("likelihood has not been computed")
	}

	p := newPlot("Likelihood Function", "Likelihood")
	p.Add(plotter.NewGrid())

	likelihood := req.Results.Likelihood
	if err := addCurve(p, req.Grid, likelihood, "Likelihood", solid(colorBlack, 2)); err != nil {
		return nil, err
	}

	top := finiteMax(likelihood)
	if err := addMarker(p, req.Sample.MLE, top, fmt.Sprintf("MLE = %.3f", req.Sample.MLE), dash(colorRed, 2, dashed)); err != nil {
		return nil, err
	}
	if err := addMarker(p, req.TrueValue, top, fmt.Sprintf("True θ = %.3f", req.TrueValue), dash(colorPurple, 2, dashed)); err != nil {
		return nil, err
	}

	return p, nil
}

// PlotBayesianUpdating overlays the scaled likelihood, flat prior and flat
// posterior
func (r *Renderer) PlotBayesianUpdating(req ports.RenderRequest) (*plot.Plot, error) {
	if req.Results.Likelihood == nil {
		return nil, fmt.Errorf("likelihood has not been computed")
	}
	flat, err := requireAnalysis(req.Results, prevalence.PriorFlat)
	if err != nil {
		return nil, err
	}

	p := newPlot("Bayesian Updating: Prior → Posterior", "Scaled Density")
	p.Add(plotter.NewGrid())

	curves := []struct {
		curve prevalence.Curve
		label string
		style draw.LineStyle
	}{
		{req.Results.Likelihood, "Likelihood", solid(colorMagenta, 1.5)},
		{flat.PriorCurve, "Prior (flat)", dash(colorBlue, 2, dashed)},
		{flat.PosteriorCurve, "Posterior (flat)", solid(colorRed, 2)},
	}
	for _, c := range curves {
		if err := addCurve(p, req.Grid, r.funcs.NormalizeCurve(c.curve), c.label, c.style); err != nil {
			return nil, err
		}
	}

	if err := addMarker(p, req.Sample.MLE, 1, "", dash(colorRed, 1.5, dotted)); err != nil {
		return nil, err
	}
	if err := addMarker(p, req.TrueValue, 1, "", dash(colorPurple, 1.5, dotted)); err != nil {
		return nil, err
	}

	return p, nil
}

// PlotPriorSensitivity compares both priors and their posteriors
func (r *Renderer) PlotPriorSensitivity(req ports.RenderRequest) (*plot.Plot, error) {
	flat, err := requireAnalysis(req.Results, prevalence.PriorFlat)
	if err != nil {
		return nil, err
	}
	informative, err := requireAnalysis(req.Results, prevalence.PriorInformative)
	if err != nil {
		return nil, err
	}

	p := newPlot("Prior Sensitivity Analysis", "Density")

	curves := []struct {
		curve prevalence.Curve
		label string
		style draw.LineStyle
	}{
		{flat.PriorCurve, "Prior (flat)", dash(colorBlue, 2, dashed)},
		{flat.PosteriorCurve, "Posterior (flat)", solid(colorRed, 2)},
		{informative.PriorCurve, "Prior (informative)", solid(colorGray, 2)},
		{informative.PosteriorCurve, "Posterior (informative)", solid(colorGreen, 2)},
	}
	for _, c := range curves {
		if err := addCurve(p, req.Grid, r.funcs.NormalizeCurve(c.curve), c.label, c.style); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func newPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(10)
	p.X.Label.Text = thetaLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(8)
	p.Y.Label.Text = yLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(8)
	p.X.Min = 0
	p.X.Max = 1
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(7)
	return p
}

func solid(c color.Color, width float64) draw.LineStyle {
	return draw.LineStyle{Color: c, Width: vg.Points(width)}
}

func dash(c color.Color, width float64, dashes []vg.Length) draw.LineStyle {
	return draw.LineStyle{Color: c, Width: vg.Points(width), Dashes: dashes}
}

// curveXYs pairs grid and curve values, dropping non-finite points
// (a Beta density with a shape below 1 is infinite at an endpoint).
func curveXYs(grid prevalence.Grid, curve prevalence.Curve) (plotter.XYs, error) {
	if len(curve) != grid.Len() {
		return nil, fmt.Errorf("curve has %d points, grid has %d", len(curve), grid.Len())
	}
	xys := make(plotter.XYs, 0, len(curve))
	for i, y := range curve {
		if math.IsInf(y, 0) || math.IsNaN(y) {
			continue
		}
		xys = append(xys, plotter.XY{X: grid.At(i), Y: y})
	}
	return xys, nil
}

func addCurve(p *plot.Plot, grid prevalence.Grid, curve prevalence.Curve, label string, style draw.LineStyle) error {
	xys, err := curveXYs(grid, curve)
	if err != nil {
		return err
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.LineStyle = style
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

// addMarker draws a vertical reference line at x from 0 to top
func addMarker(p *plot.Plot, x, top float64, label string, style draw.LineStyle) error {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	if err != nil {
		return err
	}
	line.LineStyle = style
	p.Add(line)
	if label != "" {
		p.Legend.Add(label, line)
	}
	return nil
}

func finiteMax(curve prevalence.Curve) float64 {
	top := 0.0
	for _, v := range curve {
		if !math.IsInf(v, 0) && v > top {
			top = v
		}
	}
	return top
}
