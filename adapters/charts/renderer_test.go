package charts

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"gobayes/domain/core"
	"gobayes/domain/prevalence"
	"gobayes/internal/analysis"
	"gobayes/internal/config"
	"gobayes/internal/errors"
	"gobayes/internal/testkit"
	"gobayes/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/plot/vg"
)

func renderRequest(t *testing.T) ports.RenderRequest {
	t.Helper()
	sample := testkit.SampleWithPositives(100, 68)
	analyzer, err := analysis.NewAnalyzer(sample, analysis.Options{GridSize: 201, Credibility: 0.95})
	require.NoError(t, err)

	results, err := analyzer.RunFullAnalysis(
		prevalence.NewPriorSpec(prevalence.PriorFlat, 1, 1),
		prevalence.NewPriorSpec(prevalence.PriorInformative, 2, 18),
	)
	require.NoError(t, err)

	return ports.RenderRequest{
		Grid:      analyzer.Grid(),
		Results:   results,
		Sample:    sample,
		TrueValue: 0.7,
	}
}

func testOptions(dir, format string) Options {
	return Options{
		Width:     2 * vg.Inch,
		Height:    2 * vg.Inch,
		DPI:       40,
		Save:      true,
		OutputDir: dir,
		Format:    format,
	}
}

func newTestRenderer(t *testing.T, options Options) *Renderer {
	t.Helper()
	renderer, err := NewRenderer(options, zaptest.NewLogger(t))
	require.NoError(t, err)
	return renderer
}

func TestRender_WritesAllCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	renderer := newTestRenderer(t, testOptions(dir, "png"))

	report, err := renderer.Render(context.Background(), renderRequest(t))
	require.NoError(t, err)
	assert.False(t, report.Failed())
	require.Len(t, report.Artifacts, 3)

	for i, name := range []string{ChartLikelihood, ChartBayesianUpdating, ChartPriorSensitivity} {
		assert.Equal(t, name, report.Artifacts[i].Name)
		path := filepath.Join(dir, name+".png")
		assert.Equal(t, path, report.Artifacts[i].Path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "%s is not a PNG", path)
	}
	assert.Len(t, report.Saved(), 3)
}

func TestRender_VectorFormat(t *testing.T) {
	dir := t.TempDir()
	renderer := newTestRenderer(t, testOptions(dir, "svg"))

	report, err := renderer.Render(context.Background(), renderRequest(t))
	require.NoError(t, err)
	require.False(t, report.Failed())

	data, err := os.ReadFile(filepath.Join(dir, "prior_sensitivity.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRender_WithoutSaving(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	options := testOptions(dir, "png")
	options.Save = false
	renderer := newTestRenderer(t, options)

	report, err := renderer.Render(context.Background(), renderRequest(t))
	require.NoError(t, err)
	require.Len(t, report.Artifacts, 3)
	assert.Empty(t, report.Saved())

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestRender_SkipsChartWithMissingInputs(t *testing.T) {
	req := renderRequest(t)
	req.Results.Informative = nil

	renderer := newTestRenderer(t, testOptions(t.TempDir(), "png"))
	report, err := renderer.Render(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.True(t, core.IsRenderingFailure(report.Failures[0]))
	assert.Equal(t, errors.CodeRenderingFailure, errors.GetCode(report.Failures[0]))
	assert.Contains(t, report.Failures[0].Error(), ChartPriorSensitivity)

	require.Len(t, report.Artifacts, 2)
	assert.Equal(t, ChartLikelihood, report.Artifacts[0].Name)
	assert.Equal(t, ChartBayesianUpdating, report.Artifacts[1].Name)
}

func TestRender_UnwritableOutputDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	renderer := newTestRenderer(t, testOptions(blocker, "png"))
	report, err := renderer.Render(context.Background(), renderRequest(t))
	require.NoError(t, err)

	assert.Len(t, report.Failures, 3)
	assert.Empty(t, report.Artifacts)
	for _, failure := range report.Failures {
		assert.True(t, core.IsRenderingFailure(failure))
	}
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	renderer := newTestRenderer(t, testOptions(t.TempDir(), "png"))
	report, err := renderer.Render(ctx, renderRequest(t))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Artifacts)
}

func TestRender_RequiresResults(t *testing.T) {
	renderer := newTestRenderer(t, testOptions(t.TempDir(), "png"))
	_, err := renderer.Render(context.Background(), ports.RenderRequest{})
	assert.True(t, core.IsInvalidParameter(err))
}

func TestNewRenderer_RejectsBadOptions(t *testing.T) {
	_, err := NewRenderer(testOptions(t.TempDir(), "bmp"), nil)
	assert.True(t, core.IsInvalidParameter(err))

	options := testOptions(t.TempDir(), "png")
	options.DPI = 0
	_, err = NewRenderer(options, nil)
	assert.True(t, core.IsInvalidParameter(err))
}

func TestOptionsFromConfig(t *testing.T) {
	options := OptionsFromConfig(config.Default().Plot)
	assert.Equal(t, 4*vg.Inch, options.Width)
	assert.Equal(t, 4*vg.Inch, options.Height)
	assert.Equal(t, 600, options.DPI)
	assert.Equal(t, "png", options.Format)
	assert.True(t, options.Save)
}

func TestPlotTitles(t *testing.T) {
	renderer := newTestRenderer(t, testOptions(t.TempDir(), "png"))
	req := renderRequest(t)

	p, err := renderer.PlotLikelihood(req)
	require.NoError(t, err)
	assert.Equal(t, "Likelihood Function", p.Title.Text)

	p, err = renderer.PlotBayesianUpdating(req)
	require.NoError(t, err)
	assert.Equal(t, "Scaled Density", p.Y.Label.Text)

	p, err = renderer.PlotPriorSensitivity(req)
	require.NoError(t, err)
	assert.Equal(t, "Prior Sensitivity Analysis", p.Title.Text)
}

func TestCurveXYs_DropsInfinitePoints(t *testing.T) {
	sf := analysis.NewStatisticalFunctions()
	grid := prevalence.NewGrid(11)
	curve, err := sf.BetaDensityCurve(grid, prevalence.BetaParams{Alpha: 0.5, Beta: 0.5})
	require.NoError(t, err)

	xys, err := curveXYs(grid, curve)
	require.NoError(t, err)
	assert.Len(t, xys, 9)

	_, err = curveXYs(grid, curve[:5])
	assert.Error(t, err)
}
