package charts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gobayes/domain/prevalence"
	"gobayes/internal/analysis"
	"gobayes/internal/config"
	"gobayes/internal/errors"
	"gobayes/ports"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Chart names, also used as file names
const (
	ChartLikelihood       = "likelihood"
	ChartBayesianUpdating = "bayesian_updating"
	ChartPriorSensitivity = "prior_sensitivity"
)

// Options configures figure geometry and output
type Options struct {
	Width     vg.Length
	Height    vg.Length
	DPI       int
	Save      bool
	OutputDir string
	Format    string
}

// OptionsFromConfig converts plot configuration (inches) into renderer options
func OptionsFromConfig(cfg config.PlotConfig) Options {
	return Options{
		Width:     vg.Length(cfg.Width) * vg.Inch,
		Height:    vg.Length(cfg.Height) * vg.Inch,
		DPI:       cfg.DPI,
		Save:      cfg.Save,
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
	}
}

// Renderer draws the analysis charts with gonum/plot
type Renderer struct {
	options Options
	funcs   *analysis.StatisticalFunctions
	logger  *zap.Logger
}

var _ ports.RendererPort = (*Renderer)(nil)

// NewRenderer creates a chart renderer
func NewRenderer(options Options, logger *zap.Logger) (*Renderer, error) {
	if !config.IsSupportedFormat(options.Format) {
		return nil, errors.InvalidParameter("plot format", options.Format, "is not supported")
	}
	if options.Width <= 0 || options.Height <= 0 || options.DPI <= 0 {
		return nil, errors.InvalidParameter("figure size", fmt.Sprintf("%vx%v@%d", options.Width, options.Height, options.DPI), "must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		options: options,
		funcs:   analysis.NewStatisticalFunctions(),
		logger:  logger,
	}, nil
}

type chartBuilder struct {
	name  string
	build func(req ports.RenderRequest) (*plot.Plot, error)
}

// Render builds the likelihood, Bayesian updating and prior sensitivity
// charts. A chart that fails is reported and skipped; the rest continue.
func (r *Renderer) Render(ctx context.Context, req ports.RenderRequest) (*ports.RenderReport, error) {
	if req.Results == nil {
		return nil, errors.InvalidParameter("results", nil, "are required for rendering")
	}

	report := &ports.RenderReport{}

	var dirErr error
	if r.options.Save {
		dirErr = os.MkdirAll(r.options.OutputDir, 0o755)
		if dirErr != nil {
			r.logger.Warn("output directory unavailable",
				zap.String("dir", r.options.OutputDir), zap.Error(dirErr))
		}
	}

	for _, chart := range []chartBuilder{
		{ChartLikelihood, r.PlotLikelihood},
		{ChartBayesianUpdating, r.PlotBayesianUpdating},
		{ChartPriorSensitivity, r.PlotPriorSensitivity},
	} {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		p, err := chart.build(req)
		if err != nil {
			report.Failures = append(report.Failures, errors.RenderingFailure(chart.name, err))
			r.logger.Warn("chart skipped", zap.String("chart", chart.name), zap.Error(err))
			continue
		}

		artifact := ports.RenderedArtifact{Name: chart.name}
		if r.options.Save {
			if dirErr != nil {
				report.Failures = append(report.Failures, errors.RenderingFailure(chart.name, dirErr))
				continue
			}
			path, err := r.save(p, chart.name)
			if err != nil {
				report.Failures = append(report.Failures, errors.RenderingFailure(chart.name, err))
				r.logger.Warn("chart not saved", zap.String("chart", chart.name), zap.Error(err))
				continue
			}
			artifact.Path = path
			r.logger.Debug("chart saved", zap.String("chart", chart.name), zap.String("path", path))
		}
		report.Artifacts = append(report.Artifacts, artifact)
	}

	return report, nil
}

// Path returns the file a chart is written to
func (r *Renderer) Path(name string) string {
	return filepath.Join(r.options.OutputDir, name+"."+r.options.Format)
}

func (r *Renderer) save(p *plot.Plot, name string) (path string, err error) {
	path = r.Path(name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	wt, err := r.writerTo(p)
	if err != nil {
		return "", err
	}
	if _, err := wt.WriteTo(f); err != nil {
		return "", err
	}
	return path, nil
}

// writerTo draws raster formats at the configured DPI; vector formats are
// resolution independent.
func (r *Renderer) writerTo(p *plot.Plot) (io.WriterTo, error) {
	w, h := r.options.Width, r.options.Height

	var raster *vgimg.Canvas
	switch r.options.Format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		raster = vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.options.DPI))
		p.Draw(draw.New(raster))
	}

	switch r.options.Format {
	case "png":
		return vgimg.PngCanvas{Canvas: raster}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: raster}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: raster}, nil
	}
	return p.WriterTo(w, h, r.options.Format)
}

func requireAnalysis(results *prevalence.Results, name prevalence.PriorName) (*prevalence.PriorAnalysis, error) {
	a := results.Analysis(name)
	if a == nil {
		return nil, fmt.Errorf("%s prior analysis has not been computed", name)
	}
	return a, nil
}
