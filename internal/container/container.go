package container

import (
	"context"
	"io"

	"gobayes/adapters/charts"
	"gobayes/app"
	"gobayes/internal/config"
	"gobayes/internal/errors"
	"gobayes/internal/simulation"
	"gobayes/ports"

	"go.uber.org/zap"
)

// Container holds the pipeline dependencies built from one configuration
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Simulator *simulation.DataSimulator
	// Renderer is nil when charts are disabled.
	Renderer ports.RendererPort

	Service *app.PrevalenceService
}

// Option adjusts how the container is assembled
type Option func(*options)

type options struct {
	out    io.Writer
	charts bool
}

// WithOutput sends the console report to w
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithoutCharts builds the pipeline with no renderer
func WithoutCharts() Option {
	return func(o *options) { o.charts = false }
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, errors.InternalError("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.InternalError("logger cannot be nil")
	}

	o := options{out: io.Discard, charts: true}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Simulator: simulation.FromConfig(cfg.Simulation),
	}

	if o.charts {
		renderer, err := charts.NewRenderer(charts.OptionsFromConfig(cfg.Plot), logger.Named("charts"))
		if err != nil {
			return nil, err
		}
		c.Renderer = renderer
	}

	c.Service = app.NewPrevalenceService(cfg, c.Simulator, c.Renderer, o.out, logger)

	seed, seeded := c.Simulator.Seed()
	logger.Debug("container initialized",
		zap.Bool("charts", c.Renderer != nil),
		zap.Bool("seeded", seeded),
		zap.Uint64("seed", seed),
	)
	return c, nil
}

// Run executes the pipeline once
func (c *Container) Run(ctx context.Context) (*app.PipelineResult, error) {
	return c.Service.Run(ctx)
}

// Shutdown flushes buffered log entries
func (c *Container) Shutdown() {
	_ = c.Logger.Sync()
}
