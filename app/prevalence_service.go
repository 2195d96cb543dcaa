package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gobayes/domain/core"
	"gobayes/domain/prevalence"
	"gobayes/internal/analysis"
	"gobayes/internal/config"
	"gobayes/internal/errors"
	"gobayes/internal/logging"
	"gobayes/internal/simulation"
	"gobayes/ports"

	"go.uber.org/zap"
)

const (
	bannerTitle = "BAYESIAN PREVALENCE ANALYSIS"
	bannerWidth = 60
)

// PrevalenceService runs the simulate → analyze → visualize → display pipeline
type PrevalenceService struct {
	cfg       *config.Config
	simulator ports.SimulatorPort
	renderer  ports.RendererPort
	out       io.Writer
	logger    *zap.Logger
}

// PipelineResult contains the complete output of one run
type PipelineResult struct {
	RunID       core.RunID              `json:"run_id"`
	Sample      prevalence.SummaryStats `json:"sample"`
	Fingerprint core.Hash               `json:"fingerprint"`
	Results     *prevalence.Results     `json:"results"`
	Summary     string                  `json:"summary"`
	Render      *ports.RenderReport     `json:"-"`
	RuntimeMs   int64                   `json:"runtime_ms"`
}

// NewPrevalenceService creates the pipeline service. A nil renderer skips
// the visualization stage.
func NewPrevalenceService(cfg *config.Config, simulator ports.SimulatorPort, renderer ports.RendererPort, out io.Writer, logger *zap.Logger) *PrevalenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrevalenceService{
		cfg:       cfg,
		simulator: simulator,
		renderer:  renderer,
		out:       out,
		logger:    logger,
	}
}

// Run executes every stage and prints the progress report. Simulation and
// analysis errors abort the run; chart failures are reported and the run
// still succeeds.
func (s *PrevalenceService) Run(ctx context.Context) (*PipelineResult, error) {
	startTime := time.Now()
	s.banner(bannerTitle)

	s.printf("\n[1/4] Simulating test data...\n")
	obs, sample, err := s.Simulate()
	if err != nil {
		return nil, err
	}
	s.printf("   Tested: %d people\n", sample.N)
	s.printf("   Positive: %d tests\n", sample.Positives)
	s.printf("   Observed prevalence: %.3f\n", sample.ObservedPrevalence)

	s.printf("\n[2/4] Running Bayesian analysis...\n")
	analyzer, results, err := s.Analyze(sample)
	if err != nil {
		return nil, err
	}
	summary := analyzer.Summary()
	s.printf("\n%s\n", summary)

	result := &PipelineResult{
		RunID:       results.RunID,
		Sample:      sample,
		Fingerprint: obs.Fingerprint(),
		Results:     results,
		Summary:     summary,
	}
	logger := s.logger.With(zap.String("run_id", result.RunID.String()))

	s.printf("\n[3/4] Generating visualizations...\n")
	if s.renderer == nil {
		s.printf("   Skipped: no renderer configured\n")
	} else {
		report, err := s.renderer.Render(ctx, ports.RenderRequest{
			Grid:      analyzer.Grid(),
			Results:   results,
			Sample:    sample,
			TrueValue: s.cfg.Simulation.TrueValue,
		})
		if err != nil {
			return nil, errors.Wrap(err, "visualization failed")
		}
		result.Render = report
		for _, path := range report.Saved() {
			s.printf("Saved: %s\n", path)
		}
		for _, failure := range report.Failures {
			s.printf("Skipped: %v\n", failure)
		}
		if report.Failed() {
			logger.Warn("some charts failed", zap.Array("failures", logging.ErrArray(report.Failures)))
		}
	}

	s.printf("\n[4/4] Displaying results...\n")
	s.display(result)

	s.printf("\n")
	s.banner("Analysis complete!")

	result.RuntimeMs = time.Since(startTime).Milliseconds()
	logger.Info("analysis run complete",
		zap.Int("n", sample.N),
		zap.Int("positives", sample.Positives),
		zap.String("fingerprint", result.Fingerprint.Short()),
		zap.Int64("runtime_ms", result.RuntimeMs),
	)
	return result, nil
}

// Simulate draws the configured sample and reduces it to summary statistics
func (s *PrevalenceService) Simulate() (prevalence.Observations, prevalence.SummaryStats, error) {
	simCfg := s.cfg.Simulation
	obs, err := s.simulator.Simulate(simCfg.SampleSize, simCfg.TrueValue)
	if err != nil {
		return prevalence.Observations{}, prevalence.SummaryStats{}, errors.Wrap(err, "simulation failed")
	}

	sample, err := simulation.Summarize(obs)
	if err != nil {
		return prevalence.Observations{}, prevalence.SummaryStats{}, errors.Wrap(err, "simulation failed")
	}

	s.logger.Debug("sample simulated",
		zap.Int("n", sample.N),
		zap.Int("positives", sample.Positives),
		zap.Float64("true_prevalence", simCfg.TrueValue),
		zap.String("fingerprint", obs.Fingerprint().Short()),
	)
	return obs, sample, nil
}

// Analyze runs the full Bayesian analysis on a sample
func (s *PrevalenceService) Analyze(sample prevalence.SummaryStats) (*analysis.BayesianAnalyzer, *prevalence.Results, error) {
	analyzer, err := analysis.NewAnalyzer(sample, analysis.Options{
		GridSize:    s.cfg.Analysis.GridSize,
		Credibility: s.cfg.Analysis.Credibility,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "analysis failed")
	}

	flat, informative := s.cfg.PriorSpecs()
	results, err := analyzer.RunFullAnalysis(flat, informative)
	if err != nil {
		return nil, nil, errors.Wrap(err, "analysis failed")
	}

	for _, a := range results.Analyses() {
		s.logger.Debug("posterior computed",
			zap.String("prior", string(a.Spec.Name)),
			zap.Stringer("prior_params", a.Spec.Params),
			zap.Stringer("posterior_params", a.Posterior),
			zap.Float64("lower", a.Interval.Lower),
			zap.Float64("upper", a.Interval.Upper),
		)
	}
	return analyzer, results, nil
}

func (s *PrevalenceService) display(result *PipelineResult) {
	s.printf("   Run: %s (sample %s)\n", result.RunID.Short(), result.Fingerprint.Short())
	for _, a := range result.Results.Analyses() {
		s.printf("   %s prior %s → posterior %s\n", a.Spec.Name, a.Spec.Params, a.Posterior)
	}
	if result.Render == nil {
		return
	}
	for _, artifact := range result.Render.Artifacts {
		location := artifact.Path
		if location == "" {
			location = "not saved"
		}
		s.printf("   Chart %s: %s\n", artifact.Name, location)
	}
	if n := len(result.Render.Failures); n > 0 {
		s.printf("   %d chart(s) failed\n", n)
	}
}

func (s *PrevalenceService) banner(title string) {
	rule := strings.Repeat("=", bannerWidth)
	s.printf("%s\n%s\n%s\n", rule, title, rule)
}

func (s *PrevalenceService) printf(format string, args ...interface{}) {
	if s.out == nil {
		return
	}
	fmt.Fprintf(s.out, format, args...)
}
