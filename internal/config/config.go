package config

import (
	"os"
	"strconv"
	"strings"

	"gobayes/domain/prevalence"
	"gobayes/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig
	Priors     PriorConfig
	Analysis   AnalysisConfig
	Plot       PlotConfig
	Logging    LoggingConfig
}

// SimulationConfig holds the synthetic data settings
type SimulationConfig struct {
	SampleSize int
	// Seed is ignored when Seeded is false; the simulator then seeds from the clock.
	Seed      uint64
	Seeded    bool
	TrueValue float64
}

// PriorConfig holds the two Beta priors compared by the analysis
type PriorConfig struct {
	FlatAlpha float64
	FlatBeta  float64
	InfoAlpha float64
	InfoBeta  float64
}

// AnalysisConfig holds grid and interval settings
type AnalysisConfig struct {
	GridSize    int
	Credibility float64
}

// PlotConfig holds figure and output settings
type PlotConfig struct {
	Width     float64 // inches
	Height    float64 // inches
	DPI       int
	Save      bool
	OutputDir string
	Format    string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// SupportedFormats lists the image formats the chart renderer can write
var SupportedFormats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}

// Default returns the configuration of the reference malaria scenario
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			SampleSize: 100,
			Seed:       1,
			Seeded:     true,
			TrueValue:  0.7,
		},
		Priors: PriorConfig{
			FlatAlpha: 1,
			FlatBeta:  1,
			InfoAlpha: 2,
			InfoBeta:  18,
		},
		Analysis: AnalysisConfig{
			GridSize:    1000,
			Credibility: 0.95,
		},
		Plot: PlotConfig{
			Width:     4,
			Height:    4,
			DPI:       600,
			Save:      true,
			OutputDir: "outputs",
			Format:    "png",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "dev",
		},
	}
}

// Load reads configuration from environment variables and validates it.
// A variable that is set but does not parse is reported as CONFIG_INVALID.
func Load() (*Config, error) {
	def := Default()
	config := &Config{}
	env := &envReader{}

	simulation, err := loadSimulationConfig(env, def.Simulation)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load simulation configuration")
	}
	config.Simulation = *simulation

	config.Priors = PriorConfig{
		FlatAlpha: env.Float("PRIOR_FLAT_ALPHA", def.Priors.FlatAlpha),
		FlatBeta:  env.Float("PRIOR_FLAT_BETA", def.Priors.FlatBeta),
		InfoAlpha: env.Float("PRIOR_INFO_ALPHA", def.Priors.InfoAlpha),
		InfoBeta:  env.Float("PRIOR_INFO_BETA", def.Priors.InfoBeta),
	}

	config.Analysis = AnalysisConfig{
		GridSize:    env.Int("THETA_GRID_SIZE", def.Analysis.GridSize),
		Credibility: env.Float("CREDIBILITY", def.Analysis.Credibility),
	}

	config.Plot = PlotConfig{
		Width:     env.Float("FIGURE_WIDTH", def.Plot.Width),
		Height:    env.Float("FIGURE_HEIGHT", def.Plot.Height),
		DPI:       env.Int("DPI", def.Plot.DPI),
		Save:      env.Bool("SAVE_PLOTS", def.Plot.Save),
		OutputDir: getEnvOrDefault("OUTPUT_DIR", def.Plot.OutputDir),
		Format:    strings.ToLower(getEnvOrDefault("PLOT_FORMAT", def.Plot.Format)),
	}

	config.Logging = LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", def.Logging.Level),
		Format: getEnvOrDefault("LOG_FORMAT", def.Logging.Format),
	}

	if env.err != nil {
		return nil, errors.Wrap(env.err, "failed to parse configuration")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSimulationConfig(env *envReader, def SimulationConfig) (*SimulationConfig, error) {
	simulation := &SimulationConfig{
		SampleSize: env.Int("SAMPLE_SIZE", def.SampleSize),
		Seed:       def.Seed,
		Seeded:     def.Seeded,
		TrueValue:  env.Float("TRUE_PREVALENCE", def.TrueValue),
	}
	if env.err != nil {
		return nil, env.err
	}

	raw := strings.TrimSpace(os.Getenv("RANDOM_SEED"))
	switch strings.ToLower(raw) {
	case "":
	case "none", "random":
		simulation.Seeded = false
	default:
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("RANDOM_SEED must be a non-negative integer or 'none'")
		}
		simulation.Seed = seed
		simulation.Seeded = true
	}

	return simulation, nil
}

// Validate enforces the range contracts of every knob. A sample size of zero
// is accepted here; the simulator reports it as a degenerate sample.
func (c *Config) Validate() error {
	if c.Simulation.SampleSize < 0 {
		return errors.ConfigInvalid("SAMPLE_SIZE must be non-negative")
	}
	if !(c.Simulation.TrueValue >= 0 && c.Simulation.TrueValue <= 1) {
		return errors.ConfigInvalid("TRUE_PREVALENCE must be in [0,1]")
	}
	flat, informative := c.PriorSpecs()
	if !flat.Params.Valid() {
		return errors.ConfigInvalid("PRIOR_FLAT_ALPHA and PRIOR_FLAT_BETA must be positive")
	}
	if !informative.Params.Valid() {
		return errors.ConfigInvalid("PRIOR_INFO_ALPHA and PRIOR_INFO_BETA must be positive")
	}
	if c.Analysis.GridSize < prevalence.MinGridSize {
		return errors.ConfigInvalid("THETA_GRID_SIZE must be at least 2")
	}
	if !(c.Analysis.Credibility > 0 && c.Analysis.Credibility < 1) {
		return errors.ConfigInvalid("CREDIBILITY must be in (0,1)")
	}
	if !(c.Plot.Width > 0) || !(c.Plot.Height > 0) {
		return errors.ConfigInvalid("FIGURE_WIDTH and FIGURE_HEIGHT must be positive")
	}
	if c.Plot.DPI <= 0 {
		return errors.ConfigInvalid("DPI must be positive")
	}
	if !IsSupportedFormat(c.Plot.Format) {
		return errors.ConfigInvalid("PLOT_FORMAT must be one of " + strings.Join(SupportedFormats, ", "))
	}
	if c.Plot.Save && strings.TrimSpace(c.Plot.OutputDir) == "" {
		return errors.ConfigInvalid("OUTPUT_DIR is required when SAVE_PLOTS is enabled")
	}
	return nil
}

// PriorSpecs returns the flat and informative priors as named specs
func (c *Config) PriorSpecs() (flat, informative prevalence.PriorSpec) {
	flat = prevalence.NewPriorSpec(prevalence.PriorFlat, c.Priors.FlatAlpha, c.Priors.FlatBeta)
	informative = prevalence.NewPriorSpec(prevalence.PriorInformative, c.Priors.InfoAlpha, c.Priors.InfoBeta)
	return flat, informative
}

// IsSupportedFormat reports whether format is a known image format
func IsSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed environment variables and keeps the first parse
// failure, so Load can read every key and report one error.
type envReader struct {
	err error
}

func (r *envReader) lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func (r *envReader) fail(key, want string) {
	if r.err == nil {
		r.err = errors.ConfigInvalid(key + " must be " + want)
	}
}

func (r *envReader) Int(key string, defaultValue int) int {
	value, ok := r.lookup(key)
	if !ok {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, "an integer")
		return defaultValue
	}
	return intValue
}

func (r *envReader) Float(key string, defaultValue float64) float64 {
	value, ok := r.lookup(key)
	if !ok {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(key, "a number")
		return defaultValue
	}
	return floatValue
}

func (r *envReader) Bool(key string, defaultValue bool) bool {
	value, ok := r.lookup(key)
	if !ok {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key, "true or false")
		return defaultValue
	}
	return boolValue
}
