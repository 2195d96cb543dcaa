package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gobayes/domain/prevalence"
	"gobayes/internal/analysis"
	"gobayes/internal/config"
	"gobayes/internal/container"
	apperrors "gobayes/internal/errors"
	"gobayes/internal/logging"
	"gobayes/internal/simulation"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envVarPrefix = "GOBAYES"

const (
	logLevelFlag       = "log-level"
	logFormatFlag      = "log-format"
	sampleSizeFlag     = "sample-size"
	seedFlag           = "seed"
	unseededFlag       = "unseeded"
	truePrevalenceFlag = "true-prevalence"
	flatAlphaFlag      = "flat-alpha"
	flatBetaFlag       = "flat-beta"
	infoAlphaFlag      = "info-alpha"
	infoBetaFlag       = "info-beta"
	gridSizeFlag       = "grid-size"
	credibilityFlag    = "credibility"
	widthFlag          = "width"
	heightFlag         = "height"
	dpiFlag            = "dpi"
	saveFlag           = "save"
	outputDirFlag      = "output-dir"
	formatFlag         = "format"
	alphaFlag          = "alpha"
	betaFlag           = "beta"
	positivesFlag      = "positives"
	trialsFlag         = "trials"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	def := config.Default()

	rootCmd := &cobra.Command{
		Use:           "gobayes-cli",
		Short:         "Bayesian estimation of a prevalence from simulated test data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().String(logLevelFlag, def.Logging.Level, "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String(logFormatFlag, def.Logging.Format, "log format: dev|prod")

	rootCmd.AddCommand(
		newRunCmd(),
		newSummaryCmd(),
		newSimulateCmd(),
		newIntervalCmd(),
	)
	return rootCmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate, analyze, render charts and print the report",
		Long: `Run the whole pipeline: simulate test outcomes, compute the likelihood and
both conjugate posteriors, write the charts and print the summary.

Settings start from the same environment variables the gobayes binary reads
(SAMPLE_SIZE, PLOT_FORMAT, ...). A flag, or its GOBAYES_ environment variable,
overrides them, e.g.
GOBAYES_SAMPLE_SIZE=500 gobayes-cli run --format svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, true)
		},
	}
	addAnalysisFlags(cmd.Flags())
	addPlotFlags(cmd.Flags())
	return cmd
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Run the analysis and print the report without rendering charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, false)
		},
	}
	addAnalysisFlags(cmd.Flags())
	return cmd
}

func newSimulateCmd() *cobra.Command {
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Draw test outcomes and print their summary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := bindFlags(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := overlaySimulation(v, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			obs, err := simulation.FromConfig(cfg.Simulation).Simulate(cfg.Simulation.SampleSize, cfg.Simulation.TrueValue)
			if err != nil {
				return err
			}
			sample, err := simulation.Summarize(obs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tested: %d\n", sample.N)
			fmt.Fprintf(out, "Positive: %d\n", sample.Positives)
			fmt.Fprintf(out, "Observed prevalence: %.3f\n", sample.ObservedPrevalence)
			fmt.Fprintf(out, "Fingerprint: %s\n", obs.Fingerprint())
			return nil
		},
	}
	cmd.Flags().Int(sampleSizeFlag, def.Simulation.SampleSize, "number of people tested")
	cmd.Flags().Uint64(seedFlag, def.Simulation.Seed, "random seed for a reproducible sample")
	cmd.Flags().Bool(unseededFlag, false, "seed from the clock instead of --seed")
	cmd.Flags().Float64(truePrevalenceFlag, def.Simulation.TrueValue, "true prevalence used to draw outcomes")
	return cmd
}

func newIntervalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Print the central credible interval of a Beta distribution",
		Long: `Print the central credible interval of Beta(alpha, beta). With --trials the
prior is first updated with --positives out of --trials.

Example: gobayes-cli interval --alpha 2 --beta 18 --positives 68 --trials 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := bindFlags(cmd)
			if err != nil {
				return err
			}

			var (
				prior       prevalence.BetaParams
				k, n        int
				credibility float64
			)
			if err := firstError(
				getFloat(v, alphaFlag, &prior.Alpha),
				getFloat(v, betaFlag, &prior.Beta),
				getInt(v, positivesFlag, &k),
				getInt(v, trialsFlag, &n),
				getFloat(v, credibilityFlag, &credibility),
			); err != nil {
				return err
			}

			sf := analysis.NewStatisticalFunctions()
			params, err := sf.PosteriorParams(prior, k, n)
			if err != nil {
				return err
			}

			ci, err := sf.CredibleInterval(params, credibility)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s CI: %s\n", params, ci.Label(), ci)
			return nil
		},
	}
	cmd.Flags().Float64(alphaFlag, 1, "Beta alpha")
	cmd.Flags().Float64(betaFlag, 1, "Beta beta")
	cmd.Flags().Int(positivesFlag, 0, "positive tests used to update the prior")
	cmd.Flags().Int(trialsFlag, 0, "tests used to update the prior")
	cmd.Flags().Float64(credibilityFlag, analysis.DefaultCredibility, "credibility level in (0,1)")
	return cmd
}

func addAnalysisFlags(flags *pflag.FlagSet) {
	def := config.Default()
	flags.Int(sampleSizeFlag, def.Simulation.SampleSize, "number of people tested")
	flags.Uint64(seedFlag, def.Simulation.Seed, "random seed for a reproducible sample")
	flags.Bool(unseededFlag, false, "seed from the clock instead of --seed")
	flags.Float64(truePrevalenceFlag, def.Simulation.TrueValue, "true prevalence used to draw outcomes")
	flags.Float64(flatAlphaFlag, def.Priors.FlatAlpha, "flat prior alpha")
	flags.Float64(flatBetaFlag, def.Priors.FlatBeta, "flat prior beta")
	flags.Float64(infoAlphaFlag, def.Priors.InfoAlpha, "informative prior alpha")
	flags.Float64(infoBetaFlag, def.Priors.InfoBeta, "informative prior beta")
	flags.Int(gridSizeFlag, def.Analysis.GridSize, "number of prevalence grid points")
	flags.Float64(credibilityFlag, def.Analysis.Credibility, "credibility level in (0,1)")
}

func addPlotFlags(flags *pflag.FlagSet) {
	def := config.Default()
	flags.Float64(widthFlag, def.Plot.Width, "figure width in inches")
	flags.Float64(heightFlag, def.Plot.Height, "figure height in inches")
	flags.Int(dpiFlag, def.Plot.DPI, "raster resolution in dots per inch")
	flags.Bool(saveFlag, def.Plot.Save, "write charts to the output directory")
	flags.String(outputDirFlag, def.Plot.OutputDir, "chart output directory")
	flags.String(formatFlag, def.Plot.Format, "chart format: "+strings.Join(config.SupportedFormats, "|"))
}

// bindFlags binds the command's flags to a fresh viper instance reading
// GOBAYES_ environment variables.
func bindFlags(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return nil, err
	}
	return v, nil
}

func overlaySimulation(v *viper.Viper, cfg *config.Config) error {
	if err := firstError(
		overlayInt(v, sampleSizeFlag, &cfg.Simulation.SampleSize),
		overlayUint64(v, seedFlag, &cfg.Simulation.Seed),
		overlayFloat(v, truePrevalenceFlag, &cfg.Simulation.TrueValue),
	); err != nil {
		return err
	}
	if v.IsSet(seedFlag) {
		cfg.Simulation.Seeded = true
	}
	if v.IsSet(unseededFlag) {
		unseeded, err := cast.ToBoolE(v.Get(unseededFlag))
		if err != nil {
			return invalidValue(unseededFlag, err)
		}
		if unseeded {
			cfg.Simulation.Seeded = false
		}
	}
	return nil
}

// configFromFlags overlays flag and GOBAYES_ environment values on the
// configuration loaded from the unprefixed environment
func configFromFlags(v *viper.Viper, withPlots bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	err = firstError(
		overlaySimulation(v, cfg),
		overlayFloat(v, flatAlphaFlag, &cfg.Priors.FlatAlpha),
		overlayFloat(v, flatBetaFlag, &cfg.Priors.FlatBeta),
		overlayFloat(v, infoAlphaFlag, &cfg.Priors.InfoAlpha),
		overlayFloat(v, infoBetaFlag, &cfg.Priors.InfoBeta),
		overlayInt(v, gridSizeFlag, &cfg.Analysis.GridSize),
		overlayFloat(v, credibilityFlag, &cfg.Analysis.Credibility),
		overlayString(v, logLevelFlag, &cfg.Logging.Level),
		overlayString(v, logFormatFlag, &cfg.Logging.Format),
	)
	if err != nil {
		return nil, err
	}

	if withPlots {
		err = firstError(
			overlayFloat(v, widthFlag, &cfg.Plot.Width),
			overlayFloat(v, heightFlag, &cfg.Plot.Height),
			overlayInt(v, dpiFlag, &cfg.Plot.DPI),
			overlayBool(v, saveFlag, &cfg.Plot.Save),
			overlayString(v, outputDirFlag, &cfg.Plot.OutputDir),
			overlayString(v, formatFlag, &cfg.Plot.Format),
		)
		if err != nil {
			return nil, err
		}
		cfg.Plot.Format = strings.ToLower(cfg.Plot.Format)
	} else {
		cfg.Plot.Save = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// The overlay helpers only touch dst when the flag was given or its
// GOBAYES_ variable is set. Values that do not parse are CONFIG_INVALID.

func overlayInt(v *viper.Viper, key string, dst *int) error {
	if !v.IsSet(key) {
		return nil
	}
	return getInt(v, key, dst)
}

func overlayUint64(v *viper.Viper, key string, dst *uint64) error {
	if !v.IsSet(key) {
		return nil
	}
	value, err := cast.ToUint64E(v.Get(key))
	if err != nil {
		return invalidValue(key, err)
	}
	*dst = value
	return nil
}

func overlayFloat(v *viper.Viper, key string, dst *float64) error {
	if !v.IsSet(key) {
		return nil
	}
	return getFloat(v, key, dst)
}

func overlayBool(v *viper.Viper, key string, dst *bool) error {
	if !v.IsSet(key) {
		return nil
	}
	value, err := cast.ToBoolE(v.Get(key))
	if err != nil {
		return invalidValue(key, err)
	}
	*dst = value
	return nil
}

func overlayString(v *viper.Viper, key string, dst *string) error {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
	return nil
}

func getInt(v *viper.Viper, key string, dst *int) error {
	value, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return invalidValue(key, err)
	}
	*dst = value
	return nil
}

func getFloat(v *viper.Viper, key string, dst *float64) error {
	value, err := cast.ToFloat64E(v.Get(key))
	if err != nil {
		return invalidValue(key, err)
	}
	*dst = value
	return nil
}

func invalidValue(key string, err error) error {
	return apperrors.WithCode(apperrors.CodeConfigInvalid, fmt.Errorf("%s: %w", key, err))
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func runPipeline(cmd *cobra.Command, withPlots bool) error {
	v, err := bindFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := configFromFlags(v, withPlots)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return err
	}

	opts := []container.Option{container.WithOutput(cmd.OutOrStdout())}
	if !withPlots {
		opts = append(opts, container.WithoutCharts())
	}
	c, err := container.New(cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := c.Run(ctx)
	if err != nil {
		logger.Error("analysis aborted", zap.Error(err))
		return err
	}
	logger.Debug("cli run finished", zap.String("run_id", result.RunID.String()))
	return nil
}
