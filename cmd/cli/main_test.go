package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "gobayes/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"SAMPLE_SIZE", "RANDOM_SEED", "TRUE_PREVALENCE",
	"PRIOR_FLAT_ALPHA", "PRIOR_FLAT_BETA", "PRIOR_INFO_ALPHA", "PRIOR_INFO_BETA",
	"THETA_GRID_SIZE", "CREDIBILITY",
	"FIGURE_WIDTH", "FIGURE_HEIGHT", "DPI", "SAVE_PLOTS", "OUTPUT_DIR", "PLOT_FORMAT",
	"LOG_LEVEL", "LOG_FORMAT",
}

func TestMain(m *testing.M) {
	for _, key := range configEnvKeys {
		os.Unsetenv(key)
	}
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, envVarPrefix+"_") {
			os.Unsetenv(kv[:strings.IndexByte(kv, '=')])
		}
	}
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIntervalCommand(t *testing.T) {
	out, err := execute(t, "interval", "--alpha", "2", "--beta", "18", "--positives", "68", "--trials", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Beta(70, 50) 95% CI: [")
}

func TestIntervalCommandUniform(t *testing.T) {
	out, err := execute(t, "interval")
	require.NoError(t, err)
	assert.Equal(t, "Beta(1, 1) 95% CI: [0.025, 0.975]\n", out)
}

func TestIntervalCommandRejectsBadCounts(t *testing.T) {
	_, err := execute(t, "interval", "--positives", "6", "--trials", "5")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParameter))
}

func TestSimulateCommandIsReproducible(t *testing.T) {
	first, err := execute(t, "simulate", "--sample-size", "40", "--seed", "7")
	require.NoError(t, err)
	second, err := execute(t, "simulate", "--sample-size", "40", "--seed", "7")
	require.NoError(t, err)

	assert.Contains(t, first, "Tested: 40\n")
	assert.Contains(t, first, "Fingerprint: ")
	assert.Equal(t, first, second)
}

func TestSimulateCommandReadsEnvironment(t *testing.T) {
	t.Setenv("GOBAYES_SAMPLE_SIZE", "25")

	out, err := execute(t, "simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "Tested: 25\n")
}

func TestSimulateCommandStartsFromLoadedConfig(t *testing.T) {
	t.Setenv("SAMPLE_SIZE", "30")

	out, err := execute(t, "simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "Tested: 30\n")

	t.Setenv("GOBAYES_SAMPLE_SIZE", "45")
	out, err = execute(t, "simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "Tested: 45\n")

	out, err = execute(t, "simulate", "--sample-size", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Tested: 12\n")
}

func TestSimulateCommandRejectsMalformedEnvironment(t *testing.T) {
	t.Setenv("GOBAYES_SAMPLE_SIZE", "1e4")

	_, err := execute(t, "simulate")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfigInvalid))
	assert.Contains(t, err.Error(), "sample-size")
}

func TestSimulateCommandRejectsMalformedBaseConfig(t *testing.T) {
	t.Setenv("TRUE_PREVALENCE", "0,3")

	_, err := execute(t, "simulate")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfigInvalid))
}

func TestRunCommandHonoursPlotFormatFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLOT_FORMAT", "svg")

	out, err := execute(t, "run", "--log-level", "error", "--output-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved: "+filepath.Join(dir, "likelihood.svg"))
}

func TestSimulateCommandRejectsBadPrevalence(t *testing.T) {
	_, err := execute(t, "simulate", "--true-prevalence", "1.5")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfigInvalid))
}

func TestSummaryCommandSkipsCharts(t *testing.T) {
	out, err := execute(t, "summary", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "[2/4] Running Bayesian analysis...")
	assert.Contains(t, out, "Skipped: no renderer configured")
	assert.Contains(t, out, "Analysis complete!")
}

func TestRunCommandWritesCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	out, err := execute(t, "run", "--log-level", "error", "--output-dir", dir, "--format", "svg", "--width", "3", "--height", "3")
	require.NoError(t, err)

	for _, name := range []string{"likelihood", "bayesian_updating", "prior_sensitivity"} {
		path := filepath.Join(dir, name+".svg")
		assert.Contains(t, out, "Saved: "+path)
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	}
}

func TestRunCommandRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "run", "--output-dir", t.TempDir(), "--format", "bmp")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConfigInvalid))
}
