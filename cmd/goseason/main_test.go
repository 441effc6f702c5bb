package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goseason/diagnostics"
	"github.com/sartorproj/goseason/fourier"
	"github.com/sartorproj/goseason/transform"
)

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeSalesCSV writes a weekly single-entity series y = intercept + softplus(B·gamma).
func writeSalesCSV(t *testing.T, n int, gamma []float64) string {
	t.Helper()
	times := make([]time.Time, n)
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = start.AddDate(0, 0, 7*i)
	}
	basis, err := fourier.FromTimes(times, fourier.YearlyPeriod, len(gamma)/2)
	require.NoError(t, err)
	linear, err := basis.Combine(gamma)
	require.NoError(t, err)

	var b strings.Builder
	b.WriteString("date,y,intercept\n")
	for i, ts := range times {
		y := 10 + transform.Softplus.Apply(linear[i])
		fmt.Fprintf(&b, "%s,%g,10\n", ts.Format(time.DateOnly), y)
	}
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0600))
	return path
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goseason.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))
	return path
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
		assert.NotEmpty(t, c.Short, "%s should have a Short description", c.Name())
	}
	for _, want := range []string{"transform", "build", "prior-check", "fit"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

func TestTransformCmd_ReferencePoints(t *testing.T) {
	out, _, err := run(t, "transform", "--policy", "softplus", "0", "3", "-3")
	require.NoError(t, err)
	assert.Contains(t, out, "softplus(x)")
	assert.Contains(t, out, "0.693147")
	assert.Contains(t, out, "3.04859")
	assert.Contains(t, out, "0.0485874")
}

func TestTransformCmd_ConfiguredPolicyAndDerivative(t *testing.T) {
	t.Setenv("GOSEASON_MODEL_TRANSFORM", "scaled_exp")
	out, _, err := run(t, "transform", "--derivative", "0", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "scaled_exp(x)")
	assert.Contains(t, out, "derivative")
	assert.Contains(t, out, "2.71828")
	assert.Contains(t, out, "0.271828")
}

func TestTransformCmd_Errors(t *testing.T) {
	_, _, err := run(t, "transform", "--policy", "relu", "1")
	require.ErrorIs(t, err, transform.ErrUnknownPolicy)

	_, _, err = run(t, "transform", "--policy", "abs", "one")
	require.Error(t, err)

	_, _, err = run(t, "transform")
	require.Error(t, err)
}

func TestBuildCmd_Index(t *testing.T) {
	out, _, err := run(t, "build", "--index", "52")
	require.NoError(t, err)
	assert.Contains(t, out, "transform: softplus")
	assert.Contains(t, out, "composition: additive")
	assert.Contains(t, out, "yearly_seasonality_contribution")
	assert.Contains(t, out, "softplus(fourier_features @ gamma_fourier)")
	assert.Contains(t, out, "intercept_plus_channels + yearly_seasonality_contribution")
}

func TestBuildCmd_HelpExamples(t *testing.T) {
	out, _, err := run(t, "build", "--index", "104", "--transform", "abs")
	require.NoError(t, err)
	assert.Contains(t, out, "transform: abs  composition: additive")
}

func TestBuildCmd_ScaledExpNeedsBaseline(t *testing.T) {
	_, _, err := run(t, "build", "--index", "52", "--transform", "scaled_exp")
	require.Error(t, err)

	cfg := writeConfig(t, "data:\n  base_columns: [intercept]\n")
	path := writeSalesCSV(t, 52, []float64{1, -0.5, 0.3, 0.2})
	out, _, err := run(t, "build", "--config", cfg, "--csv", path, "--transform", "scaled_exp")
	require.NoError(t, err)
	assert.Contains(t, out, "intercept_plus_channels * yearly_seasonality_contribution")
}

func TestBuildCmd_NeedsData(t *testing.T) {
	_, _, err := run(t, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--csv or --index")
}

func TestPriorCheckCmd_JSON(t *testing.T) {
	cfg := writeConfig(t, "sampling:\n  chains: 2\n  draws: 50\n")
	reportPath := filepath.Join(t.TempDir(), "report.json")

	out, _, err := run(t, "prior-check", "--config", cfg, "--index", "104", "--out", reportPath, "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "plausible: true  sane: true")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report diagnostics.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "softplus", report.Policy)
	assert.Equal(t, 2*50*104, report.Contribution.N)
	assert.GreaterOrEqual(t, report.Contribution.Min, 0.0)
}

func TestPriorCheckCmd_StrictFailsOnMismatchedPrior(t *testing.T) {
	cfg := writeConfig(t, "model:\n  prior_sigma: 30\nsampling:\n  chains: 1\n  draws: 20\n")
	out, stderr, err := run(t, "prior-check", "--config", cfg, "--index", "52", "--strict")
	require.Error(t, err)
	assert.Contains(t, out, "plausible: false")
	assert.Contains(t, stderr, "prior sigma differs from the transform's recommendation")
}

func TestFitCmd(t *testing.T) {
	cfg := writeConfig(t, `data:
  base_columns: [intercept]
fit:
  noise_sigma: 0.05
`)
	path := writeSalesCSV(t, 104, []float64{1, -0.5, 0.3, 0.2})
	fitted := filepath.Join(t.TempDir(), "fitted.csv")
	result := filepath.Join(t.TempDir(), "fit.json")

	out, _, err := run(t, "fit", "--config", cfg, "--csv", path, "--fitted", fitted, "--out", result, "--log-format", "console")
	require.NoError(t, err)
	assert.Contains(t, out, "gamma_fourier:")
	assert.Contains(t, out, "sane: true")
	assert.Contains(t, out, "residuals: mean=")

	data, err := os.ReadFile(fitted)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "date,observed,yearly_seasonality_contribution,mu", lines[0])
	assert.Len(t, lines, 105)

	var res fitOutput
	raw, err := os.ReadFile(result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.InDeltaSlice(t, []float64{1, -0.5, 0.3, 0.2}, res.Gamma, 0.05)
	assert.True(t, res.Report.Sane)
	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err, "run_id should be a UUID")
	require.Len(t, res.Residuals, 1)
	assert.Less(t, res.Residuals[0].RMSE, 0.01)
	assert.Len(t, res.Structure, 5)
}

func TestPriorCheckCmd_MetricsFile(t *testing.T) {
	cfg := writeConfig(t, "sampling:\n  chains: 1\n  draws: 20\n")
	path := filepath.Join(t.TempDir(), "goseason.prom")

	_, stderr, err := run(t, "prior-check", "--config", cfg, "--index", "52",
		"--metrics-file", path, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"run_id"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `goseason_run_duration_seconds{command="prior-check"}`)
	assert.Contains(t, text, `goseason_contribution{stat="max",transform="softplus"}`)
	assert.NotContains(t, text, "goseason_check_failures_total{")
}

func TestPriorCheckCmd_MetricsFileOnFailedCheck(t *testing.T) {
	cfg := writeConfig(t, "model:\n  prior_sigma: 30\nsampling:\n  chains: 1\n  draws: 20\n")
	path := filepath.Join(t.TempDir(), "goseason.prom")

	_, _, err := run(t, "prior-check", "--config", cfg, "--index", "52", "--strict", "--metrics-file", path)
	require.EqualError(t, err, "prior check failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err, "metrics should be written when the check fails")
	text := string(data)
	assert.Contains(t, text, `goseason_check_failures_total{check="plausible"} 1`)
	assert.Contains(t, text, `goseason_run_duration_seconds{command="prior-check"}`)
}

func TestFitCmd_RequiresCSV(t *testing.T) {
	_, _, err := run(t, "fit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--csv")
}

func TestRootCmd_BadLogLevel(t *testing.T) {
	_, _, err := run(t, "build", "--index", "5", "--log-level", "loud")
	require.Error(t, err)
}
