// Package main implements the goseason CLI for building, checking and fitting
// nonnegative Fourier seasonality.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sartorproj/goseason/internal/config"
	"github.com/sartorproj/goseason/internal/logging"
	"github.com/sartorproj/goseason/internal/metrics"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string

	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	runID   string
	start   time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "goseason",
		Short: "Nonnegative Fourier seasonality for marketing mix models",
		Long: `goseason builds the yearly seasonality term of a marketing mix model mean
function, passing the Fourier linear combination through a nonnegative
transform (softplus, scaled_exp or abs) before it joins the baseline.

Configuration is read from a YAML file (--config) and GOSEASON_* environment
variables, e.g. GOSEASON_MODEL_TRANSFORM=scaled_exp.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (json or console)")
	rootCmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")

	rootCmd.AddCommand(newTransformCmd(a))
	rootCmd.AddCommand(newBuildCmd(a))
	rootCmd.AddCommand(newPriorCheckCmd(a))
	rootCmd.AddCommand(newFitCmd(a))
	for _, c := range rootCmd.Commands() {
		c.RunE = a.withFinish(c.RunE)
	}
	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.start = time.Now()
	a.runID = uuid.NewString()
	a.metrics = metrics.New()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		lvl, err := zapcore.ParseLevel(a.logLevel)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		cfg.Logging.Level = lvl
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}

	logger, err := logging.NewWithWriter(&cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.With(zap.String("command", cmd.Name()), zap.String("run_id", a.runID))
	return nil
}

// withFinish runs finish after run, whether or not run fails. Cobra skips
// post-run hooks when RunE returns an error.
func (a *app) withFinish(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if ferr := a.finish(cmd); err == nil {
				err = ferr
			}
		}()
		return run(cmd, args)
	}
}

// finish writes the run metrics, if requested, and flushes the logger.
func (a *app) finish(cmd *cobra.Command) error {
	defer func() { _ = a.logger.Sync() }()

	if a.metricsFile == "" {
		return nil
	}
	a.metrics.ObserveRun(cmd.Name(), a.start)
	if err := a.metrics.WriteTextfile(a.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.logger.Debug("metrics written", zap.String("path", a.metricsFile))
	return nil
}
