// Package config provides configuration loading for goseason.
package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sartorproj/goseason/internal/logging"
	"github.com/sartorproj/goseason/mmm"
	"github.com/sartorproj/goseason/timeseries"
	"github.com/sartorproj/goseason/transform"
)

// Config holds the goseason configuration.
type Config struct {
	Model    ModelConfig    `koanf:"model"`
	Sampling SamplingConfig `koanf:"sampling"`
	Fit      FitConfig      `koanf:"fit"`
	Data     DataConfig     `koanf:"data"`
	Logging  logging.Config `koanf:"logging"`
}

// ModelConfig selects the seasonality transform and its prior.
type ModelConfig struct {
	Transform         string  `koanf:"transform"`
	Composition       string  `koanf:"composition"`
	PriorSigma        float64 `koanf:"prior_sigma"`
	YearlySeasonality int     `koanf:"yearly_seasonality"`
	Period            float64 `koanf:"period"`
	Seed              uint64  `koanf:"seed"`
}

// SamplingConfig sizes the prior-predictive trace.
type SamplingConfig struct {
	Chains int `koanf:"chains"`
	Draws  int `koanf:"draws"`
}

// FitConfig tunes the MAP fit.
type FitConfig struct {
	NoiseSigma    float64 `koanf:"noise_sigma"`
	MaxIterations int     `koanf:"max_iterations"`
	GradTolerance float64 `koanf:"grad_tolerance"`
}

// DataConfig describes the input CSV.
type DataConfig struct {
	DateColumn  string   `koanf:"date_column"`
	DateFormat  string   `koanf:"date_format"`
	IDColumn    string   `koanf:"id_column"`
	ValueColumn string   `koanf:"value_column"`
	BaseColumns []string `koanf:"base_columns"`
	Delimiter   string   `koanf:"delimiter"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	model := mmm.DefaultConfig()
	if cfg.Model.Transform == "" {
		cfg.Model.Transform = model.Transform.String()
	}
	if cfg.Model.Composition == "" {
		cfg.Model.Composition = model.Composition.String()
	}
	if cfg.Model.YearlySeasonality == 0 {
		cfg.Model.YearlySeasonality = model.YearlySeasonality
	}
	if cfg.Model.Period == 0 {
		cfg.Model.Period = model.Period
	}
	if cfg.Model.Seed == 0 {
		cfg.Model.Seed = model.Seed
	}

	if cfg.Sampling.Chains == 0 {
		cfg.Sampling.Chains = 2
	}
	if cfg.Sampling.Draws == 0 {
		cfg.Sampling.Draws = 500
	}

	fit := mmm.DefaultFitOptions()
	if cfg.Fit.NoiseSigma == 0 {
		cfg.Fit.NoiseSigma = fit.NoiseSigma
	}
	if cfg.Fit.MaxIterations == 0 {
		cfg.Fit.MaxIterations = fit.MaxIterations
	}
	if cfg.Fit.GradTolerance == 0 {
		cfg.Fit.GradTolerance = fit.GradTolerance
	}

	csv := timeseries.DefaultCSVOptions()
	if cfg.Data.DateColumn == "" {
		cfg.Data.DateColumn = csv.DateColumn
	}
	if cfg.Data.DateFormat == "" {
		cfg.Data.DateFormat = csv.DateFormat
	}
	if cfg.Data.ValueColumn == "" {
		cfg.Data.ValueColumn = csv.ValueColumns[0]
	}
	if cfg.Data.Delimiter == "" {
		cfg.Data.Delimiter = string(csv.Delimiter)
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks the configuration and every setting derived from it.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.ModelConfig(); err != nil {
		errs = append(errs, err)
	}
	if c.Sampling.Chains < 1 {
		errs = append(errs, fmt.Errorf("sampling.chains must be positive, got %d", c.Sampling.Chains))
	}
	if c.Sampling.Draws < 1 {
		errs = append(errs, fmt.Errorf("sampling.draws must be positive, got %d", c.Sampling.Draws))
	}
	if c.Fit.NoiseSigma <= 0 {
		errs = append(errs, fmt.Errorf("fit.noise_sigma must be positive, got %g", c.Fit.NoiseSigma))
	}
	if c.Fit.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("fit.max_iterations must be positive, got %d", c.Fit.MaxIterations))
	}
	if c.Fit.GradTolerance <= 0 {
		errs = append(errs, fmt.Errorf("fit.grad_tolerance must be positive, got %g", c.Fit.GradTolerance))
	}
	if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ModelConfig converts the model section into an mmm.Config.
func (c *Config) ModelConfig() (*mmm.Config, error) {
	policy, err := transform.Parse(c.Model.Transform)
	if err != nil {
		return nil, fmt.Errorf("model.transform: %w", err)
	}
	composition, err := mmm.ParseComposition(c.Model.Composition)
	if err != nil {
		return nil, fmt.Errorf("model.composition: %w", err)
	}
	cfg := &mmm.Config{
		Transform:         policy,
		Composition:       composition,
		PriorSigma:        c.Model.PriorSigma,
		YearlySeasonality: c.Model.YearlySeasonality,
		Period:            c.Model.Period,
		Seed:              c.Model.Seed,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	return cfg, nil
}

// FitOptions converts the fit section into mmm.FitOptions.
func (c *Config) FitOptions() *mmm.FitOptions {
	return &mmm.FitOptions{
		NoiseSigma:    c.Fit.NoiseSigma,
		MaxIterations: c.Fit.MaxIterations,
		GradTolerance: c.Fit.GradTolerance,
	}
}

// CSVOptions returns the options for loading the observed column and the
// baseline columns in one pass.
func (c *Config) CSVOptions() *timeseries.CSVOptions {
	columns := append([]string{c.Data.ValueColumn}, c.Data.BaseColumns...)
	delim, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	return &timeseries.CSVOptions{
		DateColumn:   c.Data.DateColumn,
		ValueColumns: columns,
		IDColumn:     c.Data.IDColumn,
		DateFormat:   c.Data.DateFormat,
		Delimiter:    delim,
	}
}
