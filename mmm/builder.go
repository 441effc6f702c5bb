package mmm

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseason/fourier"
	"github.com/sartorproj/goseason/prior"
)

// Inputs is the data a model is built over.
type Inputs struct {
	// Times indexes the time axis. When empty, Index steps 0..Index-1 are used.
	Times []time.Time
	Index int

	// Entities names the entities of a multi-entity model. Leave empty for a
	// single-entity model.
	Entities []string

	// Base is the intercept plus channel effects, one row per entity (one
	// row for a single-entity model), one column per time step. Nil means a
	// zero baseline and is only allowed for additive composition.
	Base [][]float64
}

// Builder constructs models.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a builder. A nil logger disables logging.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Model is a built seasonal mean-function component.
type Model struct {
	cfg         Config
	composition Composition
	sigma       float64
	basis       *fourier.Basis
	priors      *prior.Registry
	entities    []string
	base        *mat.Dense
	logger      *zap.Logger
}

// Build validates cfg and inputs and returns the model. Building twice from
// the same config and inputs yields models with equal Structure.
func (b *Builder) Build(cfg *Config, in Inputs) (*Model, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		basis *fourier.Basis
		err   error
	)
	if len(in.Times) > 0 {
		basis, err = fourier.FromTimes(in.Times, cfg.Period, cfg.YearlySeasonality)
	} else {
		basis, err = fourier.FromIndex(in.Index, cfg.Period, cfg.YearlySeasonality)
	}
	if err != nil {
		return nil, fmt.Errorf("build fourier basis: %w", err)
	}

	composition := cfg.ResolvedComposition()
	rows := 1
	if len(in.Entities) > 0 {
		rows = len(in.Entities)
	}

	base, err := baseMatrix(in.Base, rows, basis.Len(), composition)
	if err != nil {
		return nil, err
	}

	sigma := cfg.ResolvedPriorSigma()
	priors := prior.NewRegistry()
	if err := priors.Set(prior.GammaFourier, prior.Normal{Mu: 0, Sigma: sigma}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := b.logger.With(
		zap.Stringer("transform", cfg.Transform),
		zap.Stringer("composition", composition),
	)
	if recommended := cfg.Transform.PriorSigma(); sigma != recommended {
		logger.Warn("prior sigma differs from the transform's recommendation",
			zap.Float64("prior_sigma", sigma),
			zap.Float64("recommended_sigma", recommended),
		)
	}
	if composition != NaturalComposition(cfg.Transform) {
		logger.Warn("composition differs from the transform's natural composition",
			zap.Stringer("natural", NaturalComposition(cfg.Transform)),
		)
	}

	entities := make([]string, len(in.Entities))
	copy(entities, in.Entities)

	logger.Debug("built seasonality model",
		zap.Int("time_steps", basis.Len()),
		zap.Int("fourier_modes", basis.Width()),
		zap.Int("entities", len(entities)),
		zap.Float64("prior_sigma", sigma),
	)

	return &Model{
		cfg:         *cfg,
		composition: composition,
		sigma:       sigma,
		basis:       basis,
		priors:      priors,
		entities:    entities,
		base:        base,
		logger:      logger,
	}, nil
}

func baseMatrix(base [][]float64, rows, steps int, composition Composition) (*mat.Dense, error) {
	if base == nil {
		if composition == Multiplicative {
			return nil, fmt.Errorf("%w: multiplicative composition needs a baseline", ErrBaseShape)
		}
		return mat.NewDense(rows, steps, nil), nil
	}
	if len(base) != rows {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrBaseShape, len(base), rows)
	}
	m := mat.NewDense(rows, steps, nil)
	for r, row := range base {
		if len(row) != steps {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrBaseShape, r, len(row), steps)
		}
		m.SetRow(r, row)
	}
	return m, nil
}

// Config returns a copy of the model configuration.
func (m *Model) Config() Config {
	return m.cfg
}

// Composition returns the composition in effect.
func (m *Model) Composition() Composition {
	return m.composition
}

// Basis returns the Fourier basis.
func (m *Model) Basis() *fourier.Basis {
	return m.basis
}

// Prior returns the prior on the Fourier coefficients.
func (m *Model) Prior() prior.Normal {
	p, _ := m.priors.Get(prior.GammaFourier)
	return p
}

// Entities returns a copy of the entity names.
func (m *Model) Entities() []string {
	out := make([]string, len(m.entities))
	copy(out, m.entities)
	return out
}

// MultiEntity reports whether each entity has its own coefficients.
func (m *Model) MultiEntity() bool {
	return len(m.entities) > 0
}

func (m *Model) rows() int {
	if len(m.entities) > 0 {
		return len(m.entities)
	}
	return 1
}

// Term describes one node of the mean-function expression.
type Term struct {
	Name string   `json:"name"`
	Kind string   `json:"kind"` // "data", "random" or "deterministic"
	Dims []string `json:"dims"`
	Expr string   `json:"expr"`
}

// Structure returns the mean-function terms in evaluation order.
func (m *Model) Structure() []Term {
	gammaDims := []string{"fourier_mode"}
	outDims := []string{"date"}
	if m.MultiEntity() {
		gammaDims = []string{"entity", "fourier_mode"}
		outDims = []string{"entity", "date"}
	}

	op := "+"
	if m.composition == Multiplicative {
		op = "*"
	}

	return []Term{
		{Name: VarFeatures, Kind: "data", Dims: []string{"date", "fourier_mode"},
			Expr: fmt.Sprintf("fourier(order=%d, period=%g)", m.basis.Order(), m.basis.Period())},
		{Name: VarGamma, Kind: "random", Dims: gammaDims, Expr: m.Prior().String()},
		{Name: VarContribution, Kind: "deterministic", Dims: outDims,
			Expr: fmt.Sprintf("%s(%s @ %s)", m.cfg.Transform, VarFeatures, VarGamma)},
		{Name: VarBase, Kind: "data", Dims: outDims, Expr: "intercept + sum(channel_contributions)"},
		{Name: VarMu, Kind: "deterministic", Dims: outDims,
			Expr: fmt.Sprintf("%s %s %s", VarBase, op, VarContribution)},
	}
}
