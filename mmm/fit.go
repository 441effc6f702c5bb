package mmm

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"github.com/sartorproj/goseason/prior"
	"github.com/sartorproj/goseason/tensor"
)

// FitOptions controls FitMAP.
type FitOptions struct {
	NoiseSigma    float64 // Observation noise sigma (default: 1)
	MaxIterations int     // Optimizer major iterations (default: 500)
	GradTolerance float64 // Gradient norm at which to stop (default: 1e-8)
}

// DefaultFitOptions returns the default fit options.
func DefaultFitOptions() *FitOptions {
	return &FitOptions{
		NoiseSigma:    1,
		MaxIterations: 500,
		GradTolerance: 1e-8,
	}
}

// FitResult is the outcome of FitMAP.
type FitResult struct {
	Trace      *Trace // one chain, one draw
	Objective  float64
	Status     string
	Iterations int
}

// FitMAP finds the maximum a posteriori gamma_fourier under a Gaussian
// likelihood with the Normal coefficient prior, holding the baseline fixed.
// observed has one row per entity (one row for a single-entity model).
// The gradient is built from the transform's derivative.
func (m *Model) FitMAP(observed [][]float64, opts *FitOptions) (*FitResult, error) {
	if opts == nil {
		opts = DefaultFitOptions()
	}
	noise := opts.NoiseSigma
	if noise <= 0 {
		noise = 1
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 500
	}

	rows, width, steps := m.rows(), m.basis.Width(), m.basis.Len()
	if len(observed) != rows {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrObservedShape, len(observed), rows)
	}
	y := make([]float64, 0, rows*steps)
	for r, row := range observed {
		if len(row) != steps {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrObservedShape, r, len(row), steps)
		}
		y = append(y, row...)
	}

	obj := &mapObjective{model: m, y: y, noiseVar: noise * noise, prior: m.Prior()}
	problem := optimize.Problem{Func: obj.value, Grad: obj.grad}

	// Start from a prior draw: at gamma = 0 the abs transform has a zero
	// subgradient everywhere and the optimizer would not move.
	x0 := m.Prior().Sample(prior.NewSource(m.cfg.Seed), rows*width)

	settings := &optimize.Settings{
		GradientThreshold: opts.GradTolerance,
		MajorIterations:   maxIter,
	}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("mmm: map fit: %w", err)
	}
	if err != nil {
		m.logger.Warn("map fit stopped early", zap.Error(err), zap.Stringer("status", result.Status))
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, fmt.Errorf("mmm: map fit produced non-finite objective %g", result.F)
	}

	tr, err := NewTrace(1, 1)
	if err != nil {
		return nil, err
	}
	gamma, err := tensor.New(m.GammaShape(1, 1), result.X)
	if err != nil {
		return nil, err
	}
	if err := tr.Set(VarGamma, gamma); err != nil {
		return nil, err
	}
	if err := m.Evaluate(tr); err != nil {
		return nil, err
	}

	m.logger.Info("map fit finished",
		zap.Stringer("status", result.Status),
		zap.Int("iterations", result.MajorIterations),
		zap.Float64("objective", result.F),
	)

	return &FitResult{
		Trace:      tr,
		Objective:  result.F,
		Status:     result.Status.String(),
		Iterations: result.MajorIterations,
	}, nil
}

// NegLogPosterior evaluates the FitMAP objective at a flattened gamma
// (entity-major, then Fourier mode).
func (m *Model) NegLogPosterior(observed []float64, noiseSigma float64, gamma []float64) float64 {
	obj := &mapObjective{model: m, y: observed, noiseVar: noiseSigma * noiseSigma, prior: m.Prior()}
	return obj.value(gamma)
}

type mapObjective struct {
	model    *Model
	y        []float64
	noiseVar float64
	prior    prior.Normal
}

// linear returns L for flattened gamma, entity-major.
func (o *mapObjective) linear(gamma []float64) []float64 {
	b := o.model.basis
	rows, width, steps := o.model.rows(), b.Width(), b.Len()
	l := make([]float64, rows*steps)
	for r := 0; r < rows; r++ {
		g := gamma[r*width : (r+1)*width]
		for t := 0; t < steps; t++ {
			sum := 0.0
			for j, v := range g {
				sum += v * b.At(t, j)
			}
			l[r*steps+t] = sum
		}
	}
	return l
}

func (o *mapObjective) mu(r, t int, s float64) float64 {
	base := o.model.base.At(r, t)
	if o.model.composition == Multiplicative {
		return base * s
	}
	return base + s
}

func (o *mapObjective) value(gamma []float64) float64 {
	f := o.model.cfg.Transform
	steps := o.model.basis.Len()
	l := o.linear(gamma)

	sse := 0.0
	for i, li := range l {
		resid := o.y[i] - o.mu(i/steps, i%steps, f.Apply(li))
		sse += resid * resid
	}
	return sse/(2*o.noiseVar) - o.prior.LogProbSum(gamma...)
}

func (o *mapObjective) grad(grad, gamma []float64) {
	f := o.model.cfg.Transform
	b := o.model.basis
	width, steps := b.Width(), b.Len()
	l := o.linear(gamma)

	for i := range grad {
		grad[i] = -o.prior.Grad(gamma[i])
	}
	for i, li := range l {
		r, t := i/steps, i%steps
		resid := o.y[i] - o.mu(r, t, f.Apply(li))
		dmu := f.Derivative(li)
		if o.model.composition == Multiplicative {
			dmu *= o.model.base.At(r, t)
		}
		coef := -resid / o.noiseVar * dmu
		for j := 0; j < width; j++ {
			grad[r*width+j] += coef * b.At(t, j)
		}
	}
}
