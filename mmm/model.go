package mmm

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/goseason/prior"
	"github.com/sartorproj/goseason/tensor"
)

// GammaShape returns the shape of gamma_fourier draws for the given number
// of chains and draws.
func (m *Model) GammaShape(chains, draws int) []int {
	if m.MultiEntity() {
		return []int{chains, draws, len(m.entities), m.basis.Width()}
	}
	return []int{chains, draws, m.basis.Width()}
}

// ContributionShape returns the shape of the seasonal contribution and mu.
func (m *Model) ContributionShape(chains, draws int) []int {
	if m.MultiEntity() {
		return []int{chains, draws, len(m.entities), m.basis.Len()}
	}
	return []int{chains, draws, m.basis.Len()}
}

// SamplePrior draws gamma_fourier from its prior using the configured seed
// and returns a trace holding the draws, the contribution and mu.
func (m *Model) SamplePrior(chains, draws int) (*Trace, error) {
	tr, err := NewTrace(chains, draws)
	if err != nil {
		return nil, err
	}

	shape := m.GammaShape(chains, draws)
	n := 1
	for _, d := range shape {
		n *= d
	}
	values := m.Prior().Sample(prior.NewSource(m.cfg.Seed), n)

	gamma, err := tensor.New(shape, values)
	if err != nil {
		return nil, err
	}
	if err := tr.Set(VarGamma, gamma); err != nil {
		return nil, err
	}
	if err := m.Evaluate(tr); err != nil {
		return nil, err
	}

	m.logger.Debug("sampled prior", zap.Int("chains", chains), zap.Int("draws", draws))
	return tr, nil
}

func (m *Model) checkGamma(gamma *tensor.Dense) (chains, draws int, err error) {
	shape := gamma.Shape()
	if len(shape) < 3 {
		return 0, 0, fmt.Errorf("%w: got %v", ErrGammaShape, shape)
	}
	want := m.GammaShape(shape[0], shape[1])
	if !tensor.SameShape(shape, want) {
		return 0, 0, fmt.Errorf("%w: got %v, want %v", ErrGammaShape, shape, want)
	}
	return shape[0], shape[1], nil
}

// LinearCombination computes L = fourier_features @ gamma for every draw.
// The result has ContributionShape and is unbounded.
func (m *Model) LinearCombination(gamma *tensor.Dense) (*tensor.Dense, error) {
	chains, draws, err := m.checkGamma(gamma)
	if err != nil {
		return nil, err
	}

	rows, width, steps := m.rows(), m.basis.Width(), m.basis.Len()
	g := gamma.RawData()
	out := make([]float64, chains*draws*rows*steps)

	for cd := 0; cd < chains*draws; cd++ {
		coef := mat.NewDense(rows, width, g[cd*rows*width:(cd+1)*rows*width])
		l, err := m.basis.CombineRows(coef)
		if err != nil {
			return nil, err
		}
		dst := out[cd*rows*steps : (cd+1)*rows*steps]
		for r := 0; r < rows; r++ {
			mat.Row(dst[r*steps:(r+1)*steps], r, l)
		}
	}

	return tensor.New(m.ContributionShape(chains, draws), out)
}

// Contribution applies the configured transform to the linear combination.
// Every element of the result is nonnegative.
func (m *Model) Contribution(gamma *tensor.Dense) (*tensor.Dense, error) {
	l, err := m.LinearCombination(gamma)
	if err != nil {
		return nil, err
	}
	return m.cfg.Transform.ApplyTensor(l), nil
}

// Mean combines the baseline with a contribution tensor of ContributionShape.
func (m *Model) Mean(contribution *tensor.Dense) (*tensor.Dense, error) {
	shape := contribution.Shape()
	if len(shape) < 3 || !tensor.SameShape(shape, m.ContributionShape(shape[0], shape[1])) {
		return nil, fmt.Errorf("%w: got %v", ErrContributionShape, shape)
	}

	rows, steps := m.rows(), m.basis.Len()
	block := rows * steps
	s := contribution.RawData()
	out := make([]float64, len(s))

	for i, v := range s {
		off := i % block
		base := m.base.At(off/steps, off%steps)
		if m.composition == Multiplicative {
			out[i] = base * v
		} else {
			out[i] = base + v
		}
	}

	return tensor.New(shape, out)
}

// Evaluate reads gamma_fourier from tr and stores the seasonal contribution
// and mu under their fixed names.
func (m *Model) Evaluate(tr *Trace) error {
	gamma, err := tr.Get(VarGamma)
	if err != nil {
		return err
	}
	s, err := m.Contribution(gamma)
	if err != nil {
		return err
	}
	mu, err := m.Mean(s)
	if err != nil {
		return err
	}
	if err := tr.Set(VarContribution, s); err != nil {
		return err
	}
	return tr.Set(VarMu, mu)
}

// Baseline returns a copy of the baseline matrix (entities x time).
func (m *Model) Baseline() *mat.Dense {
	return mat.DenseCopyOf(m.base)
}
