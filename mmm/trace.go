package mmm

import (
	"fmt"
	"sort"

	"github.com/sartorproj/goseason/tensor"
)

// Variable names shared with downstream inspection code.
const (
	VarGamma        = "gamma_fourier"
	VarFeatures     = "fourier_features"
	VarContribution = "yearly_seasonality_contribution"
	VarBase         = "intercept_plus_channels"
	VarMu           = "mu"
)

// Trace holds named tensors whose two leading axes are (chain, draw). Create
// one with NewTrace, or set Chains and Draws on a zero Trace before use.
type Trace struct {
	Chains int
	Draws  int
	vars   map[string]*tensor.Dense
}

// NewTrace creates an empty trace.
func NewTrace(chains, draws int) (*Trace, error) {
	if chains < 1 || draws < 1 {
		return nil, fmt.Errorf("mmm: trace needs at least one chain and draw, got %d x %d", chains, draws)
	}
	return &Trace{Chains: chains, Draws: draws, vars: make(map[string]*tensor.Dense)}, nil
}

// Set stores t under name. Its leading axes must be (Chains, Draws).
func (tr *Trace) Set(name string, t *tensor.Dense) error {
	shape := t.Shape()
	if len(shape) < 3 || shape[0] != tr.Chains || shape[1] != tr.Draws {
		return fmt.Errorf("mmm: variable %q has shape %v, want (%d, %d, ...)", name, shape, tr.Chains, tr.Draws)
	}
	if tr.vars == nil {
		tr.vars = make(map[string]*tensor.Dense)
	}
	tr.vars[name] = t
	return nil
}

// Get returns the tensor stored under name.
func (tr *Trace) Get(name string) (*tensor.Dense, error) {
	t, ok := tr.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingVariable, name)
	}
	return t, nil
}

// Names returns the stored variable names in sorted order.
func (tr *Trace) Names() []string {
	names := make([]string, 0, len(tr.vars))
	for name := range tr.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
