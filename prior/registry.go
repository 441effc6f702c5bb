package prior

import (
	"fmt"
	"sort"

	"github.com/sartorproj/goseason/transform"
)

// GammaFourier names the prior on the Fourier coefficients.
const GammaFourier = "gamma_fourier"

// Registry maps variable names to their priors. The zero value is an empty
// registry ready to use.
type Registry struct {
	priors map[string]Normal
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{priors: make(map[string]Normal)}
}

// DefaultRegistry returns a registry with gamma_fourier set to
// Normal(0, policy.PriorSigma()).
func DefaultRegistry(policy transform.Policy) *Registry {
	r := NewRegistry()
	r.priors[GammaFourier] = Normal{Mu: 0, Sigma: policy.PriorSigma()}
	return r
}

// Set stores p under name after validating it.
func (r *Registry) Set(name string, p Normal) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("prior %q: %w", name, err)
	}
	if r.priors == nil {
		r.priors = make(map[string]Normal)
	}
	r.priors[name] = p
	return nil
}

// Get returns the prior stored under name.
func (r *Registry) Get(name string) (Normal, error) {
	p, ok := r.priors[name]
	if !ok {
		return Normal{}, fmt.Errorf("%w: %q", ErrUnknownPrior, name)
	}
	return p, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.priors))
	for name := range r.priors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
