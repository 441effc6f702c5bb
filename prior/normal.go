package prior

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Normal is a Normal(Mu, Sigma) prior.
type Normal struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// Validate checks that the prior is proper.
func (n Normal) Validate() error {
	if n.Sigma <= 0 || math.IsNaN(n.Sigma) || math.IsInf(n.Sigma, 0) {
		return fmt.Errorf("%w: got %g", ErrBadScale, n.Sigma)
	}
	if math.IsNaN(n.Mu) || math.IsInf(n.Mu, 0) {
		return fmt.Errorf("prior: mu must be finite, got %g", n.Mu)
	}
	return nil
}

func (n Normal) dist(src rand.Source) distuv.Normal {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma, Src: src}
}

// LogProb returns the log density at x.
func (n Normal) LogProb(x float64) float64 {
	return n.dist(nil).LogProb(x)
}

// LogProbSum returns the summed log density of xs.
func (n Normal) LogProbSum(xs ...float64) float64 {
	d := n.dist(nil)
	ll := 0.0
	for _, x := range xs {
		ll += d.LogProb(x)
	}
	return ll
}

// Grad returns d/dx of the log density at x.
func (n Normal) Grad(x float64) float64 {
	return -(x - n.Mu) / (n.Sigma * n.Sigma)
}

// Sample draws count values using src. A nil src uses the global source and
// is not reproducible.
func (n Normal) Sample(src rand.Source, count int) []float64 {
	d := n.dist(src)
	out := make([]float64, count)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}

// Quantile returns the p-quantile.
func (n Normal) Quantile(p float64) float64 {
	return n.dist(nil).Quantile(p)
}

// String renders the prior as Normal(mu, sigma).
func (n Normal) String() string {
	return fmt.Sprintf("Normal(%g, %g)", n.Mu, n.Sigma)
}

// NewSource returns a deterministic source for seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
