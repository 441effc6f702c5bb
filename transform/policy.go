package transform

import (
	"fmt"
	"math"
	"strings"

	"github.com/sartorproj/goseason/tensor"
)

// Policy selects the nonnegative transform. The zero value is Softplus.
type Policy int

const (
	// Softplus maps x to log(1+exp(x)).
	Softplus Policy = iota
	// ScaledExp maps x to exp(ScaledExpRate*x).
	ScaledExp
	// Abs maps x to |x|. The sign of x is lost.
	Abs
)

// ScaledExpRate slows the growth of the scaled exponential.
const ScaledExpRate = 0.1

// SafeBand is the half-width of the band the linear combination stays in
// under the unit-scale priors. It scales linearly with the prior sigma.
const SafeBand = 3.0

// All returns every policy in declaration order.
func All() []Policy {
	return []Policy{Softplus, ScaledExp, Abs}
}

var policyNames = map[Policy]string{
	Softplus:  "softplus",
	ScaledExp: "scaled_exp",
	Abs:       "abs",
}

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Valid reports whether p is one of the declared policies.
func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

// Parse resolves a policy name. Matching ignores case and accepts "-" in
// place of "_" and a few common aliases.
func Parse(name string) (Policy, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	switch n {
	case "softplus", "":
		return Softplus, nil
	case "scaled_exp", "scaledexp", "exp":
		return ScaledExp, nil
	case "abs", "absolute", "absolute_value":
		return Abs, nil
	}
	return Softplus, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Apply evaluates the transform at x.
func (p Policy) Apply(x float64) float64 {
	switch p {
	case ScaledExp:
		return math.Exp(ScaledExpRate * x)
	case Abs:
		return math.Abs(x)
	default:
		return softplus(x)
	}
}

// Derivative evaluates df/dx at x. For Abs the subgradient 0 is returned at
// x = 0.
func (p Policy) Derivative(x float64) float64 {
	switch p {
	case ScaledExp:
		return ScaledExpRate * math.Exp(ScaledExpRate*x)
	case Abs:
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	default:
		return sigmoid(x)
	}
}

// Differentiable reports whether the transform is differentiable at x.
func (p Policy) Differentiable(x float64) bool {
	return !(p == Abs && x == 0)
}

// ApplySlice writes f(src[i]) into dst[i]. dst and src may alias.
// It panics if the lengths differ.
func (p Policy) ApplySlice(dst, src []float64) {
	if len(dst) != len(src) {
		panic("transform: slice length mismatch")
	}
	for i, v := range src {
		dst[i] = p.Apply(v)
	}
}

// ApplyTensor returns a new tensor of the same shape with f applied to every
// element. The input is left untouched.
func (p Policy) ApplyTensor(x *tensor.Dense) *tensor.Dense {
	return x.Map(p.Apply)
}

// PriorSigma is the standard deviation of the zero-mean Normal prior on the
// Fourier coefficients that this policy was tuned against.
func (p Policy) PriorSigma() float64 {
	if p == Abs {
		return 0.01
	}
	return 1.0
}

// PlausibleRange is the interval the posterior-mean contribution is expected
// to fall in when the policy is paired with its recommended prior.
func (p Policy) PlausibleRange() (lo, hi float64) {
	if p == ScaledExp {
		return 0.7, 1.4
	}
	return 0, 10
}

// Multiplicative reports whether the policy's contribution is centred on 1
// and so reads naturally as a multiplier of the baseline.
func (p Policy) Multiplicative() bool {
	return p == ScaledExp
}

// InSafeBand reports whether x lies within SafeBand*sigma of zero. A
// non-positive sigma selects the policy's PriorSigma.
func (p Policy) InSafeBand(x, sigma float64) bool {
	if sigma <= 0 {
		sigma = p.PriorSigma()
	}
	return math.Abs(x) <= SafeBand*sigma
}

// softplus is log(1+exp(x)) written so that exp never overflows.
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
