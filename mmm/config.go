package mmm

import (
	"fmt"
	"math"
	"strings"

	"github.com/sartorproj/goseason/fourier"
	"github.com/sartorproj/goseason/transform"
)

// Composition selects how the seasonal contribution joins the baseline.
type Composition int

const (
	// CompositionAuto defers to the transform's natural composition.
	CompositionAuto Composition = iota
	// Additive: mu = baseline + contribution.
	Additive
	// Multiplicative: mu = baseline * contribution.
	Multiplicative
)

func (c Composition) String() string {
	switch c {
	case Additive:
		return "additive"
	case Multiplicative:
		return "multiplicative"
	case CompositionAuto:
		return "auto"
	}
	return fmt.Sprintf("composition(%d)", int(c))
}

// ParseComposition resolves "auto", "additive" or "multiplicative".
func ParseComposition(s string) (Composition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CompositionAuto, nil
	case "additive", "add":
		return Additive, nil
	case "multiplicative", "mul":
		return Multiplicative, nil
	}
	return CompositionAuto, fmt.Errorf("%w: unknown composition %q", ErrInvalidConfig, s)
}

// NaturalComposition is the composition a policy's contribution is scaled for.
func NaturalComposition(p transform.Policy) Composition {
	if p.Multiplicative() {
		return Multiplicative
	}
	return Additive
}

// Config holds model construction settings.
type Config struct {
	Transform         transform.Policy // Seasonality transform (default: softplus)
	Composition       Composition      // How the contribution joins the baseline (default: auto)
	PriorSigma        float64          // Sigma of the gamma_fourier prior; 0 uses the transform's recommendation
	YearlySeasonality int              // Number of Fourier harmonics (default: 2)
	Period            float64          // Seasonal period in days or index steps (default: 365.25)
	Seed              uint64           // Seed for prior sampling and fit initialisation
}

// DefaultConfig returns the default model configuration.
func DefaultConfig() *Config {
	return &Config{
		Transform:         transform.Softplus,
		Composition:       CompositionAuto,
		YearlySeasonality: 2,
		Period:            fourier.YearlyPeriod,
		Seed:              42,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Transform.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Transform)
	}
	if c.Composition < CompositionAuto || c.Composition > Multiplicative {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Composition)
	}
	if c.PriorSigma < 0 || math.IsNaN(c.PriorSigma) || math.IsInf(c.PriorSigma, 0) {
		return fmt.Errorf("%w: prior sigma %g", ErrInvalidConfig, c.PriorSigma)
	}
	if c.YearlySeasonality < 1 {
		return fmt.Errorf("%w: yearly seasonality order %d", ErrInvalidConfig, c.YearlySeasonality)
	}
	if c.Period <= 0 || math.IsNaN(c.Period) || math.IsInf(c.Period, 0) {
		return fmt.Errorf("%w: period %g", ErrInvalidConfig, c.Period)
	}
	return nil
}

// ResolvedComposition returns the composition in effect.
func (c *Config) ResolvedComposition() Composition {
	if c.Composition == CompositionAuto {
		return NaturalComposition(c.Transform)
	}
	return c.Composition
}

// ResolvedPriorSigma returns the prior sigma in effect.
func (c *Config) ResolvedPriorSigma() float64 {
	if c.PriorSigma == 0 {
		return c.Transform.PriorSigma()
	}
	return c.PriorSigma
}
