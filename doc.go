// Package goseason provides nonnegative Fourier seasonality for marketing mix
// model mean functions.
//
// A raw linear combination of Fourier terms can go negative, which is
// meaningless for a seasonal demand multiplier or uplift. goseason passes the
// combination through a configurable nonnegative transform before it joins
// the baseline (intercept plus channel effects).
//
// # Features
//
//   - Three transforms: softplus, scaled exponential exp(0.1x) and absolute value
//   - Per-transform recommended prior scale and plausible contribution range
//   - Fourier basis generation from dates or an integer index
//   - Single-entity and multi-entity models sharing one configured transform
//   - Additive or multiplicative composition with the baseline
//   - Seeded prior sampling and a MAP fit driven by the transform derivative
//   - Range, sanity and residual-autocorrelation checks on the contribution
//
// # Quick Start
//
// Build a model and sample the prior:
//
//	cfg := mmm.DefaultConfig() // softplus, order 2, yearly period
//	m, _ := mmm.NewBuilder(logger).Build(cfg, mmm.Inputs{Times: dates, Base: base})
//	tr, _ := m.SamplePrior(2, 500)
//	report, _ := diagnostics.Inspect(m, tr)
//
// Fit against observed data:
//
//	res, _ := m.FitMAP(observed, mmm.DefaultFitOptions())
//	err := diagnostics.SanityCheck(contribution)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - transform: The nonnegative seasonality transforms
//   - tensor: Shaped arrays with leading (chain, draw) axes
//   - fourier: Fourier basis generation
//   - prior: Normal priors for the Fourier coefficients
//   - mmm: Model configuration, building, prior sampling and MAP fitting
//   - diagnostics: Posterior range checks and residual tests
//   - timeseries: Series and panel data loading
package goseason
