// Package transform implements the nonnegative seasonality transforms applied
// to a linear combination of Fourier terms before it enters a mean function.
//
// Three policies are available. Each carries the prior scale it was tuned
// against and the range its posterior-mean contribution is expected to land in:
//
//	Policy      f(x)            prior sigma   plausible range
//	softplus    log(1+exp(x))   1.0           [0, 10]
//	scaled_exp  exp(0.1x)       1.0           [0.7, 1.4]
//	abs         |x|             0.01          [0, 10]
//
// # Basic Usage
//
//	p, err := transform.Parse("softplus")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s := p.ApplyTensor(linearCombination) // same shape, every element >= 0
//
// # Differentiability
//
// softplus and scaled_exp are smooth. abs has a kink at x = 0 where
// Derivative returns 0, a valid subgradient. Under a continuous prior the
// probability of a draw landing exactly on 0 is zero, so gradient-based
// samplers and optimizers are unaffected in practice, but Differentiable
// reports the point so callers can detect it.
//
// # Numerical Range
//
// softplus is evaluated in a form that never overflows. scaled_exp overflows
// to +Inf only for x above about 7097 and abs never overflows. With the
// recommended prior sigma the linear combination stays roughly within
// [-3, 3] (times sigma), see SafeBand.
package transform
