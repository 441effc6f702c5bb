// Package prior holds the prior distributions placed on model coefficients.
//
// The Fourier coefficients are given a zero-mean Normal prior whose scale must
// match the active seasonality transform. DefaultRegistry wires that pairing:
//
//	reg := prior.DefaultRegistry(transform.Abs)
//	p, _ := reg.Get(prior.GammaFourier) // Normal(0, 0.01)
//
// Pairing a transform with a scale it was not tuned for is not an error here;
// it only shows up as an implausible contribution after fitting.
package prior
