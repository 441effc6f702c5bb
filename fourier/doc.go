// Package fourier generates the sine/cosine features used to model periodic
// seasonality.
//
// A Basis of order K has 2K columns ordered by harmonic:
//
//	sin_order_1, cos_order_1, sin_order_2, cos_order_2, ...
//
// Build yearly features from timestamps, or periodic features from a plain
// index:
//
//	basis, err := fourier.FromTimes(dates, fourier.YearlyPeriod, 2)
//	basis, err := fourier.FromIndex(104, 52, 3)
//
// Combine multiplies the basis by a coefficient vector and returns the
// linear combination L(t), one value per time step.
package fourier
