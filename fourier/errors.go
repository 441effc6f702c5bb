package fourier

import "errors"

var (
	// ErrNoTimes is returned when a basis is requested for zero time steps.
	ErrNoTimes = errors.New("fourier: no time steps")

	// ErrBadOrder is returned when the harmonic order is less than 1.
	ErrBadOrder = errors.New("fourier: order must be at least 1")

	// ErrBadPeriod is returned for a non-positive or non-finite period.
	ErrBadPeriod = errors.New("fourier: period must be positive")

	// ErrCoefficientCount is returned when coefficients do not match the basis width.
	ErrCoefficientCount = errors.New("fourier: coefficient count does not match basis")
)
