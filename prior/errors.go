package prior

import "errors"

var (
	// ErrBadScale is returned for a non-positive or non-finite sigma.
	ErrBadScale = errors.New("prior: sigma must be positive and finite")

	// ErrUnknownPrior is returned when a registry lookup fails.
	ErrUnknownPrior = errors.New("prior: unknown prior")
)
