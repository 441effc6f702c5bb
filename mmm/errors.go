package mmm

import "errors"

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("mmm: invalid config")

	// ErrBaseShape is returned when the baseline does not match entities x time.
	ErrBaseShape = errors.New("mmm: baseline shape mismatch")

	// ErrGammaShape is returned when coefficient draws do not match the model.
	ErrGammaShape = errors.New("mmm: gamma shape mismatch")

	// ErrContributionShape is returned when a contribution tensor does not match the model.
	ErrContributionShape = errors.New("mmm: contribution shape mismatch")

	// ErrObservedShape is returned when observations do not match entities x time.
	ErrObservedShape = errors.New("mmm: observed shape mismatch")

	// ErrMissingVariable is returned when a trace lacks a named variable.
	ErrMissingVariable = errors.New("mmm: variable not in trace")
)
