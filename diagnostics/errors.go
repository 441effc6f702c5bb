package diagnostics

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is wrapped by every RangeError.
var ErrOutOfRange = errors.New("diagnostics: value out of range")

// RangeError reports the observed extremes of a quantity that left [Lo, Hi].
type RangeError struct {
	Name string
	Min  float64
	Max  float64
	Lo   float64
	Hi   float64
	// HiExclusive marks Hi as a strict upper bound.
	HiExclusive bool
}

func (e *RangeError) Error() string {
	closing := "]"
	if e.HiExclusive {
		closing = ")"
	}
	return fmt.Sprintf("diagnostics: %s spans [%g, %g], outside [%g, %g%s", e.Name, e.Min, e.Max, e.Lo, e.Hi, closing)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
