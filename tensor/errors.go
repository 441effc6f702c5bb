package tensor

import "errors"

var (
	// ErrBadShape is returned when a shape has no axes or a non-positive extent.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrDimensionMismatch is returned when the data length does not match the shape.
	ErrDimensionMismatch = errors.New("tensor: dimension mismatch")

	// ErrOutOfRange is returned by At and Set for indices outside the shape.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrBadAxes is returned when a reduction names more axes than the tensor has.
	ErrBadAxes = errors.New("tensor: invalid axis count")
)
