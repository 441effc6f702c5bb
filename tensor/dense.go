package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Dense is a row-major tensor of float64 values.
type Dense struct {
	shape   []int
	strides []int
	data    []float64
}

// New creates a tensor with the given shape backed by a copy of data.
func New(shape []int, data []float64) (*Dense, error) {
	n, err := size(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrDimensionMismatch, shape, n, len(data))
	}

	buf := make([]float64, n)
	copy(buf, data)
	return newDense(shape, buf), nil
}

// Zeros creates a zero-filled tensor with the given shape.
func Zeros(shape ...int) (*Dense, error) {
	n, err := size(shape)
	if err != nil {
		return nil, err
	}
	return newDense(shape, make([]float64, n)), nil
}

// Scalar wraps a single value as a one-element tensor of shape [1].
func Scalar(v float64) *Dense {
	return newDense([]int{1}, []float64{v})
}

func newDense(shape []int, data []float64) *Dense {
	s := make([]int, len(shape))
	copy(s, shape)

	strides := make([]int, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= s[i]
	}

	return &Dense{shape: s, strides: strides, data: data}
}

func size(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, ErrBadShape
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("%w: %v", ErrBadShape, shape)
		}
		n *= d
	}
	return n, nil
}

// Shape returns a copy of the tensor shape.
func (t *Dense) Shape() []int {
	s := make([]int, len(t.shape))
	copy(s, t.shape)
	return s
}

// Rank returns the number of axes.
func (t *Dense) Rank() int {
	return len(t.shape)
}

// Len returns the total number of elements.
func (t *Dense) Len() int {
	return len(t.data)
}

// Data returns a copy of the underlying values in row-major order.
func (t *Dense) Data() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

// RawData returns the backing slice. Callers must not change its length.
func (t *Dense) RawData() []float64 {
	return t.data
}

func (t *Dense) offset(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, fmt.Errorf("%w: got %d indices for rank %d", ErrOutOfRange, len(idx), len(t.shape))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			return 0, fmt.Errorf("%w: index %v for shape %v", ErrOutOfRange, idx, t.shape)
		}
		off += v * t.strides[i]
	}
	return off, nil
}

// At returns the element at the given multi-index.
func (t *Dense) At(idx ...int) (float64, error) {
	off, err := t.offset(idx)
	if err != nil {
		return 0, err
	}
	return t.data[off], nil
}

// Set stores v at the given multi-index.
func (t *Dense) Set(v float64, idx ...int) error {
	off, err := t.offset(idx)
	if err != nil {
		return err
	}
	t.data[off] = v
	return nil
}

// Clone returns a deep copy.
func (t *Dense) Clone() *Dense {
	return newDense(t.shape, t.Data())
}

// Map applies f to every element and returns a new tensor of the same shape.
func (t *Dense) Map(f func(float64) float64) *Dense {
	out := make([]float64, len(t.data))
	for i, v := range t.data {
		out[i] = f(v)
	}
	return newDense(t.shape, out)
}

// Min returns the smallest element.
func (t *Dense) Min() float64 {
	return floats.Min(t.data)
}

// Max returns the largest element.
func (t *Dense) Max() float64 {
	return floats.Max(t.data)
}

// Sum returns the sum of all elements.
func (t *Dense) Sum() float64 {
	return floats.Sum(t.data)
}

// Equal reports whether both tensors have the same shape and identical values.
func (t *Dense) Equal(o *Dense) bool {
	if o == nil || !SameShape(t.shape, o.shape) {
		return false
	}
	return floats.Equal(t.data, o.data)
}

// EqualApprox is like Equal but compares values within tol.
func (t *Dense) EqualApprox(o *Dense, tol float64) bool {
	if o == nil || !SameShape(t.shape, o.shape) {
		return false
	}
	return floats.EqualApprox(t.data, o.data, tol)
}

// MeanLeading averages over the first n axes. With a (chain, draw, time)
// tensor and n=2 the result has shape [time].
func (t *Dense) MeanLeading(n int) (*Dense, error) {
	if n < 1 || n >= len(t.shape) {
		return nil, fmt.Errorf("%w: cannot reduce %d leading axes of rank %d", ErrBadAxes, n, len(t.shape))
	}

	outer := 1
	for _, d := range t.shape[:n] {
		outer *= d
	}
	inner := len(t.data) / outer

	out := make([]float64, inner)
	for o := 0; o < outer; o++ {
		floats.Add(out, t.data[o*inner:(o+1)*inner])
	}
	floats.Scale(1/float64(outer), out)

	return newDense(t.shape[n:], out), nil
}

// Slice returns a copy of the sub-tensor selected by fixing the leading axes
// to idx.
func (t *Dense) Slice(idx ...int) (*Dense, error) {
	if len(idx) == 0 || len(idx) >= len(t.shape) {
		return nil, fmt.Errorf("%w: cannot fix %d axes of rank %d", ErrBadAxes, len(idx), len(t.shape))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			return nil, fmt.Errorf("%w: index %v for shape %v", ErrOutOfRange, idx, t.shape)
		}
		off += v * t.strides[i]
	}
	n := t.strides[len(idx)-1]
	out := make([]float64, n)
	copy(out, t.data[off:off+n])
	return newDense(t.shape[len(idx):], out), nil
}

// SameShape reports whether two shapes are identical.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
