package fourier

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// YearlyPeriod is the length of a year in days.
const YearlyPeriod = 365.25

// Basis holds Fourier features, one row per time step.
type Basis struct {
	features *mat.Dense
	labels   []string
	offsets  []float64
	period   float64
	order    int
}

// FromTimes builds a basis whose time axis is the fractional day of year of
// each timestamp. The axis restarts every January 1, so period must be
// YearlyPeriod; use FromIndex for other cycles.
func FromTimes(ts []time.Time, period float64, order int) (*Basis, error) {
	if len(ts) == 0 {
		return nil, ErrNoTimes
	}
	if period != YearlyPeriod {
		return nil, fmt.Errorf("%w: dates need the yearly period %g, got %g", ErrBadPeriod, YearlyPeriod, period)
	}
	offsets := make([]float64, len(ts))
	for i, t := range ts {
		offsets[i] = DayOfYear(t)
	}
	return build(offsets, period, order)
}

// FromIndex builds a basis over positions 0..n-1.
func FromIndex(n int, period float64, order int) (*Basis, error) {
	if n <= 0 {
		return nil, ErrNoTimes
	}
	offsets := make([]float64, n)
	for i := range offsets {
		offsets[i] = float64(i)
	}
	return build(offsets, period, order)
}

// DayOfYear returns the zero-based day of year of t including the fraction of
// the day that has elapsed.
func DayOfYear(t time.Time) float64 {
	h, m, s := t.Clock()
	frac := (float64(h)*3600 + float64(m)*60 + float64(s)) / 86400
	return float64(t.YearDay()-1) + frac
}

func build(offsets []float64, period float64, order int) (*Basis, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadOrder, order)
	}
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrBadPeriod, period)
	}

	features := mat.NewDense(len(offsets), 2*order, nil)
	for i, t := range offsets {
		for k := 1; k <= order; k++ {
			arg := 2 * math.Pi * float64(k) * t / period
			features.Set(i, 2*(k-1), math.Sin(arg))
			features.Set(i, 2*(k-1)+1, math.Cos(arg))
		}
	}

	return &Basis{
		features: features,
		labels:   Labels(order),
		offsets:  offsets,
		period:   period,
		order:    order,
	}, nil
}

// Labels returns the column labels of a basis of the given order.
func Labels(order int) []string {
	labels := make([]string, 0, 2*order)
	for k := 1; k <= order; k++ {
		labels = append(labels, fmt.Sprintf("sin_order_%d", k), fmt.Sprintf("cos_order_%d", k))
	}
	return labels
}

// Len returns the number of time steps.
func (b *Basis) Len() int {
	r, _ := b.features.Dims()
	return r
}

// Width returns the number of feature columns, 2*order.
func (b *Basis) Width() int {
	return 2 * b.order
}

// Order returns the number of harmonics.
func (b *Basis) Order() int {
	return b.order
}

// Period returns the seasonal period.
func (b *Basis) Period() float64 {
	return b.period
}

// Labels returns a copy of the column labels.
func (b *Basis) Labels() []string {
	out := make([]string, len(b.labels))
	copy(out, b.labels)
	return out
}

// Offsets returns a copy of the time offsets the basis was evaluated at.
func (b *Basis) Offsets() []float64 {
	out := make([]float64, len(b.offsets))
	copy(out, b.offsets)
	return out
}

// Matrix returns a copy of the T x 2K feature matrix.
func (b *Basis) Matrix() *mat.Dense {
	return mat.DenseCopyOf(b.features)
}

// At returns feature column j at time step i.
func (b *Basis) At(i, j int) float64 {
	return b.features.At(i, j)
}

// Combine returns L(t) = sum_j gamma[j] * basis_j(t) for every time step.
func (b *Basis) Combine(gamma []float64) ([]float64, error) {
	if len(gamma) != b.Width() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCoefficientCount, len(gamma), b.Width())
	}
	var l mat.VecDense
	l.MulVec(b.features, mat.NewVecDense(len(gamma), gamma))
	return mat.Col(nil, 0, &l), nil
}

// CombineRows applies Combine to every row of gamma (entities x 2K) and
// returns an entities x T matrix.
func (b *Basis) CombineRows(gamma mat.Matrix) (*mat.Dense, error) {
	_, c := gamma.Dims()
	if c != b.Width() {
		return nil, fmt.Errorf("%w: got %d columns, want %d", ErrCoefficientCount, c, b.Width())
	}
	var l mat.Dense
	l.Mul(gamma, b.features.T())
	return &l, nil
}
