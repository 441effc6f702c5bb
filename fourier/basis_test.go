package fourier_test

import (
	"math"
	"testing"
	"time"

	"github.com/sartorproj/goseason/fourier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFromIndex_Values(t *testing.T) {
	b, err := fourier.FromIndex(8, 4, 2)
	require.NoError(t, err)

	assert.Equal(t, 8, b.Len())
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 2, b.Order())
	assert.Equal(t, 4.0, b.Period())
	assert.Equal(t, []string{"sin_order_1", "cos_order_1", "sin_order_2", "cos_order_2"}, b.Labels())

	for i := 0; i < 8; i++ {
		arg := 2 * math.Pi * float64(i) / 4
		assert.InDelta(t, math.Sin(arg), b.At(i, 0), 1e-12)
		assert.InDelta(t, math.Cos(arg), b.At(i, 1), 1e-12)
		assert.InDelta(t, math.Sin(2*arg), b.At(i, 2), 1e-12)
		assert.InDelta(t, math.Cos(2*arg), b.At(i, 3), 1e-12)
	}
}

func TestFromIndex_Periodic(t *testing.T) {
	b, err := fourier.FromIndex(24, 12, 3)
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		for j := 0; j < b.Width(); j++ {
			assert.InDelta(t, b.At(i, j), b.At(i+12, j), 1e-9)
		}
	}
}

func TestFromTimes_DayOfYear(t *testing.T) {
	ts := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	b, err := fourier.FromTimes(ts, fourier.YearlyPeriod, 1)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 7.5, 182}, b.Offsets())
	assert.InDelta(t, 0, b.At(0, 0), 1e-12)
	assert.InDelta(t, 1, b.At(0, 1), 1e-12)
	assert.InDelta(t, math.Sin(2*math.Pi*7.5/fourier.YearlyPeriod), b.At(1, 0), 1e-12)
}

func TestBasis_Errors(t *testing.T) {
	_, err := fourier.FromIndex(0, 12, 1)
	require.ErrorIs(t, err, fourier.ErrNoTimes)

	_, err = fourier.FromTimes(nil, 12, 1)
	require.ErrorIs(t, err, fourier.ErrNoTimes)

	_, err = fourier.FromIndex(10, 12, 0)
	require.ErrorIs(t, err, fourier.ErrBadOrder)

	_, err = fourier.FromIndex(10, 0, 1)
	require.ErrorIs(t, err, fourier.ErrBadPeriod)

	_, err = fourier.FromIndex(10, math.Inf(1), 1)
	require.ErrorIs(t, err, fourier.ErrBadPeriod)

	// day of year restarts each January, so a weekly period would jump there
	ts := []time.Time{time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	_, err = fourier.FromTimes(ts, 7, 1)
	require.ErrorIs(t, err, fourier.ErrBadPeriod)
}

func TestCombine(t *testing.T) {
	b, err := fourier.FromIndex(6, 6, 2)
	require.NoError(t, err)

	gamma := []float64{0.5, -1, 0.25, 2}
	l, err := b.Combine(gamma)
	require.NoError(t, err)
	require.Len(t, l, 6)

	for i := range l {
		want := 0.0
		for j, g := range gamma {
			want += g * b.At(i, j)
		}
		assert.InDelta(t, want, l[i], 1e-12)
	}

	_, err = b.Combine([]float64{1})
	require.ErrorIs(t, err, fourier.ErrCoefficientCount)
}

func TestCombineRows(t *testing.T) {
	b, err := fourier.FromIndex(5, 5, 1)
	require.NoError(t, err)

	gamma := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		-1, 2,
	})
	l, err := b.CombineRows(gamma)
	require.NoError(t, err)

	r, c := l.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 5, c)

	for e := 0; e < 3; e++ {
		row, err := b.Combine(mat.Row(nil, e, gamma))
		require.NoError(t, err)
		assert.InDeltaSlice(t, row, mat.Row(nil, e, l), 1e-12)
	}

	_, err = b.CombineRows(mat.NewDense(2, 3, nil))
	require.ErrorIs(t, err, fourier.ErrCoefficientCount)
}

func TestMatrix_IsCopy(t *testing.T) {
	b, err := fourier.FromIndex(3, 3, 1)
	require.NoError(t, err)

	m := b.Matrix()
	m.Set(0, 0, 42)
	assert.NotEqual(t, 42.0, b.At(0, 0))
}
