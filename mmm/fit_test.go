package mmm_test

import (
	"math"
	"testing"

	"github.com/sartorproj/goseason/diagnostics"
	"github.com/sartorproj/goseason/mmm"
	"github.com/sartorproj/goseason/prior"
	"github.com/sartorproj/goseason/tensor"
	"github.com/sartorproj/goseason/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticSeries returns base + f(L_true) + small deterministic noise.
func syntheticSeries(t *testing.T, m *mmm.Model, gammaTrue []float64, base float64) ([]float64, []float64) {
	t.Helper()

	g, err := tensor.New(m.GammaShape(1, 1), gammaTrue)
	require.NoError(t, err)
	s, err := m.Contribution(g)
	require.NoError(t, err)

	truth := s.Data()
	y := make([]float64, len(truth))
	for i, v := range truth {
		noise := 0.05 * math.Sin(1.7*float64(i))
		if m.Composition() == mmm.Multiplicative {
			y[i] = base*v + noise
		} else {
			y[i] = base + v + noise
		}
	}
	return y, truth
}

func TestFitMAP_RecoversSoftplusSeasonality(t *testing.T) {
	n := 104
	m, err := mmm.NewBuilder(nil).Build(mmm.DefaultConfig(), mmm.Inputs{
		Times: weeklyDates(n),
		Base:  [][]float64{constant(n, 10)},
	})
	require.NoError(t, err)

	y, truth := syntheticSeries(t, m, []float64{1.0, -0.5, 0.3, 0.2}, 10)

	opts := mmm.DefaultFitOptions()
	opts.NoiseSigma = 0.05
	fit, err := m.FitMAP([][]float64{y}, opts)
	require.NoError(t, err)
	require.Equal(t, 1, fit.Trace.Chains)
	require.Equal(t, 1, fit.Trace.Draws)

	s, err := fit.Trace.Get(mmm.VarContribution)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, n}, s.Shape())
	assert.InDeltaSlice(t, truth, s.Data(), 0.1)

	// post-fit sanity: posterior-mean contribution within [0, 50)
	require.NoError(t, diagnostics.SanityCheck(s))
	mean, err := diagnostics.PosteriorMean(s)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, mean.Min(), 0.0)
	assert.Less(t, mean.Max(), diagnostics.SanityMax)

	start := m.Prior().Sample(prior.NewSource(m.Config().Seed), 4)
	assert.LessOrEqual(t, fit.Objective, m.NegLogPosterior(y, 0.05, start))
}

func TestFitMAP_ScaledExpMultiplicative(t *testing.T) {
	n := 104
	cfg := mmm.DefaultConfig()
	cfg.Transform = transform.ScaledExp
	m, err := mmm.NewBuilder(nil).Build(cfg, mmm.Inputs{
		Times: weeklyDates(n),
		Base:  [][]float64{constant(n, 100)},
	})
	require.NoError(t, err)
	require.Equal(t, mmm.Multiplicative, m.Composition())

	y, truth := syntheticSeries(t, m, []float64{1.5, -1, 0.5, 0}, 100)

	opts := mmm.DefaultFitOptions()
	opts.NoiseSigma = 0.05
	fit, err := m.FitMAP([][]float64{y}, opts)
	require.NoError(t, err)

	s, err := fit.Trace.Get(mmm.VarContribution)
	require.NoError(t, err)
	assert.InDeltaSlice(t, truth, s.Data(), 0.01)
	require.NoError(t, diagnostics.CheckPlausible(transform.ScaledExp, s))
}

func TestFitMAP_MultiEntity(t *testing.T) {
	n := 52
	cfg := mmm.DefaultConfig()
	cfg.YearlySeasonality = 1
	m, err := mmm.NewBuilder(nil).Build(cfg, mmm.Inputs{
		Times:    weeklyDates(n),
		Entities: []string{"north", "south"},
		Base:     [][]float64{constant(n, 5), constant(n, 8)},
	})
	require.NoError(t, err)

	g, err := tensor.New(m.GammaShape(1, 1), []float64{1.5, 0, -1, 0.5})
	require.NoError(t, err)
	tr, err := mmm.NewTrace(1, 1)
	require.NoError(t, err)
	require.NoError(t, tr.Set(mmm.VarGamma, g))
	require.NoError(t, m.Evaluate(tr))
	mu, err := tr.Get(mmm.VarMu)
	require.NoError(t, err)

	observed := [][]float64{mu.Data()[:n], mu.Data()[n:]}
	opts := mmm.DefaultFitOptions()
	opts.NoiseSigma = 0.05
	fit, err := m.FitMAP(observed, opts)
	require.NoError(t, err)

	fitted, err := fit.Trace.Get(mmm.VarMu)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, n}, fitted.Shape())
	assert.InDeltaSlice(t, mu.Data(), fitted.Data(), 0.05)
}

func TestFitMAP_AbsStaysNonnegative(t *testing.T) {
	n := 52
	cfg := mmm.DefaultConfig()
	cfg.Transform = transform.Abs
	m, err := mmm.NewBuilder(nil).Build(cfg, mmm.Inputs{Times: weeklyDates(n), Base: [][]float64{constant(n, 3)}})
	require.NoError(t, err)

	y, _ := syntheticSeries(t, m, []float64{0.02, 0.01, -0.01, 0.005}, 3)
	fit, err := m.FitMAP([][]float64{y}, nil)
	require.NoError(t, err)

	s, err := fit.Trace.Get(mmm.VarContribution)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s.Min(), 0.0)
	require.NoError(t, diagnostics.SanityCheck(s))
}

func TestFitMAP_ObservedShape(t *testing.T) {
	m, err := mmm.NewBuilder(nil).Build(mmm.DefaultConfig(), mmm.Inputs{Index: 10})
	require.NoError(t, err)

	_, err = m.FitMAP([][]float64{constant(9, 1)}, nil)
	require.ErrorIs(t, err, mmm.ErrObservedShape)

	_, err = m.FitMAP([][]float64{constant(10, 1), constant(10, 1)}, nil)
	require.ErrorIs(t, err, mmm.ErrObservedShape)
}
