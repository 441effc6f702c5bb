package prior_test

import (
	"math"
	"testing"

	"github.com/sartorproj/goseason/prior"
	"github.com/sartorproj/goseason/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestNormal_Validate(t *testing.T) {
	require.NoError(t, prior.Normal{Sigma: 1}.Validate())

	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		require.ErrorIs(t, prior.Normal{Sigma: s}.Validate(), prior.ErrBadScale, "sigma=%g", s)
	}
	require.Error(t, prior.Normal{Mu: math.NaN(), Sigma: 1}.Validate())
}

func TestNormal_LogProb(t *testing.T) {
	n := prior.Normal{Mu: 0, Sigma: 1}
	assert.InDelta(t, -0.5*math.Log(2*math.Pi), n.LogProb(0), 1e-12)
	assert.InDelta(t, n.LogProb(1)+n.LogProb(-2), n.LogProbSum(1, -2), 1e-12)
}

func TestNormal_Grad(t *testing.T) {
	n := prior.Normal{Mu: 1, Sigma: 2}
	const h = 1e-6
	for _, x := range []float64{-3, 0, 1, 2.5} {
		numeric := (n.LogProb(x+h) - n.LogProb(x-h)) / (2 * h)
		assert.InDelta(t, numeric, n.Grad(x), 1e-6)
	}
}

func TestNormal_SampleDeterministic(t *testing.T) {
	n := prior.Normal{Mu: 0, Sigma: 0.01}

	a := n.Sample(prior.NewSource(7), 100)
	b := n.Sample(prior.NewSource(7), 100)
	c := n.Sample(prior.NewSource(8), 100)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNormal_SampleMoments(t *testing.T) {
	n := prior.Normal{Mu: 2, Sigma: 0.5}
	xs := n.Sample(prior.NewSource(1), 20000)

	mean, std := stat.MeanStdDev(xs, nil)
	assert.InDelta(t, 2, mean, 0.02)
	assert.InDelta(t, 0.5, std, 0.02)
}

func TestNormal_Quantile(t *testing.T) {
	n := prior.Normal{Mu: 0, Sigma: 1}
	assert.InDelta(t, 0, n.Quantile(0.5), 1e-12)
	assert.InDelta(t, 1.959964, n.Quantile(0.975), 1e-5)
	assert.Equal(t, "Normal(0, 1)", n.String())
}

func TestDefaultRegistry(t *testing.T) {
	for _, p := range transform.All() {
		reg := prior.DefaultRegistry(p)
		g, err := reg.Get(prior.GammaFourier)
		require.NoError(t, err)
		assert.Equal(t, 0.0, g.Mu)
		assert.Equal(t, p.PriorSigma(), g.Sigma, p.String())
	}
}

func TestRegistry_SetGet(t *testing.T) {
	reg := prior.NewRegistry()

	_, err := reg.Get(prior.GammaFourier)
	require.ErrorIs(t, err, prior.ErrUnknownPrior)

	require.ErrorIs(t, reg.Set(prior.GammaFourier, prior.Normal{Sigma: 0}), prior.ErrBadScale)

	require.NoError(t, reg.Set("b", prior.Normal{Sigma: 1}))
	require.NoError(t, reg.Set("a", prior.Normal{Sigma: 2}))
	assert.Equal(t, []string{"a", "b"}, reg.Names())

	a, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 2.0, a.Sigma)
}

func TestRegistry_ZeroValue(t *testing.T) {
	var reg prior.Registry
	assert.Empty(t, reg.Names())

	require.NoError(t, reg.Set(prior.GammaFourier, prior.Normal{Sigma: 0.5}))
	p, err := reg.Get(prior.GammaFourier)
	require.NoError(t, err)
	assert.Equal(t, 0.5, p.Sigma)
}
