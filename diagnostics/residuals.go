package diagnostics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/goseason/mmm"
	"github.com/sartorproj/goseason/timeseries"
)

// ACF calculates the autocorrelation function of the series for lags 0 to
// maxLag. It returns nil for a constant series.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := series.Mean()
	variance := 0.0
	for _, v := range series.Values {
		diff := v - mean
		variance += diff * diff
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (series.Values[i] - mean) * (series.Values[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"`
}

// LjungBox tests the null hypothesis of no autocorrelation up to lag h.
// fitdf is the number of estimated parameters. It returns nil for fewer than
// ten observations or a constant series.
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    distuv.ChiSquared{K: float64(dof)}.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatsonResult holds the Durbin-Watson statistic: about 2 for no
// autocorrelation, below 2 for positive, above 2 for negative.
type DurbinWatsonResult struct {
	Statistic float64 `json:"statistic"`
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation. It returns nil for fewer than two residuals or all zeros.
func DurbinWatson(residuals []float64) *DurbinWatsonResult {
	n := len(residuals)
	if n < 2 {
		return nil
	}

	numerator := 0.0
	for i := 1; i < n; i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}
	denominator := 0.0
	for _, r := range residuals {
		denominator += r * r
	}
	if denominator == 0 {
		return nil
	}
	return &DurbinWatsonResult{Statistic: numerator / denominator}
}

// ResidualReport summarises the fit residuals of one entity.
type ResidualReport struct {
	Entity       string              `json:"entity,omitempty"`
	Mean         float64             `json:"mean"`
	Std          float64             `json:"std"`
	RMSE         float64             `json:"rmse"`
	DurbinWatson *DurbinWatsonResult `json:"durbin_watson,omitempty"`
	LjungBox     *LjungBoxResult     `json:"ljung_box,omitempty"`
}

// Residuals returns observed minus the posterior-mean mu, one row per entity.
func Residuals(model *mmm.Model, tr *mmm.Trace, observed [][]float64) ([][]float64, error) {
	mu, err := tr.Get(mmm.VarMu)
	if err != nil {
		return nil, err
	}
	mean, err := PosteriorMean(mu)
	if err != nil {
		return nil, err
	}
	steps := model.Basis().Len()
	fitted := mean.RawData()
	if len(fitted) != len(observed)*steps {
		return nil, fmt.Errorf("%w: %d rows of %d steps against mu of %d values",
			mmm.ErrObservedShape, len(observed), steps, len(fitted))
	}

	out := make([][]float64, len(observed))
	for r, row := range observed {
		if len(row) != steps {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", mmm.ErrObservedShape, r, len(row), steps)
		}
		out[r] = make([]float64, steps)
		for t, y := range row {
			out[r][t] = y - fitted[r*steps+t]
		}
	}
	return out, nil
}

// InspectResiduals reports residual autocorrelation per entity. Seasonality
// the transform could not express shows up as autocorrelation here; lags is
// the Ljung-Box horizon.
func InspectResiduals(model *mmm.Model, tr *mmm.Trace, observed [][]float64, lags int) ([]ResidualReport, error) {
	res, err := Residuals(model, tr, observed)
	if err != nil {
		return nil, err
	}
	entities := model.Entities()
	fitdf := model.Basis().Width()

	reports := make([]ResidualReport, len(res))
	for r, row := range res {
		mean, std := stat.MeanStdDev(row, nil)
		if len(row) < 2 {
			std = 0
		}
		sq := 0.0
		for _, v := range row {
			sq += v * v
		}
		reports[r] = ResidualReport{
			Mean:         mean,
			Std:          std,
			RMSE:         math.Sqrt(sq / float64(len(row))),
			DurbinWatson: DurbinWatson(row),
			LjungBox:     LjungBox(timeseries.New(row), lags, fitdf),
		}
		if r < len(entities) {
			reports[r].Entity = entities[r]
		}
	}
	return reports, nil
}
