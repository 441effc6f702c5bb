package diagnostics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goseason/mmm"
	"github.com/sartorproj/goseason/tensor"
	"github.com/sartorproj/goseason/transform"
)

// SanityMax is the exclusive upper bound of the post-fit sanity check.
const SanityMax = 50.0

// Summary describes the distribution of values in a tensor.
type Summary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	N    int     `json:"n"`
}

// Summarize computes a Summary over every element of t.
func Summarize(t *tensor.Dense) Summary {
	data := t.RawData()
	mean, std := stat.MeanStdDev(data, nil)
	if len(data) < 2 {
		std = 0
	}
	return Summary{
		Min:  floats.Min(data),
		Max:  floats.Max(data),
		Mean: mean,
		Std:  std,
		N:    len(data),
	}
}

// PosteriorMean averages a (chain, draw, ...) tensor over chain and draw.
func PosteriorMean(t *tensor.Dense) (*tensor.Dense, error) {
	if t.Rank() < 3 {
		return nil, fmt.Errorf("diagnostics: want (chain, draw, ...) tensor, got shape %v", t.Shape())
	}
	return t.MeanLeading(2)
}

// CheckRange returns a *RangeError if any element of t falls outside [lo, hi].
func CheckRange(name string, t *tensor.Dense, lo, hi float64) error {
	s := Summarize(t)
	if math.IsNaN(s.Min) || math.IsNaN(s.Max) || s.Min < lo || s.Max > hi {
		return &RangeError{Name: name, Min: s.Min, Max: s.Max, Lo: lo, Hi: hi}
	}
	return nil
}

// CheckPlausible checks the posterior-mean contribution against the policy's
// plausible range.
func CheckPlausible(policy transform.Policy, contribution *tensor.Dense) error {
	mean, err := PosteriorMean(contribution)
	if err != nil {
		return err
	}
	lo, hi := policy.PlausibleRange()
	return CheckRange(mmm.VarContribution, mean, lo, hi)
}

// SanityCheck verifies that the posterior-mean contribution is nonnegative
// at every time step and stays below SanityMax.
func SanityCheck(contribution *tensor.Dense) error {
	mean, err := PosteriorMean(contribution)
	if err != nil {
		return err
	}
	s := Summarize(mean)
	if math.IsNaN(s.Min) || math.IsNaN(s.Max) || s.Min < 0 || s.Max >= SanityMax {
		return &RangeError{Name: mmm.VarContribution, Min: s.Min, Max: s.Max, Lo: 0, Hi: SanityMax, HiExclusive: true}
	}
	return nil
}

// Report bundles the checks run against a trace.
type Report struct {
	Policy        string   `json:"policy"`
	Composition   string   `json:"composition"`
	Contribution  Summary  `json:"contribution"`
	PosteriorMean Summary  `json:"posterior_mean"`
	Plausible     bool     `json:"plausible"`
	Sane          bool     `json:"sane"`
	Problems      []string `json:"problems,omitempty"`
}

// Inspect runs every check against the contribution stored in tr.
func Inspect(model *mmm.Model, tr *mmm.Trace) (*Report, error) {
	s, err := tr.Get(mmm.VarContribution)
	if err != nil {
		return nil, err
	}
	mean, err := PosteriorMean(s)
	if err != nil {
		return nil, err
	}

	cfg := model.Config()
	r := &Report{
		Policy:        cfg.Transform.String(),
		Composition:   model.Composition().String(),
		Contribution:  Summarize(s),
		PosteriorMean: Summarize(mean),
		Plausible:     true,
		Sane:          true,
	}
	if err := CheckPlausible(cfg.Transform, s); err != nil {
		r.Plausible = false
		r.Problems = append(r.Problems, err.Error())
	}
	if err := SanityCheck(s); err != nil {
		r.Sane = false
		r.Problems = append(r.Problems, err.Error())
	}
	return r, nil
}
