// Package diagnostics inspects the seasonal contribution of a fitted or
// prior-sampled model.
//
// Nothing in the model detects a transform paired with an unsuitable prior
// scale; the symptom is a contribution that has collapsed towards zero or
// dwarfs the intercept. The checks here make that visible:
//
//	s, _ := trace.Get(mmm.VarContribution)
//	if err := diagnostics.SanityCheck(s); err != nil {
//	    var rerr *diagnostics.RangeError
//	    if errors.As(err, &rerr) { ... }
//	}
//	err := diagnostics.CheckPlausible(transform.Softplus, s)
//
// After a fit, InspectResiduals reports the residual mean, spread and
// autocorrelation (Durbin-Watson and Ljung-Box) per entity. Seasonality the
// basis order cannot capture shows up as a small Ljung-Box p-value.
package diagnostics
