// Package mmm assembles the seasonal part of a marketing mix model mean
// function.
//
// A Model couples a Fourier basis, a Normal prior on the Fourier
// coefficients and ONE nonnegative seasonality transform. The same transform
// is used for the single-entity path (one coefficient vector) and the
// multi-entity path (one coefficient vector per entity), so the two can not
// drift apart:
//
//	cfg := mmm.DefaultConfig()
//	cfg.Transform = transform.Softplus
//
//	model, err := mmm.NewBuilder(logger).Build(cfg, mmm.Inputs{
//	    Times: dates,
//	    Base:  [][]float64{interceptPlusChannels},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	trace, _ := model.SamplePrior(2, 500)        // gamma_fourier draws
//	_ = model.Evaluate(trace)                      // adds contribution and mu
//	s, _ := trace.Get(mmm.VarContribution)         // (chain, draw, date)
//
// # Composition
//
// The seasonal contribution S is combined with the baseline B (intercept plus
// channel effects) either additively, mu = B + S, or multiplicatively,
// mu = B * S. Composition is configured explicitly; CompositionAuto picks
// additive for softplus and abs and multiplicative for scaled_exp, whose
// contribution is centred on 1.
//
// # Fitting
//
// Posterior sampling is left to an external engine; the model evaluates any
// gamma_fourier draws it is handed. FitMAP provides a gradient-based point
// estimate for quick checks.
package mmm
