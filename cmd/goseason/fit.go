package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/goseason/diagnostics"
	"github.com/sartorproj/goseason/mmm"
	"github.com/sartorproj/goseason/timeseries"
)

// fitOutput is the JSON written by fit --out.
type fitOutput struct {
	RunID      string                       `json:"run_id"`
	Objective  float64                      `json:"objective"`
	Status     string                       `json:"status"`
	Iterations int                          `json:"iterations"`
	Gamma      []float64                    `json:"gamma_fourier"`
	Report     *diagnostics.Report          `json:"report"`
	Residuals  []diagnostics.ResidualReport `json:"residuals"`
	Structure  []mmm.Term                   `json:"structure"`
}

func newFitCmd(a *app) *cobra.Command {
	var (
		f         modelFlags
		fittedCSV string
		lags      int
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "MAP-fit the seasonality against the observed column",
		Long: `Fit gamma_fourier by maximum a posteriori against the observed value column,
holding the baseline (data.base_columns) fixed, then run the post-fit sanity
check on the seasonal contribution.

Examples:
  goseason fit --csv sales.csv
  GOSEASON_DATA_BASE_COLUMNS=intercept,tv goseason fit --csv sales.csv --fitted fitted.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.csvPath == "" {
				return errors.New("--csv is required")
			}
			m, d, err := a.build(&f)
			if err != nil {
				return err
			}

			res, err := m.FitMAP(d.observed, a.cfg.FitOptions())
			if err != nil {
				return err
			}
			report, err := diagnostics.Inspect(m, res.Trace)
			if err != nil {
				return err
			}
			a.logger.Info("fit complete",
				zap.Float64("objective", res.Objective),
				zap.String("status", res.Status),
				zap.Int("iterations", res.Iterations),
				zap.Bool("sane", report.Sane))

			gamma, err := res.Trace.Get(mmm.VarGamma)
			if err != nil {
				return err
			}
			residuals, err := diagnostics.InspectResiduals(m, res.Trace, d.observed, lags)
			if err != nil {
				return err
			}

			a.metrics.ObserveReport(report)
			a.metrics.ObserveFit(report.Policy, res.Objective, res.Iterations)
			a.metrics.ObserveResiduals(residuals)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "objective: %.6g  status: %s  iterations: %d\n", res.Objective, res.Status, res.Iterations)
			fmt.Fprintf(out, "gamma_fourier: %.4g\n", gamma.RawData())
			printReport(out, report)
			printResiduals(out, residuals)

			if fittedCSV != "" {
				if err := writeFitted(fittedCSV, m, d, res.Trace); err != nil {
					return err
				}
			}
			if f.out != "" {
				if err := writeJSON(cmd, f.out, fitOutput{
					RunID:      a.runID,
					Objective:  res.Objective,
					Status:     res.Status,
					Iterations: res.Iterations,
					Gamma:      gamma.Data(),
					Report:     report,
					Residuals:  residuals,
					Structure:  m.Structure(),
				}); err != nil {
					return err
				}
			}

			if !report.Sane {
				return errors.New("fitted seasonal contribution failed the sanity check")
			}
			return nil
		},
	}

	f.register(cmd, false)
	cmd.Flags().IntVar(&lags, "lags", 10, "Ljung-Box horizon for the residual check")
	cmd.Flags().StringVar(&fittedCSV, "fitted", "", "write observed, contribution and mu per date to this CSV (single entity only)")
	return cmd
}

func printResiduals(w io.Writer, reports []diagnostics.ResidualReport) {
	for _, r := range reports {
		name := r.Entity
		if name == "" {
			name = "residuals"
		}
		fmt.Fprintf(w, "%s: mean=%.4g std=%.4g rmse=%.4g", name, r.Mean, r.Std, r.RMSE)
		if r.DurbinWatson != nil {
			fmt.Fprintf(w, " durbin_watson=%.3f", r.DurbinWatson.Statistic)
		}
		if r.LjungBox != nil {
			fmt.Fprintf(w, " ljung_box(q=%.3g, p=%.3g, dof=%d)", r.LjungBox.Statistic, r.LjungBox.PValue, r.LjungBox.DOF)
		}
		fmt.Fprintln(w)
	}
}

// writeFitted writes the observed series next to the fitted contribution and
// mean of a single-entity model.
func writeFitted(path string, m *mmm.Model, d *dataset, tr *mmm.Trace) error {
	if m.MultiEntity() {
		return errors.New("--fitted supports single-entity models only")
	}
	contribution, err := tr.Get(mmm.VarContribution)
	if err != nil {
		return err
	}
	mu, err := tr.Get(mmm.VarMu)
	if err != nil {
		return err
	}

	times := d.inputs.Times
	observed, err := timeseries.NewWithTimestamps(times, d.observed[0])
	if err != nil {
		return err
	}
	observed.Name = "observed"
	s, err := timeseries.NewWithTimestamps(times, contribution.Data())
	if err != nil {
		return err
	}
	s.Name = mmm.VarContribution
	fitted, err := timeseries.NewWithTimestamps(times, mu.Data())
	if err != nil {
		return err
	}
	fitted.Name = mmm.VarMu

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return timeseries.WriteCSV(file, observed, s, fitted)
}
