// Package metrics records the outcome of goseason runs as Prometheus metrics
// and writes them in the textfile-collector format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sartorproj/goseason/diagnostics"
)

// Metrics holds the Prometheus metrics of one run.
//
// Metrics:
//   - goseason_run_duration_seconds{command} - Wall time of the command
//   - goseason_contribution{transform,stat} - Min, max and mean of the posterior-mean contribution
//   - goseason_check_failures_total{check} - Failed plausibility and sanity checks
//   - goseason_fit_objective{transform} - Negative log posterior at the MAP estimate
//   - goseason_fit_iterations{transform} - Optimizer major iterations
//   - goseason_residual_ljung_box_p_value{entity} - Ljung-Box p-value of the fit residuals
type Metrics struct {
	registry *prometheus.Registry

	RunDuration       *prometheus.GaugeVec
	Contribution      *prometheus.GaugeVec
	CheckFailures     *prometheus.CounterVec
	FitObjective      *prometheus.GaugeVec
	FitIterations     *prometheus.GaugeVec
	ResidualLjungBoxP *prometheus.GaugeVec
}

// New creates the metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RunDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "goseason_run_duration_seconds",
				Help: "Wall time of the goseason command in seconds",
			},
			[]string{"command"},
		),
		Contribution: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "goseason_contribution",
				Help: "Summary of the posterior-mean seasonal contribution",
			},
			[]string{"transform", "stat"}, // stat: "min", "max" or "mean"
		),
		CheckFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goseason_check_failures_total",
				Help: "Number of failed contribution checks",
			},
			[]string{"check"}, // "plausible" or "sanity"
		),
		FitObjective: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "goseason_fit_objective",
				Help: "Negative log posterior at the MAP estimate",
			},
			[]string{"transform"},
		),
		FitIterations: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "goseason_fit_iterations",
				Help: "Optimizer major iterations of the MAP fit",
			},
			[]string{"transform"},
		),
		ResidualLjungBoxP: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "goseason_residual_ljung_box_p_value",
				Help: "Ljung-Box p-value of the fit residuals",
			},
			[]string{"entity"},
		),
	}
}

// Registry exposes the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records the wall time of a command started at start.
func (m *Metrics) ObserveRun(command string, start time.Time) {
	m.RunDuration.WithLabelValues(command).Set(time.Since(start).Seconds())
}

// ObserveReport records the contribution summary and failed checks of r.
func (m *Metrics) ObserveReport(r *diagnostics.Report) {
	m.Contribution.WithLabelValues(r.Policy, "min").Set(r.PosteriorMean.Min)
	m.Contribution.WithLabelValues(r.Policy, "max").Set(r.PosteriorMean.Max)
	m.Contribution.WithLabelValues(r.Policy, "mean").Set(r.PosteriorMean.Mean)
	if !r.Plausible {
		m.CheckFailures.WithLabelValues("plausible").Inc()
	}
	if !r.Sane {
		m.CheckFailures.WithLabelValues("sanity").Inc()
	}
}

// ObserveFit records the optimizer outcome.
func (m *Metrics) ObserveFit(transform string, objective float64, iterations int) {
	m.FitObjective.WithLabelValues(transform).Set(objective)
	m.FitIterations.WithLabelValues(transform).Set(float64(iterations))
}

// ObserveResiduals records the Ljung-Box p-value per entity.
func (m *Metrics) ObserveResiduals(reports []diagnostics.ResidualReport) {
	for _, r := range reports {
		if r.LjungBox == nil {
			continue
		}
		entity := r.Entity
		if entity == "" {
			entity = "all"
		}
		m.ResidualLjungBoxP.WithLabelValues(entity).Set(r.LjungBox.PValue)
	}
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
