// Package metrics exposes Prometheus collectors describing purchase-flow runs.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghostshopper/ghostshopper/internal/models"
)

const namespace = "ghostshopper"

// Recorder tracks run counts, durations and where aborted runs stopped
type Recorder struct {
	gatherer prometheus.Gatherer

	started      prometheus.Counter
	inFlight     prometheus.Gauge
	finished     *prometheus.CounterVec
	duration     prometheus.Histogram
	abortedAt    *prometheus.CounterVec
	missingShots prometheus.Counter
}

// NewRecorder registers the run collectors on reg
func NewRecorder(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		gatherer: reg,
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Purchase-flow runs started.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_in_flight",
			Help:      "Purchase-flow runs currently executing.",
		}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_finished_total",
			Help:      "Purchase-flow runs finished, by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of finished runs.",
			Buckets:   []float64{5, 10, 20, 30, 45, 60, 90, 120, 180, 300},
		}),
		abortedAt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_aborted_total",
			Help:      "Aborted runs, by the step that failed.",
		}, []string{"step"}),
		missingShots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screenshots_missing_total",
			Help:      "Step records stored without evidence because the screenshot failed.",
		}),
	}

	reg.MustRegister(r.started, r.inFlight, r.finished, r.duration, r.abortedAt, r.missingShots)
	return r
}

// RunStarted implements services.RunObserver
func (r *Recorder) RunStarted(*models.Run) {
	r.started.Inc()
	r.inFlight.Inc()
}

// RunFinished implements services.RunObserver
func (r *Recorder) RunFinished(run *models.Run) {
	r.inFlight.Dec()
	r.finished.WithLabelValues(string(run.Status)).Inc()
	r.duration.Observe(run.ExecutionTime().Seconds())

	for _, res := range run.Results {
		if !res.IsSentinel() && res.Evidence == nil {
			r.missingShots.Inc()
		}
	}

	if run.Aborted() {
		r.abortedAt.WithLabelValues(strconv.Itoa(failedStep(run))).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// failedStep is the ordinal of the step that was executing when the run
// aborted: one past the last completed step.
func failedStep(run *models.Run) int {
	last := 0
	for _, res := range run.Results {
		if res.IsCompleted() && res.Step > last {
			last = res.Step
		}
	}
	return last + 1
}
