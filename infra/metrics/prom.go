package metrics

import (
	coremetrics "hybridsched/core/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records run statistics as Prometheus metrics. The Prometheus
// server that exposes them is started separately (see StartPromServer).
type PromSink struct {
	runs        *prometheus.CounterVec
	solveTime   *prometheus.HistogramVec
	successRate prometheus.Gauge
	horizonDays prometheus.Gauge
	extensions  prometheus.Counter
}

// NewPromSink registers run metrics on the default Prometheus registerer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A
// nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_runs_total",
		Help: "Total number of completed planning calls",
	}, []string{"status", "algorithm"})
	solveTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedule_solve_time_seconds",
		Help:    "Wall-clock time spent solving, per algorithm",
		Buckets: prometheus.DefBuckets,
	}, []string{"algorithm"})
	successRate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_success_rate",
		Help: "Fraction of tasks fully scheduled in the last run",
	})
	horizonDays := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_horizon_days",
		Help: "Horizon, in days, used by the last run",
	})
	extensions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_horizon_extensions_total",
		Help: "Total number of horizon-extension steps taken",
	})

	for _, c := range []prometheus.Collector{runs, solveTime, successRate, horizonDays, extensions} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}

	return &PromSink{
		runs:        runs,
		solveTime:   solveTime,
		successRate: successRate,
		horizonDays: horizonDays,
		extensions:  extensions,
	}, nil
}

// RecordRun updates the run counters and gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Status, ev.Algorithm).Inc()
	s.solveTime.WithLabelValues(ev.Algorithm).Observe(ev.SolveTime)
	s.successRate.Set(ev.Stats.SuccessRate)
	s.horizonDays.Set(float64(ev.HorizonDays))
	return nil
}

// RecordHorizonExtension increments the extension counter.
func (s *PromSink) RecordHorizonExtension(coremetrics.HorizonExtensionEvent) error {
	s.extensions.Inc()
	return nil
}
