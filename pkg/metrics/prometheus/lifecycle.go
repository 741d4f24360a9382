// Package prometheus provides a Prometheus-backed implementation of the
// companion lifecycle Recorder.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/companion/pkg/companion"
)

// lifecycleRecorder counts lifecycle operations per service name.
type lifecycleRecorder struct {
	starts   *prometheus.CounterVec
	stops    *prometheus.CounterVec
	restarts *prometheus.CounterVec
}

// NewLifecycleRecorder creates a Recorder whose counters are registered with
// reg. Pass prometheus.DefaultRegisterer to use the default registry.
//
// Example usage:
//
//	companion.SetRecorder(prometheus.NewLifecycleRecorder(prometheus.DefaultRegisterer))
func NewLifecycleRecorder(reg prometheus.Registerer) companion.Recorder {
	return &lifecycleRecorder{
		starts: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "companion_service_starts_total",
				Help: "Total number of start operations per companion service",
			},
			[]string{"service"},
		),
		stops: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "companion_service_stops_total",
				Help: "Total number of stop operations per companion service",
			},
			[]string{"service"},
		),
		restarts: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "companion_service_restarts_total",
				Help: "Total number of restart operations per companion service",
			},
			[]string{"service"},
		),
	}
}

func (r *lifecycleRecorder) ObserveStart(service string) {
	r.starts.WithLabelValues(service).Inc()
}

func (r *lifecycleRecorder) ObserveStop(service string) {
	r.stops.WithLabelValues(service).Inc()
}

func (r *lifecycleRecorder) ObserveRestart(service string) {
	r.restarts.WithLabelValues(service).Inc()
}
