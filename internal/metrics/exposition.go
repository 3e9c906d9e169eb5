package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exposition is the balancer's own set of self-observability counters,
// separate from the per-backend telemetry a Poller scrapes.
type Exposition struct {
	admitted  prometheus.Counter
	rejected  prometheus.Counter
	queueSize prometheus.Gauge
}

// NewExposition registers the balancer's counters against reg.
func NewExposition(reg prometheus.Registerer) *Exposition {
	e := &Exposition{
		admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fabric_balancer_admitted_total",
			Help: "Total number of requests admitted to a backend.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fabric_balancer_rejected_total",
			Help: "Total number of requests rejected because no backend could accept them.",
		}),
		queueSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fabric_balancer_queue_size",
			Help: "Current size of the priority dispatch queue.",
		}),
	}
	reg.MustRegister(e.admitted, e.rejected, e.queueSize)
	return e
}

func (e *Exposition) IncAdmitted()       { e.admitted.Inc() }
func (e *Exposition) IncRejected()       { e.rejected.Inc() }
func (e *Exposition) SetQueueSize(n int) { e.queueSize.Set(float64(n)) }

// Handler returns the HTTP handler serving the default Prometheus
// registry; counters NewExposition registered on another registry are
// not served by it.
func Handler() http.Handler {
	return promhttp.Handler()
}
