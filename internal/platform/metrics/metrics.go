package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records portal request, upstream and session activity.
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     prometheus.Histogram
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	sessionEvents    *prometheus.CounterVec
	screenLoads      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrportal_http_requests_total",
			Help: "Portal HTTP responses by status code.",
		}, []string{"status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrportal_http_request_duration_seconds",
			Help:    "Portal HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrportal_upstream_requests_total",
			Help: "Calls to the HR backend by operation and outcome.",
		}, []string{"operation", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrportal_upstream_latency_seconds",
			Help:    "HR backend call latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrportal_session_events_total",
			Help: "Session lifecycle events, including per-request resolutions.",
		}, []string{"event"}),
		screenLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrportal_screen_loads_total",
			Help: "Screen loads by screen and resulting phase.",
		}, []string{"screen", "phase"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.upstreamRequests,
		c.upstreamLatency,
		c.sessionEvents,
		c.screenLoads,
	)
	return c
}

func (c *Collector) RecordHTTP(status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordUpstream(operation string, status int, err error, duration time.Duration) {
	if c == nil {
		return
	}
	outcome := "ok"
	switch {
	case err != nil && status == 0:
		outcome = "network_error"
	case status >= 500:
		outcome = "server_error"
	case status >= 400:
		outcome = "client_error"
	}
	c.upstreamRequests.WithLabelValues(operation, outcome).Inc()
	c.upstreamLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordSessionEvent(event string) {
	if c == nil {
		return
	}
	c.sessionEvents.WithLabelValues(event).Inc()
}

func (c *Collector) RecordScreenLoad(screen, phase string) {
	if c == nil {
		return
	}
	c.screenLoads.WithLabelValues(screen, phase).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
