// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for the service.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  prometheus.Histogram

	usersTotal     prometheus.Gauge
	moviesTotal    prometheus.Gauge
	favoritesTotal prometheus.Gauge
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myflix_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "myflix_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		usersTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "myflix_users_total",
			Help: "Number of registered users.",
		}),
		moviesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "myflix_movies_total",
			Help: "Number of catalog entries.",
		}),
		favoritesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "myflix_favorites_total",
			Help: "Number of favorite-movie memberships across all users.",
		}),
	}

	c.registry.MustRegister(c.httpRequests, c.httpLatency,
		c.usersTotal, c.moviesTotal, c.favoritesTotal)
	return c
}

// SetCatalogStats updates the gauges refreshed by the background stat
// updater.
func (c *Collector) SetCatalogStats(users, movies, favorites int) {
	c.usersTotal.Set(float64(users))
	c.moviesTotal.Set(float64(movies))
	c.favoritesTotal.Set(float64(favorites))
}

// Handler returns the /metrics endpoint handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status code for labeling.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency. Uses the chi route
// pattern as the label so path parameters do not explode cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		c.httpLatency.Observe(time.Since(start).Seconds())
	})
}
