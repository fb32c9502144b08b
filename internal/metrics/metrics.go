package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the collectors exported on /metrics. Each instance has its
// own registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Submissions     *prometheus.CounterVec
	Units           *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "endpoint"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listening_submissions_total",
				Help: "Scored submissions by band",
			},
			[]string{"band"},
		),
		Units: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listening_units_total",
				Help: "Graded units by status",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(m.RequestCounter, m.RequestDuration, m.Submissions, m.Units)
	return m
}

// ObserveSubmission records one scored submission.
func (m *Metrics) ObserveSubmission(band, correct, incorrect, unanswered int) {
	m.Submissions.WithLabelValues(strconv.Itoa(band)).Inc()
	m.Units.WithLabelValues("correct").Add(float64(correct))
	m.Units.WithLabelValues("incorrect").Add(float64(incorrect))
	m.Units.WithLabelValues("unanswered").Add(float64(unanswered))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests per route pattern. It must wrap the ServeMux
// directly: the mux fills in r.Pattern on the request it was handed.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
