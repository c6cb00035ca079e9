// Package metrics owns the prometheus registry for the process and the counters the
// commands pipeline reports
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ganadero"

// Registry groups the collectors; a nil *Registry is a valid no op
type Registry struct {
	reg *prometheus.Registry

	parsed     *prometheus.CounterVec
	confirmed  *prometheus.CounterVec
	violations *prometheus.CounterVec
	requests   *prometheus.HistogramVec
}

// New builds a private registry with go and process collectors
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		parsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_parsed_total",
			Help:      "Parsed commands by recognized intent.",
		}, []string{"intent"}),
		confirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_confirmed_total",
			Help:      "Confirm attempts by intent and outcome.",
		}, []string{"intent", "outcome"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Business rule violations raised at confirm time.",
		}, []string{"code"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.parsed, r.confirmed, r.violations, r.requests,
	)
	return r
}

// Parsed counts one parse
func (r *Registry) Parsed(intent string) {
	if r == nil {
		return
	}
	r.parsed.WithLabelValues(intent).Inc()
}

// Confirmed counts one confirm attempt, outcome is applied, recorded or rejected
func (r *Registry) Confirmed(intent, outcome string) {
	if r == nil {
		return
	}
	r.confirmed.WithLabelValues(intent, outcome).Inc()
}

// Violation counts one rule violation code
func (r *Registry) Violation(code string) {
	if r == nil {
		return
	}
	r.violations.WithLabelValues(code).Inc()
}

// Handler exposes the registry in the prometheus text format
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Middleware observes request latency labelled by the chi route pattern so
// path parameters do not explode label cardinality
func (r *Registry) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, req)

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		r.requests.WithLabelValues(req.Method, route, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
