package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "resume_studio"

// metrics holds the collectors exposed on /metrics.
type metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

func newMetrics(reg *prometheus.Registry, activeSessions func() float64) *metrics {
	m := &metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "backend_calls_total",
			Help:      "Backend contract calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "backend_call_duration_seconds",
			Help:      "Backend contract call latency by operation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
	}

	reg.MustRegister(m.requests, m.requestDuration, m.backendCalls, m.backendDuration)
	if activeSessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Editing sessions currently held in memory.",
		}, activeSessions))
	}
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeBackend(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.backendCalls.WithLabelValues(operation, outcome).Inc()
	m.backendDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMetrics records request counts and latency. Routes are labelled by
// their mux pattern so path ids do not create new series.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		s.metrics.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// instrumentedBackend records call outcomes for every contract operation.
type instrumentedBackend struct {
	next    backend.Contract
	metrics *metrics
}

func (b *instrumentedBackend) ValidateResume(ctx context.Context, resume contract.ResumeInput, jobDescription string) (*types.ATSScore, error) {
	start := time.Now()
	score, err := b.next.ValidateResume(ctx, resume, jobDescription)
	b.metrics.observeBackend("validateResume", start, err)
	return score, err
}

func (b *instrumentedBackend) TailorResume(ctx context.Context, resume contract.ResumeInput, jobDescription string) (*types.TailorResponse, error) {
	start := time.Now()
	resp, err := b.next.TailorResume(ctx, resume, jobDescription)
	b.metrics.observeBackend("tailorResume", start, err)
	return resp, err
}

func (b *instrumentedBackend) SaveResume(ctx context.Context, resume contract.ResumeInput, tags []string, version string) (*types.SaveResult, error) {
	start := time.Now()
	res, err := b.next.SaveResume(ctx, resume, tags, version)
	b.metrics.observeBackend("saveResume", start, err)
	return res, err
}

func (b *instrumentedBackend) ListResumes(ctx context.Context, filter *types.ListFilter) ([]types.SavedResume, error) {
	start := time.Now()
	all, err := b.next.ListResumes(ctx, filter)
	b.metrics.observeBackend("listResumes", start, err)
	return all, err
}

func (b *instrumentedBackend) DeleteResume(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	ok, err := b.next.DeleteResume(ctx, id)
	b.metrics.observeBackend("deleteResume", start, err)
	return ok, err
}

// GetResume implements backend.ResumeGetter for any wrapped backend.
func (b *instrumentedBackend) GetResume(ctx context.Context, id string) (*types.SavedResume, error) {
	start := time.Now()
	saved, err := backend.FindResume(ctx, b.next, id)
	b.metrics.observeBackend("getResume", start, err)
	return saved, err
}
