// Package metrics собирает метрики Prometheus: HTTP-запросы, переходы договоров
// и результаты фоновой сверки.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bms"

var (
	// Registry реестр метрик приложения.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	agreementTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agreement_transitions_total",
			Help:      "Agreement status transitions by target status and cascade outcome.",
		},
		[]string{"status", "cascade"},
	)

	tenantResets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_resets_total",
			Help:      "Tenant resets by outcome.",
		},
		[]string{"modified"},
	)

	reconcileRepairs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "repairs_total",
			Help:      "Rows repaired by the reconciliation pass.",
		},
		[]string{"kind"},
	)

	reconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "duration_seconds",
			Help:      "Duration of reconciliation passes.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		agreementTransitions,
		tenantResets,
		reconcileRepairs,
		reconcileDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler отдаёт зарегистрированные метрики.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler считает запросы и их длительность по шаблону маршрута chi.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordAgreementTransition учитывает смену статуса договора.
// cascade: full, partial или none.
func RecordAgreementTransition(status, cascade string) {
	agreementTransitions.WithLabelValues(status, cascade).Inc()
}

// RecordTenantReset учитывает сброс участника.
func RecordTenantReset(modified bool) {
	tenantResets.WithLabelValues(strconv.FormatBool(modified)).Inc()
}

// RecordReconcile учитывает результат прохода сверки.
func RecordReconcile(apartmentsRented, apartmentsReleased, usersPromoted, usersDemoted int, duration time.Duration) {
	reconcileRepairs.WithLabelValues("apartment_rented").Add(float64(apartmentsRented))
	reconcileRepairs.WithLabelValues("apartment_released").Add(float64(apartmentsReleased))
	reconcileRepairs.WithLabelValues("user_promoted").Add(float64(usersPromoted))
	reconcileRepairs.WithLabelValues("user_demoted").Add(float64(usersDemoted))
	reconcileDuration.Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// routePattern возвращает шаблон маршрута, чтобы email и id не раздували кардинальность.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched"
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return "unmatched"
}
