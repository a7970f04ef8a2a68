package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookbot-ai/bookbot-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the bot.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	bookingOutcomes *prometheus.CounterVec
	offeredTimes    prometheus.Histogram
	sessionsStarted prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	bookingOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_outcomes_total",
		Help: "Booking attempts by terminal outcome kind",
	}, []string{"kind"})

	offeredTimes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "alternatives_offered",
		Help:    "Number of alternative times offered per busy result",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
	})

	sessionsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_sessions_started_total",
		Help: "Total chat sessions minted",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, bookingOutcomes, offeredTimes, sessionsStarted, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		bookingOutcomes: bookingOutcomes,
		offeredTimes:    offeredTimes,
		sessionsStarted: sessionsStarted,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveBookingOutcome counts a terminal booking result.
func (m *MetricsService) ObserveBookingOutcome(kind models.OutcomeKind) {
	if m == nil {
		return
	}
	m.bookingOutcomes.WithLabelValues(string(kind)).Inc()
}

// ObserveAlternativesOffered records how many alternatives a busy result produced.
func (m *MetricsService) ObserveAlternativesOffered(count int) {
	if m == nil {
		return
	}
	m.offeredTimes.Observe(float64(count))
}

// SessionStarted counts a freshly minted chat session.
func (m *MetricsService) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}
