package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
	OutcomeMock  = "mock"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	UpstreamRequests  *prometheus.CounterVec
	AdvisorSelections *prometheus.CounterVec
	PackagesAssembled *prometheus.CounterVec
	Bookings          *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry(); main passes prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Calls to flight, hotel, weather and advisor providers",
		}, []string{"provider", "outcome"}),
		AdvisorSelections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisor_selections_total",
			Help:      "Package selections by tier and advisor outcome",
		}, []string{"tier", "outcome"}),
		PackagesAssembled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packages_assembled_total",
			Help:      "Trip packages assembled",
		}, []string{"tier", "degraded"}),
		Bookings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking lifecycle operations",
		}, []string{"action", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Nop returns metrics registered on a throwaway registry.
func Nop() *Metrics {
	return NewMetrics("takemeto75", prometheus.NewRegistry())
}

func (m *Metrics) Upstream(provider, outcome string) {
	m.UpstreamRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) Advisor(tier, outcome string) {
	m.AdvisorSelections.WithLabelValues(tier, outcome).Inc()
}

func (m *Metrics) Package(tier string, degraded bool) {
	m.PackagesAssembled.WithLabelValues(tier, strconv.FormatBool(degraded)).Inc()
}

func (m *Metrics) Booking(action, outcome string) {
	m.Bookings.WithLabelValues(action, outcome).Inc()
}

// GinMiddleware observes latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
