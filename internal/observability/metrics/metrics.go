// Package metrics exposes the prometheus instruments for the booking
// engine: HTTP server metrics and booking-core counters.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics instruments inbound HTTP requests.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reserva",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reserva",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	prometheus.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware records per-request metrics.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// BookingMetrics counts booking-core outcomes.
type BookingMetrics struct {
	created          prometheus.Counter
	cancelled        prometheus.Counter
	overlapRejected  prometheus.Counter
	availabilityTime prometheus.Histogram
}

// NewBookingMetrics registers the booking instruments on the default registry.
func NewBookingMetrics() *BookingMetrics {
	m := &BookingMetrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reserva",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Bookings committed.",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reserva",
			Subsystem: "booking",
			Name:      "cancelled_total",
			Help:      "Bookings cancelled.",
		}),
		overlapRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reserva",
			Subsystem: "booking",
			Name:      "overlap_rejected_total",
			Help:      "Booking attempts rejected because the slot was taken.",
		}),
		availabilityTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reserva",
			Subsystem: "booking",
			Name:      "availability_duration_seconds",
			Help:      "Availability query latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	prometheus.MustRegister(m.created, m.cancelled, m.overlapRejected, m.availabilityTime)
	return m
}

func (m *BookingMetrics) RecordCreated() {
	if m == nil {
		return
	}
	m.created.Inc()
}

func (m *BookingMetrics) RecordCancelled() {
	if m == nil {
		return
	}
	m.cancelled.Inc()
}

func (m *BookingMetrics) RecordOverlapRejected() {
	if m == nil {
		return
	}
	m.overlapRejected.Inc()
}

func (m *BookingMetrics) ObserveAvailability(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.availabilityTime.Observe(elapsed.Seconds())
}
