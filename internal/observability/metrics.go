package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tes_tour", Name: "bookings_created_total", Help: "Bookings created"})

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tes_tour", Name: "booking_transitions_total", Help: "Booking status transitions applied"},
		[]string{"to"},
	)
	PaymentVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tes_tour", Name: "payment_verifications_total", Help: "Payment verification outcomes"},
		[]string{"result"},
	)
	RefundRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tes_tour", Name: "refund_requests_total", Help: "Refund request outcomes"},
		[]string{"result"},
	)
	ChangeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tes_tour", Name: "change_requests_total", Help: "Change request decisions"},
		[]string{"decision"},
	)
	RatingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tes_tour", Name: "ratings_submitted_total", Help: "Ratings submitted"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tes_tour", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tes_tour",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
