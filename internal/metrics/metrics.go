package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BookingsCreated counts committed bookings
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "busly",
			Name:      "bookings_created_total",
			Help:      "The total number of confirmed bookings created",
		},
	)

	// SeatConflicts counts creation attempts rejected because a seat was taken
	SeatConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "busly",
			Name:      "seat_conflicts_total",
			Help:      "The total number of booking attempts rejected for seat conflicts",
		},
		[]string{"stage"}, // precheck | constraint | lock
	)

	BookingsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "busly",
			Name:      "bookings_cancelled_total",
			Help:      "The total number of cancelled bookings by refund tier",
		},
		[]string{"refund_percentage"},
	)

	RefundAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "busly",
			Name:      "refund_amount_total",
			Help:      "Sum of refund amounts granted on cancellation",
		},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "busly",
			Name:      "notification_failures_total",
			Help:      "The total number of notifications that could not be queued or delivered",
		},
		[]string{"type", "stage"},
	)

	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "busly",
			Name:      "notifications_delivered_total",
			Help:      "The total number of notifications handed to the email sender",
		},
		[]string{"type"},
	)

	BookingCreateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "busly",
			Name:      "booking_create_duration_seconds",
			Help:      "Time spent creating a booking, including lock wait",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
