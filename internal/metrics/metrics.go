package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acearena_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "acearena_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acearena_bookings_total",
			Help: "Total number of bookings",
		},
		[]string{"status", "payment_method"},
	)

	BookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "acearena_booking_conflicts_total",
			Help: "Total number of booking attempts rejected due to overlap",
		},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "acearena_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	TokenDebitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acearena_token_debits_total",
			Help: "Total number of token pool debits",
		},
		[]string{"outcome"},
	)

	TokenPurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "acearena_token_purchases_total",
			Help: "Total number of token top-up purchases",
		},
	)

	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acearena_redemptions_total",
			Help: "Total number of token redemptions",
		},
		[]string{"category", "outcome"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acearena_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "acearena_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "acearena_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acearena_subscriptions_created_total",
			Help: "Total number of club subscriptions created",
		},
		[]string{"tier"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status, paymentMethod string) {
	BookingsTotal.WithLabelValues(status, paymentMethod).Inc()
}

func RecordBookingConflict() {
	BookingConflictsTotal.Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordTokenDebit(outcome string) {
	TokenDebitsTotal.WithLabelValues(outcome).Inc()
}

func RecordTokenPurchase() {
	TokenPurchasesTotal.Inc()
}

func RecordRedemption(category, outcome string) {
	RedemptionsTotal.WithLabelValues(category, outcome).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

func RecordSubscription(tier string) {
	SubscriptionsCreatedTotal.WithLabelValues(tier).Inc()
}
