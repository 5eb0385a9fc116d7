package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "celebstash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "celebstash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BidsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "celebstash_bids_total",
			Help: "Total number of bid attempts",
		},
		[]string{"result"},
	)

	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "celebstash_auction_settlements_total",
			Help: "Total number of auction settlements",
		},
		[]string{"result"},
	)

	SettlementRefundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "celebstash_settlement_refunds_total",
			Help: "Total number of losing reservations refunded at settlement",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "celebstash_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	PurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "celebstash_purchases_total",
			Help: "Total number of immediate product purchases",
		},
	)

	OTPIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "celebstash_otp_issued_total",
			Help: "Total number of OTP codes issued",
		},
	)

	OTPVerifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "celebstash_otp_verified_total",
			Help: "Total number of OTP verification attempts",
		},
		[]string{"result"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "celebstash_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "celebstash_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBid(result string) {
	BidsTotal.WithLabelValues(result).Inc()
}

func RecordSettlement(result string) {
	SettlementsTotal.WithLabelValues(result).Inc()
}

func RecordSettlementRefunds(n int) {
	SettlementRefundsTotal.Add(float64(n))
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

func RecordPurchase() {
	PurchasesTotal.Inc()
}

func RecordOTPIssued() {
	OTPIssuedTotal.Inc()
}

func RecordOTPVerified(result string) {
	OTPVerifiedTotal.WithLabelValues(result).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
