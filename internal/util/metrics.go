package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersFinalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_finalized_total",
		Help: "Total number of orders finalized from confirmed payments",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order finalizations",
	}, []string{"reason"})

	UnitsSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "units_sold_total",
		Help: "Total number of product units marked sold",
	})

	BatchesReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "batches_received_total",
		Help: "Total number of inventory batches received",
	})

	UnitsMintedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "units_minted_total",
		Help: "Total number of product units minted from batch intake",
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Payment webhook events by outcome",
	}, []string{"outcome"})

	CheckoutSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_total",
		Help: "Checkout session creations by outcome",
	}, []string{"outcome"})

	CouponValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_validations_total",
		Help: "Coupon validation attempts by outcome",
	}, []string{"outcome"})

	OrderFinalizeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_finalize_latency_seconds",
		Help:    "Latency of webhook order finalization",
		Buckets: prometheus.DefBuckets,
	})

	BatchIntakeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "batch_intake_latency_seconds",
		Help:    "Latency of batch intake transactions",
		Buckets: prometheus.DefBuckets,
	})

	EmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Notification emails by kind and outcome",
	}, []string{"kind", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
