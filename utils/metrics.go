package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MetricNegotiationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renewals_negotiation_decisions_total",
			Help: "Negotiation decisions taken after a quote rejection",
		},
		[]string{"action", "intent"},
	)

	MetricQuotesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "renewals_quotes_created_total",
			Help: "Quote versions written to the ledger, by discount source",
		},
		[]string{"source"},
	)

	MetricClassifierFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "renewals_intent_classifier_fallbacks_total",
			Help: "Rejection reasons classified by keywords because the model was unavailable",
		},
	)

	MetricScoringLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "renewals_scoring_duration_seconds",
			Help:    "Time to score a batch of assets",
			Buckets: prometheus.DefBuckets,
		},
	)
)
