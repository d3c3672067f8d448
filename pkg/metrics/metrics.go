package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "faqhub", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "faqhub", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	// CacheRequests counts projection cache lookups by result: hit, miss or error.
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "faqhub", Name: "cache_requests_total", Help: "Projection cache lookups by result."},
		[]string{"result"},
	)
	TranslationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "faqhub", Name: "translation_failures_total", Help: "Failed translation calls by target language and field."},
		[]string{"lang", "field"},
	)
	TranslationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "faqhub", Name: "translation_duration_seconds", Help: "Latency of single translation provider calls.", Buckets: prometheus.DefBuckets},
	)
	FAQOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "faqhub", Name: "faq_operations_total", Help: "FAQ manager operations by kind and outcome."},
		[]string{"op", "outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(CacheRequests)
	reg.MustRegister(TranslationFailures)
	reg.MustRegister(TranslationDuration)
	reg.MustRegister(FAQOperations)
}
