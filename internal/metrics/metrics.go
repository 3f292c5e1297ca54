// internal/metrics/metrics.go

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tenant_otp",
			Name:      "request_duration_seconds",
			Help:      "Time taken to process request",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint", "status"},
	)

	OTPIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenant_otp",
			Name:      "issued_total",
			Help:      "Total number of OTPs issued",
		},
		[]string{"status"},
	)

	OTPValidationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenant_otp",
			Name:      "validation_total",
			Help:      "Total number of OTP validation attempts",
		},
		[]string{"status"},
	)

	DeliveryFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenant_otp",
			Name:      "delivery_failures_total",
			Help:      "Passcode delivery failures by channel",
		},
		[]string{"channel"},
	)

	ReapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tenant_otp",
			Name:      "reaped_total",
			Help:      "Total number of expired OTP records purged",
		},
	)

	ReaperFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tenant_otp",
			Name:      "reaper_failures_total",
			Help:      "Reaper invocations that ended in a store failure",
		},
	)

	CacheFlushTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tenant_otp",
			Name:      "cache_flush_total",
			Help:      "Tenant cache namespace flushes",
		},
	)
)

// RecordRequest records the duration of an HTTP request
func RecordRequest(method, endpoint, status string, start time.Time) {
	RequestDuration.WithLabelValues(method, endpoint, status).
		Observe(time.Since(start).Seconds())
}

// RecordIssue records an OTP issuance attempt
func RecordIssue(success bool) {
	OTPIssuedTotal.WithLabelValues(outcome(success)).Inc()
}

// RecordValidation records an OTP validation attempt
func RecordValidation(valid bool) {
	OTPValidationTotal.WithLabelValues(outcome(valid)).Inc()
}

// RecordDeliveryFailure records a channel delivery failure
func RecordDeliveryFailure(channel string) {
	DeliveryFailuresTotal.WithLabelValues(channel).Inc()
}

// RecordReap records the outcome of one reaper invocation
func RecordReap(count int64, err error) {
	if err != nil {
		ReaperFailuresTotal.Inc()
		return
	}
	ReapedTotal.Add(float64(count))
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
