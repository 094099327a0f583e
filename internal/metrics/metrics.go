// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_built_total",
			Help: "Total number of grade reports built",
		},
		[]string{"course"},
	)

	OrphanSubmissions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orphan_submissions",
			Help: "Submissions that matched no student in the latest report",
		},
		[]string{"course", "assignment"},
	)

	StudentTotalHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "student_total_points",
			Help:    "Distribution of per-student report totals",
			Buckets: prometheus.LinearBuckets(0, 20, 10),
		},
		[]string{"course"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
