// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	RankedFactories = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_shortlist_size",
			Help:    "Number of factories returned per ranking call",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"tier"},
	)

	DuplicateScanProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "duplicate_scan_progress_ratio",
			Help: "Progress of the running duplicate scan (processed/total)",
		},
		[]string{"scan_id"},
	)

	DuplicateGroupsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duplicate_groups_found_total",
			Help: "Total duplicate groups emitted by completed scans",
		},
		[]string{"reason"},
	)
)
