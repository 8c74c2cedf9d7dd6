package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reconciliation and matching metrics. Registered on the default registry
// and served by the /metrics route.
var (
	ReconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_runs_total",
			Help: "Reconciliation passes, labeled by outcome",
		},
		[]string{"result"}, // ok | partial | error
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconcile_duration_seconds",
			Help:    "Duration of a single reconciliation pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	AffectedUsersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_affected_users_total",
			Help: "Users found inside an emergency radius across all passes",
		},
	)

	StatusUpsertFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "status_upsert_failures_total",
			Help: "Per-user status writes that failed during reconciliation",
		},
	)

	GeomatchPathTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geomatch_path_total",
			Help: "Distance computations by path taken",
		},
		[]string{"path"}, // haversine | postal | unavailable
	)
)
