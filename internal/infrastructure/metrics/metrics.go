package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Expense metrics
	ExpensesCreated   prometheus.Counter
	ExpensesUpdated   prometheus.Counter
	ExpensesDeleted   prometheus.Counter
	ExpensesCompleted prometheus.Counter
	ExpenseAmount     prometheus.Histogram
	ExpenseDuration   prometheus.Histogram
	ExpenseErrors     *prometheus.CounterVec

	// Split metrics
	SplitOperations  *prometheus.CounterVec
	VersionConflicts prometheus.Counter

	// Settlement metrics
	PaymentsMarked    prometheus.Counter
	PaymentsConfirmed prometheus.Counter
	PaymentsRevoked   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations      *prometheus.CounterVec
	RedisErrors          *prometheus.CounterVec
	DashboardCacheHits   prometheus.Counter
	DashboardCacheMisses prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ExpensesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_expenses_created_total",
			Help: "Total number of expenses created",
		}),
		ExpensesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_expenses_updated_total",
			Help: "Total number of expenses updated",
		}),
		ExpensesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		}),
		ExpensesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_expenses_completed_total",
			Help: "Total number of expenses fully settled",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "amotify_expense_amount",
			Help:    "Expense total amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000, 100000},
		}),
		ExpenseDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "amotify_expense_duration_seconds",
			Help:    "Duration of expense operations",
			Buckets: prometheus.DefBuckets,
		}),
		ExpenseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_expense_errors_total",
				Help: "Total number of expense errors by type",
			},
			[]string{"error_type"},
		),

		SplitOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_split_operations_total",
				Help: "Total split operations by type",
			},
			[]string{"operation"},
		),
		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_version_conflicts_total",
			Help: "Total optimistic concurrency conflicts",
		}),

		PaymentsMarked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_payments_marked_total",
			Help: "Total member payments marked",
		}),
		PaymentsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_payments_confirmed_total",
			Help: "Total member payments confirmed by the payer",
		}),
		PaymentsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_payments_revoked_total",
			Help: "Total payment confirmations revoked",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "amotify_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "amotify_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "amotify_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
		DashboardCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_dashboard_cache_hits_total",
			Help: "Dashboard summaries served from cache",
		}),
		DashboardCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "amotify_dashboard_cache_misses_total",
			Help: "Dashboard summaries recomputed from the database",
		}),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_events_published_total",
				Help: "Total outbox events published",
			},
			[]string{"event_type"},
		),
		EventsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "amotify_events_failed_total",
				Help: "Total outbox events that failed to publish",
			},
			[]string{"event_type"},
		),
	}
}
