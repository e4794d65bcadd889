package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DashboardCacheTTL is how long a user's dashboard summary stays cached
	DashboardCacheTTL = 60 * time.Second

	// ActionItemsLimit caps the expenses needing the user's attention on the dashboard
	ActionItemsLimit = 10

	// RecentExpensesLimit caps the recent-activity list on the dashboard
	RecentExpensesLimit = 5

	// maxVersionRetries bounds reload-and-reapply attempts after a concurrent update
	maxVersionRetries = 3
)
