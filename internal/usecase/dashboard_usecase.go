package usecase

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/infrastructure/metrics"
)

// DashboardUseCase assembles the per-user overview: aggregate balances, the
// expenses that need the user's attention, and recent activity.
type DashboardUseCase struct {
	expenseRepo ExpenseRepository
	cache       Cache
	metrics     *metrics.Metrics
}

// NewDashboardUseCase creates a new DashboardUseCase.
func NewDashboardUseCase(expenseRepo ExpenseRepository, cache Cache, metrics *metrics.Metrics) *DashboardUseCase {
	return &DashboardUseCase{
		expenseRepo: expenseRepo,
		cache:       cache,
		metrics:     metrics,
	}
}

// Dashboard is a user's full dashboard view.
type Dashboard struct {
	YouOwe      decimal.Decimal
	YouAreOwed  decimal.Decimal
	OpenCount   int
	ActionItems []*domain.Expense
	Recent      []*domain.Expense
}

// GetDashboard returns the user's dashboard, served from cache when fresh.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	key := DashboardCacheKey(userID)

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
			var d Dashboard
			if err := json.Unmarshal(cached, &d); err == nil {
				if uc.metrics != nil {
					uc.metrics.DashboardCacheHits.Inc()
				}
				return &d, nil
			}
		}
	}

	summary, err := uc.expenseRepo.SummarizeBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	actionItems, err := uc.expenseRepo.ListAwaitingAction(ctx, userID, ActionItemsLimit)
	if err != nil {
		return nil, err
	}

	recent, err := uc.expenseRepo.ListRecent(ctx, userID, RecentExpensesLimit)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		YouOwe:      summary.YouOwe,
		YouAreOwed:  summary.YouAreOwed,
		OpenCount:   summary.OpenCount,
		ActionItems: actionItems,
		Recent:      recent,
	}

	if uc.cache != nil {
		if data, err := json.Marshal(d); err == nil {
			_ = uc.cache.Set(ctx, key, data, DashboardCacheTTL)
		}
		if uc.metrics != nil {
			uc.metrics.DashboardCacheMisses.Inc()
		}
	}

	return d, nil
}
