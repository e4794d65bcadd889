package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/infrastructure/metrics"
)

// SplitUseCase handles split allocation operations. Every mutation reloads the
// expense, applies the change, and saves it under the optimistic version
// check, retrying a few times when someone else got there first.
type SplitUseCase struct {
	txManager   TransactionManager
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewSplitUseCase creates a new SplitUseCase.
func NewSplitUseCase(
	txManager TransactionManager,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *SplitUseCase {
	return &SplitUseCase{
		txManager:   txManager,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// SplitEvenly divides the unallocated remainder of the total across members
// without a manual share.
func (uc *SplitUseCase) SplitEvenly(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	return uc.mutate(ctx, actorID, expenseID, "split_evenly", func(e *domain.Expense) error {
		if err := e.SplitEvenly(); err != nil {
			return err
		}
		return e.ValidateSplit()
	})
}

// ResetSplit clears every member's allocation. It is the off position of the
// split-evenly toggle.
func (uc *SplitUseCase) ResetSplit(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	return uc.mutate(ctx, actorID, expenseID, "reset", func(e *domain.Expense) error {
		e.ResetSplit()
		return nil
	})
}

// SetMemberPercentage assigns a member an explicit percentage share.
func (uc *SplitUseCase) SetMemberPercentage(ctx context.Context, actorID, expenseID, userID string, percentage decimal.Decimal) (*domain.Expense, error) {
	return uc.mutate(ctx, actorID, expenseID, "set_percentage", func(e *domain.Expense) error {
		return e.SetMemberPercentage(userID, percentage)
	})
}

// SetMemberAmount assigns a member an explicit amount.
func (uc *SplitUseCase) SetMemberAmount(ctx context.Context, actorID, expenseID, userID string, amount decimal.Decimal) (*domain.Expense, error) {
	return uc.mutate(ctx, actorID, expenseID, "set_amount", func(e *domain.Expense) error {
		return e.SetMemberAmount(userID, amount)
	})
}

// AddAdjustment appends an add-on or deduction to a member's share.
func (uc *SplitUseCase) AddAdjustment(ctx context.Context, actorID, expenseID, userID string, amount decimal.Decimal, kind domain.AdjustmentKind) (*domain.Expense, error) {
	return uc.mutate(ctx, actorID, expenseID, "add_adjustment", func(e *domain.Expense) error {
		return e.AddAdjustment(userID, amount, kind)
	})
}

// RemoveAdjustment drops an add-on or deduction by index.
func (uc *SplitUseCase) RemoveAdjustment(ctx context.Context, actorID, expenseID, userID string, kind domain.AdjustmentKind, index int) (*domain.Expense, error) {
	return uc.mutate(ctx, actorID, expenseID, "remove_adjustment", func(e *domain.Expense) error {
		return e.RemoveAdjustment(userID, kind, index)
	})
}

// RemoveMember drops a member from the split and rebalances evenly. Only the
// payer may remove members.
func (uc *SplitUseCase) RemoveMember(ctx context.Context, actorID, expenseID, userID string) (*domain.Expense, error) {
	return uc.mutate(ctx, actorID, expenseID, "remove_member", func(e *domain.Expense) error {
		if e.PaidBy != actorID {
			return domain.ErrNotPayer
		}
		if err := e.RemoveMember(userID); err != nil {
			return err
		}
		if len(e.Split) == 0 {
			return nil
		}
		return e.ValidateSplit()
	})
}

func (uc *SplitUseCase) mutate(ctx context.Context, actorID, expenseID, operation string, apply func(*domain.Expense) error) (*domain.Expense, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
		if err != nil {
			return nil, err
		}

		if _, err := expense.Member(actorID); err != nil {
			return nil, domain.ErrUnauthorized
		}

		if err := apply(expense); err != nil {
			return nil, err
		}

		if err := uc.save(ctx, expense, operation); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				if uc.metrics != nil {
					uc.metrics.VersionConflicts.Inc()
				}
				lastErr = err
				continue
			}
			return nil, err
		}

		if uc.metrics != nil {
			uc.metrics.SplitOperations.WithLabelValues(operation).Inc()
		}

		uc.invalidateDashboards(ctx, expense)

		return expense, nil
	}

	return nil, lastErr
}

func (uc *SplitUseCase) save(ctx context.Context, expense *domain.Expense, operation string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.expenseRepo.Update(txCtx, tx, expense); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   expense.ID,
		AggregateType: domain.AggregateTypeExpense,
		EventType:     domain.EventTypeSplitUpdated,
		Payload: map[string]any{
			"expense_id": expense.ID,
			"operation":  operation,
		},
		CreatedAt: time.Now().UTC(),
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

func (uc *SplitUseCase) invalidateDashboards(ctx context.Context, expense *domain.Expense) {
	if uc.cache == nil {
		return
	}
	for i := range expense.Split {
		_ = uc.cache.Delete(ctx, DashboardCacheKey(expense.Split[i].UserID))
	}
}
