package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/infrastructure/metrics"
)

// SettlementUseCase handles the member payment state machine: members flag
// their share as handed over, the payer confirms or revokes receipt.
type SettlementUseCase struct {
	txManager   TransactionManager
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:   txManager,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// MarkPaid toggles the actor's own share between pending and awaiting
// confirmation.
func (uc *SettlementUseCase) MarkPaid(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	expense, err := uc.transition(ctx, expenseID, domain.EventTypeMemberMarkedPaid, actorID, actorID, func(e *domain.Expense) error {
		return e.MarkPaid(actorID)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsMarked.Inc()
	}

	return expense, nil
}

// ConfirmReceived records that the payer received a member's share.
func (uc *SettlementUseCase) ConfirmReceived(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error) {
	expense, err := uc.transition(ctx, expenseID, domain.EventTypePaymentConfirmed, actorID, memberID, func(e *domain.Expense) error {
		return e.ConfirmReceived(actorID, memberID)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsConfirmed.Inc()
	}

	return expense, nil
}

// RevokeConfirmation withdraws a previous confirmation, reopening the
// member's share.
func (uc *SettlementUseCase) RevokeConfirmation(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error) {
	expense, err := uc.transition(ctx, expenseID, domain.EventTypeConfirmationRevoked, actorID, memberID, func(e *domain.Expense) error {
		return e.RevokeConfirmation(actorID, memberID)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRevoked.Inc()
	}

	return expense, nil
}

func (uc *SettlementUseCase) transition(ctx context.Context, expenseID, eventType, actorID, memberID string, apply func(*domain.Expense) error) (*domain.Expense, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
		if err != nil {
			return nil, err
		}

		wasCompleted := expense.Status == domain.ExpenseStatusCompleted

		if err := apply(expense); err != nil {
			return nil, err
		}

		if err := uc.save(ctx, expense, eventType, actorID, memberID, wasCompleted); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				if uc.metrics != nil {
					uc.metrics.VersionConflicts.Inc()
				}
				lastErr = err
				continue
			}
			return nil, err
		}

		if uc.cache != nil {
			for i := range expense.Split {
				_ = uc.cache.Delete(ctx, DashboardCacheKey(expense.Split[i].UserID))
			}
		}

		if expense.Status == domain.ExpenseStatusCompleted && !wasCompleted && uc.metrics != nil {
			uc.metrics.ExpensesCompleted.Inc()
		}

		return expense, nil
	}

	return nil, lastErr
}

func (uc *SettlementUseCase) save(ctx context.Context, expense *domain.Expense, eventType, actorID, memberID string, wasCompleted bool) error {
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

	now := time.Now().UTC()

	member, err := expense.Member(memberID)
	if err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   expense.ID,
		AggregateType: domain.AggregateTypeExpense,
		EventType:     eventType,
		Payload: map[string]any{
			"expense_id":    expense.ID,
			"member_id":     memberID,
			"actor_id":      actorID,
			"member_status": string(member.Status),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	if expense.Status == domain.ExpenseStatusCompleted && !wasCompleted {
		completed := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseCompleted,
			Payload: map[string]any{
				"expense_id":   expense.ID,
				"total_amount": expense.TotalAmount.String(),
				"paid_by":      expense.PaidBy,
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, completed); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}
