package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/infrastructure/metrics"
)

// ExpenseUseCase handles expense lifecycle business logic.
type ExpenseUseCase struct {
	txManager   TransactionManager
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// SplitMemberInput is one member's share as submitted by the client.
type SplitMemberInput struct {
	UserID          string
	Amount          decimal.Decimal
	SplitPercentage decimal.Decimal
	AddOns          []decimal.Decimal
	Deductions      []decimal.Decimal
}

// CreateExpenseInput represents input for creating an expense.
type CreateExpenseInput struct {
	Title       string
	Description string
	TotalAmount decimal.Decimal
	PaidBy      string
	Members     []SplitMemberInput
	ReceiptURLs []string
}

// CreateExpense creates an expense with its full split. The creator must be
// part of the split.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, actorID string, input CreateExpenseInput) (*domain.Expense, error) {
	start := time.Now()

	if err := domain.ValidateTotalAmount(input.TotalAmount); err != nil {
		return nil, err
	}

	receipts := domain.DedupeReceiptURLs(input.ReceiptURLs)
	if err := domain.ValidateReceiptURLs(receipts); err != nil {
		return nil, err
	}

	split := make([]domain.MemberSplit, 0, len(input.Members))
	isMember := false
	for _, m := range input.Members {
		if m.UserID == actorID {
			isMember = true
		}
		split = append(split, domain.MemberSplit{
			UserID:          m.UserID,
			Amount:          m.Amount,
			SplitPercentage: m.SplitPercentage,
			AddOns:          m.AddOns,
			Deductions:      m.Deductions,
		})
	}
	if !isMember {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	expense, err := domain.NewExpense(uc.idGen.Generate(), input.Title, input.Description, input.TotalAmount, input.PaidBy, split, now)
	if err != nil {
		return nil, err
	}
	expense.ReceiptURLs = receipts

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.expenseRepo.Create(txCtx, tx, expense); err != nil {
		return nil, err
	}

	memberIDs := make([]string, 0, len(expense.Split))
	for i := range expense.Split {
		memberIDs = append(memberIDs, expense.Split[i].UserID)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   expense.ID,
		AggregateType: domain.AggregateTypeExpense,
		EventType:     domain.EventTypeExpenseCreated,
		Payload: map[string]any{
			"expense_id":   expense.ID,
			"title":        expense.Title,
			"total_amount": expense.TotalAmount.String(),
			"paid_by":      expense.PaidBy,
			"member_ids":   memberIDs,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateDashboards(ctx, expense)

	if uc.metrics != nil {
		uc.metrics.ExpensesCreated.Inc()
		amount, _ := expense.TotalAmount.Float64()
		uc.metrics.ExpenseAmount.Observe(amount)
		uc.metrics.ExpenseDuration.Observe(time.Since(start).Seconds())
	}

	return expense, nil
}

// GetExpense retrieves an expense. Only split members may view it.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, actorID, id string) (*domain.Expense, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := expense.Member(actorID); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return expense, nil
}

// UpdateExpenseInput represents input for updating an expense.
type UpdateExpenseInput struct {
	ID          string
	Title       string
	Description string
	TotalAmount decimal.Decimal
	Members     []SplitMemberInput
	ReceiptURLs []string
}

// UpdateExpense replaces an expense's details and split. Only the payer may
// edit. Members that survive the edit keep their settlement status; new
// members start pending.
func (uc *ExpenseUseCase) UpdateExpense(ctx context.Context, actorID string, input UpdateExpenseInput) (*domain.Expense, error) {
	existing, err := uc.expenseRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if existing.PaidBy != actorID {
		return nil, domain.ErrNotPayer
	}

	if err := domain.ValidateTotalAmount(input.TotalAmount); err != nil {
		return nil, err
	}

	receipts := domain.DedupeReceiptURLs(input.ReceiptURLs)
	if err := domain.ValidateReceiptURLs(receipts); err != nil {
		return nil, err
	}

	statuses := make(map[string]domain.MemberStatus, len(existing.Split))
	for i := range existing.Split {
		statuses[existing.Split[i].UserID] = existing.Split[i].Status
	}

	split := make([]domain.MemberSplit, 0, len(input.Members))
	for _, m := range input.Members {
		split = append(split, domain.MemberSplit{
			UserID:          m.UserID,
			Amount:          m.Amount,
			SplitPercentage: m.SplitPercentage,
			Status:          statuses[m.UserID],
			AddOns:          m.AddOns,
			Deductions:      m.Deductions,
		})
	}

	now := time.Now().UTC()
	updated, err := domain.NewExpense(existing.ID, input.Title, input.Description, input.TotalAmount, existing.PaidBy, split, existing.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated.ReceiptURLs = receipts
	updated.Version = existing.Version
	updated.UpdatedAt = now

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.expenseRepo.Update(txCtx, tx, updated); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   updated.ID,
		AggregateType: domain.AggregateTypeExpense,
		EventType:     domain.EventTypeExpenseUpdated,
		Payload: map[string]any{
			"expense_id":   updated.ID,
			"total_amount": updated.TotalAmount.String(),
			"status":       string(updated.Status),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateDashboards(ctx, existing)
	uc.invalidateDashboards(ctx, updated)

	if uc.metrics != nil {
		uc.metrics.ExpensesUpdated.Inc()
	}

	return updated, nil
}

// DeleteExpense removes an expense. Only the payer may delete.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, actorID, id string) error {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if expense.PaidBy != actorID {
		return domain.ErrNotPayer
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.expenseRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   expense.ID,
		AggregateType: domain.AggregateTypeExpense,
		EventType:     domain.EventTypeExpenseDeleted,
		Payload: map[string]any{
			"expense_id": expense.ID,
			"paid_by":    expense.PaidBy,
		},
		CreatedAt: time.Now().UTC(),
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	uc.invalidateDashboards(ctx, expense)

	if uc.metrics != nil {
		uc.metrics.ExpensesDeleted.Inc()
	}

	return nil
}

// ListExpenses lists expenses the user participates in.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, actorID string, filter ExpenseFilter) ([]*domain.Expense, error) {
	filter.MemberID = actorID
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.expenseRepo.List(ctx, filter)
}

// invalidateDashboards drops the cached dashboard summary of every split
// member. Cache misses just cause a recompute, so failures are only logged.
func (uc *ExpenseUseCase) invalidateDashboards(ctx context.Context, expense *domain.Expense) {
	if uc.cache == nil {
		return
	}
	for i := range expense.Split {
		_ = uc.cache.Delete(ctx, DashboardCacheKey(expense.Split[i].UserID))
	}
}

// DashboardCacheKey is the cache key for a user's dashboard summary.
func DashboardCacheKey(userID string) string {
	return fmt.Sprintf("dashboard:%s", userID)
}
