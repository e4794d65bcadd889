package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/domain"
)

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	MemberID string
	PaidBy   string
	Status   domain.ExpenseStatus
	Search   string
	Limit    int
	Offset   int
}

// BalanceSummary aggregates what a user owes and is owed across all open
// expenses.
type BalanceSummary struct {
	YouOwe      decimal.Decimal
	YouAreOwed  decimal.Decimal
	OpenCount   int
	TotalAmount decimal.Decimal
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	// Update persists the expense only if the stored version still matches
	// expense.Version, then increments it. A mismatch returns
	// domain.ErrVersionConflict.
	Update(ctx context.Context, tx Transaction, expense *domain.Expense) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, filter ExpenseFilter) ([]*domain.Expense, error)
	ListAwaitingAction(ctx context.Context, userID string, limit int) ([]*domain.Expense, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Expense, error)
	SummarizeBalances(ctx context.Context, userID string) (*BalanceSummary, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
