package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/domain"
)

func TestCreateRejectsUnbalancedSplit(t *testing.T) {
	repo := NewExpenseRepository(nil)

	// A split totalling 70.01 against a 100.00 expense must never reach
	// the insert statement.
	expense := &domain.Expense{
		ID:          "exp-1",
		Title:       "dinner",
		TotalAmount: decimal.RequireFromString("100.00"),
		PaidBy:      "payer",
		Split: []domain.MemberSplit{
			{UserID: "payer", Amount: decimal.RequireFromString("50.00"), Status: domain.MemberStatusPaid},
			{UserID: "alice", Amount: decimal.RequireFromString("0.01"), Status: domain.MemberStatusPending},
			{UserID: "bob", Amount: decimal.RequireFromString("20.00"), Status: domain.MemberStatusPending},
		},
		Status:  domain.ExpenseStatusAwaitingPayment,
		Version: 1,
	}

	err := repo.Create(context.Background(), nil, expense)
	if !errors.Is(err, domain.ErrSplitInvariant) {
		t.Fatalf("Create() = %v, want ErrSplitInvariant", err)
	}
}
