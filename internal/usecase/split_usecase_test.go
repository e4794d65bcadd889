package usecase_test

import (
	"context"
	"testing"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/usecase"
	"github.com/amotify/amotify/internal/usecase/mocks"
)

func newSplitUseCase(repo *mocks.MockExpenseRepository, outbox *mocks.MockOutboxRepository) *usecase.SplitUseCase {
	return usecase.NewSplitUseCase(
		mocks.NewMockTransactionManager(),
		repo,
		outbox,
		mocks.NewMockCache(),
		mocks.NewMockIDGenerator(),
		nil,
	)
}

func TestSplitUseCase_SplitEvenly(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	outbox := mocks.NewMockOutboxRepository()
	uc := newSplitUseCase(repo, outbox)
	seedExpense(t, repo, "exp-1")

	expense, err := uc.SplitEvenly(context.Background(), "alice", "exp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !expense.SplitTotal().Equal(dec("100.00")) {
		t.Errorf("split total = %s, want 100.00", expense.SplitTotal())
	}

	events := outbox.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTypeSplitUpdated {
		t.Fatalf("expected one %s event, got %v", domain.EventTypeSplitUpdated, events)
	}
	if events[0].Payload["operation"] != "split_evenly" {
		t.Errorf("event operation = %v, want split_evenly", events[0].Payload["operation"])
	}
}

func TestSplitUseCase_NonMemberCannotEdit(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	uc := newSplitUseCase(repo, mocks.NewMockOutboxRepository())
	seedExpense(t, repo, "exp-1")

	if _, err := uc.SplitEvenly(context.Background(), "stranger", "exp-1"); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSplitUseCase_SetMemberAmount(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	uc := newSplitUseCase(repo, mocks.NewMockOutboxRepository())
	seedExpense(t, repo, "exp-1")

	expense, err := uc.SetMemberAmount(context.Background(), "alice", "exp-1", "alice", dec("45.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alice, _ := expense.Member("alice")
	if !alice.Amount.Equal(dec("45.00")) {
		t.Errorf("amount = %s, want 45.00", alice.Amount)
	}
	if !alice.SplitPercentage.Equal(dec("45.00")) {
		t.Errorf("percentage = %s, want 45.00", alice.SplitPercentage)
	}
}

func TestSplitUseCase_SetMemberAmountPersistsPartialAllocation(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	uc := newSplitUseCase(repo, mocks.NewMockOutboxRepository())
	seedExpense(t, repo, "exp-1")

	// Lowering one member's share mid-edit leaves the split under-allocated.
	// Interactive editing saves that intermediate state as is.
	if _, err := uc.SetMemberAmount(context.Background(), "alice", "exp-1", "alice", dec("0.01")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := repo.GetByID(context.Background(), "exp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved.SplitTotal().Equal(dec("70.01")) {
		t.Errorf("persisted split total = %s, want 70.01", saved.SplitTotal())
	}
}

func TestSplitUseCase_SetMemberPercentageOverflow(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	uc := newSplitUseCase(repo, mocks.NewMockOutboxRepository())
	seedExpense(t, repo, "exp-1")

	if _, err := uc.SetMemberPercentage(context.Background(), "payer", "exp-1", "payer", dec("80")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := uc.SetMemberPercentage(context.Background(), "alice", "exp-1", "alice", dec("30"))
	if err != domain.ErrPercentageOverflow {
		t.Fatalf("expected ErrPercentageOverflow, got %v", err)
	}
}

func TestSplitUseCase_RemoveMember(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	uc := newSplitUseCase(repo, mocks.NewMockOutboxRepository())
	seedExpense(t, repo, "exp-1")

	expense, err := uc.RemoveMember(context.Background(), "payer", "exp-1", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(expense.Split) != 2 {
		t.Fatalf("expected 2 members, got %d", len(expense.Split))
	}
	if !expense.SplitTotal().Equal(dec("100.00")) {
		t.Errorf("split total = %s, want 100.00", expense.SplitTotal())
	}
}

func TestSplitUseCase_RemoveMemberRequiresPayer(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	uc := newSplitUseCase(repo, mocks.NewMockOutboxRepository())
	seedExpense(t, repo, "exp-1")

	if _, err := uc.RemoveMember(context.Background(), "alice", "exp-1", "bob"); err != domain.ErrNotPayer {
		t.Fatalf("expected ErrNotPayer, got %v", err)
	}

	saved, err := repo.GetByID(context.Background(), "exp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved.Split) != 3 {
		t.Errorf("expected 3 members after refused removal, got %d", len(saved.Split))
	}
}

func TestSplitUseCase_VersionConflictRetries(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	uc := newSplitUseCase(repo, mocks.NewMockOutboxRepository())
	seedExpense(t, repo, "exp-1")

	attempts := 0
	repo.UpdateFunc = func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
		attempts++
		return domain.ErrVersionConflict
	}

	_, err := uc.SplitEvenly(context.Background(), "alice", "exp-1")
	if err != domain.ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestSplitUseCase_AddAdjustment(t *testing.T) {
	repo := mocks.NewMockExpenseRepository()
	uc := newSplitUseCase(repo, mocks.NewMockOutboxRepository())
	seedExpense(t, repo, "exp-1")

	expense, err := uc.AddAdjustment(context.Background(), "alice", "exp-1", "alice", dec("5.00"), domain.AdjustmentAddOn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alice, _ := expense.Member("alice")
	if len(alice.AddOns) != 1 || !alice.AddOns[0].Equal(dec("5.00")) {
		t.Errorf("add-ons = %v, want one of 5.00", alice.AddOns)
	}
}
