package domain

import (
	"errors"
	"strings"
	"testing"
)

func newSettledExpense() *Expense {
	e := newTestExpense("90.00", "payer", "alice", "bob")
	if err := e.SplitEvenly(); err != nil {
		panic(err)
	}
	return e
}

func TestExpense_MarkPaid(t *testing.T) {
	t.Run("toggles pending and awaiting confirmation", func(t *testing.T) {
		e := newSettledExpense()

		if err := e.MarkPaid("alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, _ := e.Member("alice"); got.Status != MemberStatusAwaitingConfirmation {
			t.Errorf("status = %s, want %s", got.Status, MemberStatusAwaitingConfirmation)
		}

		if err := e.MarkPaid("alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, _ := e.Member("alice"); got.Status != MemberStatusPending {
			t.Errorf("status = %s, want %s", got.Status, MemberStatusPending)
		}
	})

	t.Run("refuses a paid member", func(t *testing.T) {
		e := newSettledExpense()

		err := e.MarkPaid("payer")
		if !errors.Is(err, ErrInvalidStatusChange) {
			t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
		}
		if !strings.Contains(err.Error(), "current status is: PAID") {
			t.Errorf("error %q does not name the current status", err)
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		e := newSettledExpense()
		if err := e.MarkPaid("ghost"); err != ErrMemberNotFound {
			t.Fatalf("expected ErrMemberNotFound, got %v", err)
		}
	})
}

func TestExpense_ConfirmReceived(t *testing.T) {
	t.Run("payer confirms an awaiting member", func(t *testing.T) {
		e := newSettledExpense()
		if err := e.MarkPaid("alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := e.ConfirmReceived("payer", "alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, _ := e.Member("alice"); got.Status != MemberStatusPaid {
			t.Errorf("status = %s, want %s", got.Status, MemberStatusPaid)
		}
	})

	t.Run("only the payer may confirm", func(t *testing.T) {
		e := newSettledExpense()
		if err := e.MarkPaid("alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := e.ConfirmReceived("bob", "alice"); err != ErrNotPayer {
			t.Fatalf("expected ErrNotPayer, got %v", err)
		}
		if got, _ := e.Member("alice"); got.Status != MemberStatusAwaitingConfirmation {
			t.Error("status changed on refused confirmation")
		}
	})

	t.Run("refuses a member that is not awaiting", func(t *testing.T) {
		e := newSettledExpense()

		err := e.ConfirmReceived("payer", "alice")
		if !errors.Is(err, ErrInvalidStatusChange) {
			t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
		}
	})
}

func TestExpense_RevokeConfirmation(t *testing.T) {
	t.Run("payer revokes a paid member", func(t *testing.T) {
		e := newSettledExpense()
		if err := e.MarkPaid("alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := e.ConfirmReceived("payer", "alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := e.RevokeConfirmation("payer", "alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, _ := e.Member("alice"); got.Status != MemberStatusAwaitingConfirmation {
			t.Errorf("status = %s, want %s", got.Status, MemberStatusAwaitingConfirmation)
		}
	})

	t.Run("only the payer may revoke", func(t *testing.T) {
		e := newSettledExpense()
		if err := e.RevokeConfirmation("alice", "payer"); err != ErrNotPayer {
			t.Fatalf("expected ErrNotPayer, got %v", err)
		}
	})

	t.Run("refuses an unpaid member", func(t *testing.T) {
		e := newSettledExpense()

		err := e.RevokeConfirmation("payer", "alice")
		if !errors.Is(err, ErrInvalidStatusChange) {
			t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
		}
	})
}

func TestExpense_StatusDerivation(t *testing.T) {
	e := newSettledExpense()

	if e.Status != ExpenseStatusAwaitingPayment {
		t.Fatalf("status = %s, want %s", e.Status, ExpenseStatusAwaitingPayment)
	}

	// Walk both debtors through mark and confirm. The expense completes only
	// when the last one is confirmed.
	for _, member := range []string{"alice", "bob"} {
		if err := e.MarkPaid(member); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := e.ConfirmReceived("payer", member); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if e.Status != ExpenseStatusCompleted {
		t.Fatalf("status = %s, want %s", e.Status, ExpenseStatusCompleted)
	}

	// Revoking any confirmation reopens the expense.
	if err := e.RevokeConfirmation("payer", "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != ExpenseStatusAwaitingPayment {
		t.Fatalf("status = %s, want %s", e.Status, ExpenseStatusAwaitingPayment)
	}
}
