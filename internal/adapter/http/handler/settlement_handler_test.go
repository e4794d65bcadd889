package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amotify/amotify/internal/adapter/http/dto"
	"github.com/amotify/amotify/internal/domain"
)

type settlementServiceStub struct {
	markPaidFn func(ctx context.Context, actorID, expenseID string) (*domain.Expense, error)
	confirmFn  func(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error)
	revokeFn   func(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error)
}

func (s *settlementServiceStub) MarkPaid(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
	return s.markPaidFn(ctx, actorID, expenseID)
}

func (s *settlementServiceStub) ConfirmReceived(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error) {
	return s.confirmFn(ctx, actorID, expenseID, memberID)
}

func (s *settlementServiceStub) RevokeConfirmation(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error) {
	return s.revokeFn(ctx, actorID, expenseID, memberID)
}

func TestSettlementHandler_MarkPaid(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		markPaidFn: func(ctx context.Context, actorID, expenseID string) (*domain.Expense, error) {
			if actorID != "user-2" || expenseID != "exp-1" {
				t.Fatalf("unexpected args actor=%s expense=%s", actorID, expenseID)
			}
			return &domain.Expense{ID: expenseID}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses/exp-1/settlement/mark-paid", nil)
	req = withUser(req, "user-2")
	req = setChiURLParam(req, "id", "exp-1")
	rec := httptest.NewRecorder()

	handler.MarkPaid(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSettlementHandler_Confirm_MissingMember(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		confirmFn: func(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error) {
			t.Fatal("ConfirmReceived should not be called without member_id")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses/exp-1/settlement/confirm", bytes.NewBufferString(`{}`))
	req = withUser(req, "user-1")
	req = setChiURLParam(req, "id", "exp-1")
	rec := httptest.NewRecorder()

	handler.Confirm(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSettlementHandler_Confirm_NotPayer(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		confirmFn: func(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error) {
			return nil, domain.ErrNotPayer
		},
	})

	body, _ := json.Marshal(dto.SettlementMemberRequest{MemberID: "user-2"})
	req := httptest.NewRequest(http.MethodPost, "/expenses/exp-1/settlement/confirm", bytes.NewReader(body))
	req = withUser(req, "user-3")
	req = setChiURLParam(req, "id", "exp-1")
	rec := httptest.NewRecorder()

	handler.Confirm(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestSettlementHandler_Revoke_VersionConflict(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		revokeFn: func(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error) {
			return nil, domain.ErrVersionConflict
		},
	})

	body, _ := json.Marshal(dto.SettlementMemberRequest{MemberID: "user-2"})
	req := httptest.NewRequest(http.MethodPost, "/expenses/exp-1/settlement/revoke", bytes.NewReader(body))
	req = withUser(req, "user-1")
	req = setChiURLParam(req, "id", "exp-1")
	rec := httptest.NewRecorder()

	handler.Revoke(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
