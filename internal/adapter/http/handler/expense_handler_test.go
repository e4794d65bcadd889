package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/adapter/http/dto"
	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/usecase"
)

type expenseServiceStub struct {
	createFn func(ctx context.Context, actorID string, input usecase.CreateExpenseInput) (*domain.Expense, error)
	getFn    func(ctx context.Context, actorID, id string) (*domain.Expense, error)
	updateFn func(ctx context.Context, actorID string, input usecase.UpdateExpenseInput) (*domain.Expense, error)
	deleteFn func(ctx context.Context, actorID, id string) error
	listFn   func(ctx context.Context, actorID string, filter usecase.ExpenseFilter) ([]*domain.Expense, error)
}

func (s *expenseServiceStub) CreateExpense(ctx context.Context, actorID string, input usecase.CreateExpenseInput) (*domain.Expense, error) {
	return s.createFn(ctx, actorID, input)
}

func (s *expenseServiceStub) GetExpense(ctx context.Context, actorID, id string) (*domain.Expense, error) {
	return s.getFn(ctx, actorID, id)
}

func (s *expenseServiceStub) UpdateExpense(ctx context.Context, actorID string, input usecase.UpdateExpenseInput) (*domain.Expense, error) {
	return s.updateFn(ctx, actorID, input)
}

func (s *expenseServiceStub) DeleteExpense(ctx context.Context, actorID, id string) error {
	return s.deleteFn(ctx, actorID, id)
}

func (s *expenseServiceStub) ListExpenses(ctx context.Context, actorID string, filter usecase.ExpenseFilter) ([]*domain.Expense, error) {
	return s.listFn(ctx, actorID, filter)
}

func TestExpenseHandler_Create_Success(t *testing.T) {
	expense := &domain.Expense{ID: "exp-1", Title: "dinner", TotalAmount: decimal.NewFromInt(100)}
	var capturedActor string
	var captured usecase.CreateExpenseInput

	handler := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, actorID string, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			capturedActor = actorID
			captured = input
			return expense, nil
		},
	})

	body, _ := json.Marshal(dto.CreateExpenseRequest{
		Title:       "dinner",
		TotalAmount: decimal.NewFromInt(100),
		PaidBy:      "user-1",
		Members: []dto.SplitMemberRequest{
			{UserID: "user-1", Amount: decimal.NewFromInt(50)},
			{UserID: "user-2", Amount: decimal.NewFromInt(50)},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader(body))
	req = withUser(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if capturedActor != "user-1" {
		t.Fatalf("expected actor user-1, got %s", capturedActor)
	}
	if captured.Title != "dinner" || len(captured.Members) != 2 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.ExpenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "exp-1" {
		t.Fatalf("expected expense ID exp-1, got %s", resp.ID)
	}
}

func TestExpenseHandler_Create_Unauthenticated(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, actorID string, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			t.Fatal("CreateExpense should not be called without a user")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestExpenseHandler_Create_InvalidBody(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, actorID string, input usecase.CreateExpenseInput) (*domain.Expense, error) {
			t.Fatal("CreateExpense should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString("{bad json"))
	req = withUser(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExpenseHandler_Get(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		getFn: func(ctx context.Context, actorID, id string) (*domain.Expense, error) {
			return &domain.Expense{ID: id}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/expenses/exp-1", nil)
	req = withUser(req, "user-1")
	req = setChiURLParam(req, "id", "exp-1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestExpenseHandler_Get_NotFound(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		getFn: func(ctx context.Context, actorID, id string) (*domain.Expense, error) {
			return nil, domain.ErrExpenseNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/expenses/missing", nil)
	req = withUser(req, "user-1")
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestExpenseHandler_Update_NotPayer(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		updateFn: func(ctx context.Context, actorID string, input usecase.UpdateExpenseInput) (*domain.Expense, error) {
			return nil, domain.ErrNotPayer
		},
	})

	body, _ := json.Marshal(dto.UpdateExpenseRequest{Title: "edited", TotalAmount: decimal.NewFromInt(50)})
	req := httptest.NewRequest(http.MethodPut, "/expenses/exp-1", bytes.NewReader(body))
	req = withUser(req, "user-2")
	req = setChiURLParam(req, "id", "exp-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestExpenseHandler_Delete(t *testing.T) {
	var deleted string
	handler := NewExpenseHandler(&expenseServiceStub{
		deleteFn: func(ctx context.Context, actorID, id string) error {
			deleted = id
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/expenses/exp-1", nil)
	req = withUser(req, "user-1")
	req = setChiURLParam(req, "id", "exp-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "exp-1" {
		t.Fatalf("expected exp-1 to be deleted, got %s", deleted)
	}
}

func TestExpenseHandler_List(t *testing.T) {
	handler := NewExpenseHandler(&expenseServiceStub{
		listFn: func(ctx context.Context, actorID string, filter usecase.ExpenseFilter) ([]*domain.Expense, error) {
			if filter.Limit != 5 || filter.Offset != 1 {
				t.Fatalf("unexpected filter %+v", filter)
			}
			if filter.PaidBy != "user-1" {
				t.Fatalf("expected mine filter to target the actor, got %q", filter.PaidBy)
			}
			return []*domain.Expense{{ID: "exp-1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/expenses?limit=5&offset=1&mine=true", nil)
	req = withUser(req, "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
