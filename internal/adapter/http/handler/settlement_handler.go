package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amotify/amotify/internal/adapter/http/dto"
	"github.com/amotify/amotify/internal/domain"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	MarkPaid(ctx context.Context, actorID, expenseID string) (*domain.Expense, error)
	ConfirmReceived(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error)
	RevokeConfirmation(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error)
}

// SettlementHandler handles settlement HTTP requests.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// MarkPaid toggles the caller's own share between pending and awaiting
// confirmation.
func (h *SettlementHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	expenseID := chi.URLParam(r, "id")
	if expenseID == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	expense, err := h.settlementUC.MarkPaid(r.Context(), actorID, expenseID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to mark paid", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// Confirm confirms receipt of a member's payment. Payer only.
func (h *SettlementHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.payerAction(w, r, "failed to confirm payment", h.settlementUC.ConfirmReceived)
}

// Revoke reverts a confirmed payment back to awaiting confirmation. Payer only.
func (h *SettlementHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	h.payerAction(w, r, "failed to revoke confirmation", h.settlementUC.RevokeConfirmation)
}

type payerActionFunc func(ctx context.Context, actorID, expenseID, memberID string) (*domain.Expense, error)

func (h *SettlementHandler) payerAction(w http.ResponseWriter, r *http.Request, errMsg string, op payerActionFunc) {
	actorID, ok := currentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	expenseID := chi.URLParam(r, "id")
	if expenseID == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	var req dto.SettlementMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "missing member_id", "")
		return
	}

	expense, err := op(r.Context(), actorID, expenseID, req.MemberID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, errMsg, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}
