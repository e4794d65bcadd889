package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/adapter/http/dto"
	"github.com/amotify/amotify/internal/domain"
)

// SplitService defines the behavior needed by SplitHandler.
type SplitService interface {
	SplitEvenly(ctx context.Context, actorID, expenseID string) (*domain.Expense, error)
	ResetSplit(ctx context.Context, actorID, expenseID string) (*domain.Expense, error)
	SetMemberPercentage(ctx context.Context, actorID, expenseID, userID string, percentage decimal.Decimal) (*domain.Expense, error)
	SetMemberAmount(ctx context.Context, actorID, expenseID, userID string, amount decimal.Decimal) (*domain.Expense, error)
	AddAdjustment(ctx context.Context, actorID, expenseID, userID string, amount decimal.Decimal, kind domain.AdjustmentKind) (*domain.Expense, error)
	RemoveAdjustment(ctx context.Context, actorID, expenseID, userID string, kind domain.AdjustmentKind, index int) (*domain.Expense, error)
	RemoveMember(ctx context.Context, actorID, expenseID, userID string) (*domain.Expense, error)
}

// SplitHandler handles split allocation HTTP requests.
type SplitHandler struct {
	splitUC SplitService
}

// NewSplitHandler creates a new SplitHandler.
func NewSplitHandler(splitUC SplitService) *SplitHandler {
	return &SplitHandler{splitUC: splitUC}
}

// SplitEvenly divides the total equally across all members.
func (h *SplitHandler) SplitEvenly(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(actorID, expenseID string) (*domain.Expense, error) {
		return h.splitUC.SplitEvenly(r.Context(), actorID, expenseID)
	})
}

// ResetSplit zeroes all members' shares.
func (h *SplitHandler) ResetSplit(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(actorID, expenseID string) (*domain.Expense, error) {
		return h.splitUC.ResetSplit(r.Context(), actorID, expenseID)
	})
}

// SetPercentage sets one member's share by percentage.
func (h *SplitHandler) SetPercentage(w http.ResponseWriter, r *http.Request) {
	var req dto.SetPercentageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.run(w, r, func(actorID, expenseID string) (*domain.Expense, error) {
		return h.splitUC.SetMemberPercentage(r.Context(), actorID, expenseID, req.UserID, req.Percentage)
	})
}

// SetAmount sets one member's share by amount.
func (h *SplitHandler) SetAmount(w http.ResponseWriter, r *http.Request) {
	var req dto.SetAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.run(w, r, func(actorID, expenseID string) (*domain.Expense, error) {
		return h.splitUC.SetMemberAmount(r.Context(), actorID, expenseID, req.UserID, req.Amount)
	})
}

// AddAdjustment adds an add-on or deduction to a member's share.
func (h *SplitHandler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	var req dto.AddAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	kind, ok := req.AdjustmentKind()
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown adjustment kind", req.Kind)
		return
	}

	h.run(w, r, func(actorID, expenseID string) (*domain.Expense, error) {
		return h.splitUC.AddAdjustment(r.Context(), actorID, expenseID, req.UserID, req.Amount, kind)
	})
}

// RemoveAdjustment removes an add-on or deduction by index. The target is
// addressed by query parameters since DELETE bodies are unreliable.
func (h *SplitHandler) RemoveAdjustment(w http.ResponseWriter, r *http.Request) {
	req := dto.RemoveAdjustmentRequest{
		UserID: r.URL.Query().Get("user_id"),
		Kind:   r.URL.Query().Get("kind"),
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id", "")
		return
	}

	kind, ok := req.AdjustmentKind()
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown adjustment kind", req.Kind)
		return
	}

	index, ok := parseIndexQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid index", "")
		return
	}

	h.run(w, r, func(actorID, expenseID string) (*domain.Expense, error) {
		return h.splitUC.RemoveAdjustment(r.Context(), actorID, expenseID, req.UserID, kind, index)
	})
}

// RemoveMember removes a member from the split and redistributes their share.
func (h *SplitHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing member ID", "")
		return
	}

	h.run(w, r, func(actorID, expenseID string) (*domain.Expense, error) {
		return h.splitUC.RemoveMember(r.Context(), actorID, expenseID, userID)
	})
}

func (h *SplitHandler) run(w http.ResponseWriter, r *http.Request, op func(actorID, expenseID string) (*domain.Expense, error)) {
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

	expense, err := op(actorID, expenseID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update split", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

func parseIndexQuery(r *http.Request) (int, bool) {
	val := r.URL.Query().Get("index")
	if val == "" {
		return 0, false
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
