package dto

import (
	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/usecase"
)

// RegisterRequest represents a request to register a new user.
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a request to update the caller's profile.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateProfileRequest) ToUseCaseInput(userID string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		ID:        userID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

// SplitMemberRequest represents one member's share in an expense request.
type SplitMemberRequest struct {
	UserID          string            `json:"user_id"`
	Amount          decimal.Decimal   `json:"amount"`
	SplitPercentage decimal.Decimal   `json:"split_percentage"`
	AddOns          []decimal.Decimal `json:"add_ons,omitempty"`
	Deductions      []decimal.Decimal `json:"deductions,omitempty"`
}

func (r *SplitMemberRequest) toUseCaseInput() usecase.SplitMemberInput {
	return usecase.SplitMemberInput{
		UserID:          r.UserID,
		Amount:          r.Amount,
		SplitPercentage: r.SplitPercentage,
		AddOns:          r.AddOns,
		Deductions:      r.Deductions,
	}
}

// CreateExpenseRequest represents a request to create an expense.
type CreateExpenseRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	PaidBy      string               `json:"paid_by"`
	Members     []SplitMemberRequest `json:"members"`
	ReceiptURLs []string             `json:"receipt_urls,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput() usecase.CreateExpenseInput {
	members := make([]usecase.SplitMemberInput, len(r.Members))
	for i := range r.Members {
		members[i] = r.Members[i].toUseCaseInput()
	}
	return usecase.CreateExpenseInput{
		Title:       r.Title,
		Description: r.Description,
		TotalAmount: r.TotalAmount,
		PaidBy:      r.PaidBy,
		Members:     members,
		ReceiptURLs: r.ReceiptURLs,
	}
}

// UpdateExpenseRequest represents a request to replace an expense's details.
type UpdateExpenseRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Members     []SplitMemberRequest `json:"members"`
	ReceiptURLs []string             `json:"receipt_urls,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateExpenseRequest) ToUseCaseInput(expenseID string) usecase.UpdateExpenseInput {
	members := make([]usecase.SplitMemberInput, len(r.Members))
	for i := range r.Members {
		members[i] = r.Members[i].toUseCaseInput()
	}
	return usecase.UpdateExpenseInput{
		ID:          expenseID,
		Title:       r.Title,
		Description: r.Description,
		TotalAmount: r.TotalAmount,
		Members:     members,
		ReceiptURLs: r.ReceiptURLs,
	}
}

// SetPercentageRequest represents a request to set one member's percentage.
type SetPercentageRequest struct {
	UserID     string          `json:"user_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

// SetAmountRequest represents a request to set one member's amount.
type SetAmountRequest struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// AddAdjustmentRequest represents a request to add an add-on or deduction.
type AddAdjustmentRequest struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind"`
}

// AdjustmentKind parses the kind field.
func (r *AddAdjustmentRequest) AdjustmentKind() (domain.AdjustmentKind, bool) {
	return parseAdjustmentKind(r.Kind)
}

// RemoveAdjustmentRequest represents a request to remove an adjustment by index.
type RemoveAdjustmentRequest struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
}

// AdjustmentKind parses the kind field.
func (r *RemoveAdjustmentRequest) AdjustmentKind() (domain.AdjustmentKind, bool) {
	return parseAdjustmentKind(r.Kind)
}

func parseAdjustmentKind(kind string) (domain.AdjustmentKind, bool) {
	switch domain.AdjustmentKind(kind) {
	case domain.AdjustmentAddOn, domain.AdjustmentDeduction:
		return domain.AdjustmentKind(kind), true
	}
	return "", false
}

// SettlementMemberRequest names the member affected by a payer-side
// settlement action.
type SettlementMemberRequest struct {
	MemberID string `json:"member_id"`
}
