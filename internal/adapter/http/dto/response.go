package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/amotify/amotify/internal/domain"
	"github.com/amotify/amotify/internal/usecase"
)

// MemberSplitResponse represents a member's share in API responses.
type MemberSplitResponse struct {
	UserID          string              `json:"user_id"`
	Amount          decimal.Decimal     `json:"amount"`
	SplitPercentage decimal.Decimal     `json:"split_percentage"`
	Balance         decimal.Decimal     `json:"balance"`
	Status          domain.MemberStatus `json:"status"`
	AddOns          []decimal.Decimal   `json:"add_ons,omitempty"`
	Deductions      []decimal.Decimal   `json:"deductions,omitempty"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	PaidBy      string                `json:"paid_by"`
	Split       []MemberSplitResponse `json:"split"`
	Status      domain.ExpenseStatus  `json:"status"`
	ReceiptURLs []string              `json:"receipt_urls,omitempty"`
	Version     int64                 `json:"version"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ExpenseFromDomain converts a domain expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	split := make([]MemberSplitResponse, len(e.Split))
	for i := range e.Split {
		m := &e.Split[i]
		split[i] = MemberSplitResponse{
			UserID:          m.UserID,
			Amount:          m.Amount,
			SplitPercentage: m.SplitPercentage,
			Balance:         m.Balance(),
			Status:          m.Status,
			AddOns:          m.AddOns,
			Deductions:      m.Deductions,
		}
	}
	return &ExpenseResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		TotalAmount: e.TotalAmount,
		PaidBy:      e.PaidBy,
		Split:       split,
		Status:      e.Status,
		ReceiptURLs: e.ReceiptURLs,
		Version:     e.Version,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// UsersFromDomain converts domain users to responses.
func UsersFromDomain(users []*domain.User) []*UserResponse {
	result := make([]*UserResponse, len(users))
	for i, u := range users {
		result[i] = UserFromDomain(u)
	}
	return result
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// DashboardResponse represents the aggregated dashboard view.
type DashboardResponse struct {
	YouOwe      decimal.Decimal    `json:"you_owe"`
	YouAreOwed  decimal.Decimal    `json:"you_are_owed"`
	OpenCount   int                `json:"open_count"`
	ActionItems []*ExpenseResponse `json:"action_items"`
	Recent      []*ExpenseResponse `json:"recent"`
}

// DashboardFromUseCase converts a dashboard view to a response.
func DashboardFromUseCase(d *usecase.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		YouOwe:      d.YouOwe,
		YouAreOwed:  d.YouAreOwed,
		OpenCount:   d.OpenCount,
		ActionItems: ExpensesFromDomain(d.ActionItems),
		Recent:      ExpensesFromDomain(d.Recent),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
