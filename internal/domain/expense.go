package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberStatus is the payment status of a single split member.
type MemberStatus string

const (
	MemberStatusPending              MemberStatus = "PENDING"
	MemberStatusAwaitingConfirmation MemberStatus = "AWAITING_CONFIRMATION"
	MemberStatusPaid                 MemberStatus = "PAID"
)

// IsValid checks if the status is a known member status.
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusPending, MemberStatusAwaitingConfirmation, MemberStatusPaid:
		return true
	}
	return false
}

// ExpenseStatus is the derived status of the whole expense. It is never set
// directly; RecomputeStatus derives it from the member statuses.
type ExpenseStatus string

const (
	ExpenseStatusAwaitingPayment ExpenseStatus = "AWAITING_PAYMENT"
	ExpenseStatusCompleted       ExpenseStatus = "COMPLETED"
)

// MemberSplit is one participant's share of an expense.
type MemberSplit struct {
	UserID          string
	Amount          decimal.Decimal
	SplitPercentage decimal.Decimal
	Status          MemberStatus
	AddOns          []decimal.Decimal
	Deductions      []decimal.Decimal
}

// Balance returns the member's effective share: the allocated amount plus
// add-ons minus deductions.
func (m *MemberSplit) Balance() decimal.Decimal {
	b := m.Amount
	for _, a := range m.AddOns {
		b = b.Add(a)
	}
	for _, d := range m.Deductions {
		b = b.Sub(d)
	}
	return b
}

func (m *MemberSplit) clone() MemberSplit {
	c := *m
	if m.AddOns != nil {
		c.AddOns = append([]decimal.Decimal(nil), m.AddOns...)
	}
	if m.Deductions != nil {
		c.Deductions = append([]decimal.Decimal(nil), m.Deductions...)
	}
	return c
}

// Expense is the aggregate root for a shared expense and its split.
type Expense struct {
	ID          string
	Title       string
	Description string
	TotalAmount decimal.Decimal
	PaidBy      string
	Split       []MemberSplit
	Status      ExpenseStatus
	ReceiptURLs []string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewExpense builds an expense from its split. The payer's own row is created
// as already paid; everyone else starts pending unless a valid status is given.
func NewExpense(id, title, description string, totalAmount decimal.Decimal, paidBy string, split []MemberSplit, now time.Time) (*Expense, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidTotalAmount
	}
	if len(split) == 0 {
		return nil, ErrEmptySplit
	}

	seen := make(map[string]bool, len(split))
	members := make([]MemberSplit, 0, len(split))
	for i := range split {
		m := split[i].clone()
		if seen[m.UserID] {
			return nil, ErrDuplicateMember
		}
		seen[m.UserID] = true

		switch {
		case m.UserID == paidBy:
			m.Status = MemberStatusPaid
		case !m.Status.IsValid():
			m.Status = MemberStatusPending
		}
		members = append(members, m)
	}

	e := &Expense{
		ID:          id,
		Title:       title,
		Description: description,
		TotalAmount: totalAmount,
		PaidBy:      paidBy,
		Split:       members,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.ValidateSplit(); err != nil {
		return nil, err
	}
	e.RecomputeStatus()

	return e, nil
}

// member returns a pointer into the split, or nil.
func (e *Expense) member(userID string) *MemberSplit {
	for i := range e.Split {
		if e.Split[i].UserID == userID {
			return &e.Split[i]
		}
	}
	return nil
}

// Member returns the split row for a user.
func (e *Expense) Member(userID string) (MemberSplit, error) {
	m := e.member(userID)
	if m == nil {
		return MemberSplit{}, ErrMemberNotFound
	}
	return m.clone(), nil
}

// SplitTotal returns the sum of all allocated amounts.
func (e *Expense) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range e.Split {
		total = total.Add(e.Split[i].Amount)
	}
	return total
}

// ValidateSplit checks that the allocated amounts add up to the total within
// one cent.
func (e *Expense) ValidateSplit() error {
	drift := e.SplitTotal().Sub(e.TotalAmount).Abs()
	if drift.GreaterThanOrEqual(splitTolerance) {
		return ErrSplitInvariant
	}
	return nil
}

// RecomputeStatus derives the expense status from the member statuses. The
// expense is completed only when every member has paid.
func (e *Expense) RecomputeStatus() {
	if len(e.Split) == 0 {
		e.Status = ExpenseStatusAwaitingPayment
		return
	}
	for i := range e.Split {
		if e.Split[i].Status != MemberStatusPaid {
			e.Status = ExpenseStatusAwaitingPayment
			return
		}
	}
	e.Status = ExpenseStatusCompleted
}

var splitTolerance = decimal.New(1, -2) // 0.01
