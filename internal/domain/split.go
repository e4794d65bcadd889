package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

var (
	hundred   = decimal.NewFromInt(100)
	hundredth = decimal.New(1, -2) // 0.01
)

// AdjustmentKind distinguishes add-ons from deductions.
type AdjustmentKind string

const (
	AdjustmentAddOn     AdjustmentKind = "ADD_ON"
	AdjustmentDeduction AdjustmentKind = "DEDUCTION"
)

// SplitEvenly divides the total across members that carry no manual
// allocation. Members with a nonzero amount or percentage keep theirs; the
// remaining total is floored to cents per recipient and the rounding
// remainder goes to the payer when the payer is among the recipients,
// otherwise to the last recipient. Percentages are then redistributed over
// all members so they sum to exactly 100.
func (e *Expense) SplitEvenly() error {
	if e.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTotalAmount
	}

	split := cloneSplit(e.Split)

	var allocated decimal.Decimal
	var recipients []int
	for i := range split {
		if split[i].Amount.IsZero() && split[i].SplitPercentage.IsZero() {
			recipients = append(recipients, i)
		} else {
			allocated = allocated.Add(split[i].Amount)
		}
	}

	if len(recipients) == len(split) {
		allocated = decimal.Zero
	}

	remaining := e.TotalAmount.Sub(allocated)
	if len(recipients) > 0 && remaining.IsPositive() {
		share := remaining.Div(decimal.NewFromInt(int64(len(recipients)))).RoundDown(2)
		for _, i := range recipients {
			split[i].Amount = share
		}

		remainder := remaining.Sub(share.Mul(decimal.NewFromInt(int64(len(recipients)))))
		if remainder.IsPositive() {
			target := recipients[len(recipients)-1]
			for _, i := range recipients {
				if split[i].UserID == e.PaidBy {
					target = i
					break
				}
			}
			split[target].Amount = split[target].Amount.Add(remainder)
		}
	}

	if err := DistributePercentages(split, e.TotalAmount); err != nil {
		return err
	}

	e.Split = split
	return nil
}

// ResetSplit clears every member's amount and percentage. It is the off
// position of the split-evenly toggle.
func (e *Expense) ResetSplit() {
	for i := range e.Split {
		e.Split[i].Amount = decimal.Zero
		e.Split[i].SplitPercentage = decimal.Zero
	}
}

// DistributePercentages recomputes every member's percentage from its amount
// so the percentages sum to exactly 100.00. Raw percentages are floored to
// two decimals and the shortfall is handed out one hundredth of a percent at
// a time, largest fractional remainder first, ties broken by member order.
func DistributePercentages(split []MemberSplit, totalAmount decimal.Decimal) error {
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTotalAmount
	}
	if len(split) == 0 {
		return nil
	}

	remainders := make([]decimal.Decimal, len(split))
	assigned := decimal.Zero
	amountTotal := decimal.Zero
	for i := range split {
		raw := split[i].Amount.Div(totalAmount).Mul(hundred)
		floored := raw.RoundDown(2)
		split[i].SplitPercentage = floored
		remainders[i] = raw.Sub(floored)
		assigned = assigned.Add(floored)
		amountTotal = amountTotal.Add(split[i].Amount)
	}

	// Topping up to 100.00 is only meaningful when the amounts actually cover
	// the total. A partially allocated split keeps its floored percentages.
	if amountTotal.Sub(totalAmount).Abs().GreaterThanOrEqual(hundredth) {
		return nil
	}

	// Shortfall in hundredths of a percent. Floored values are exact to two
	// decimals, so this is an exact integer.
	shortfall := hundred.Sub(assigned).Div(hundredth).IntPart()
	if shortfall <= 0 {
		return nil
	}

	order := make([]int, len(split))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})

	for k := int64(0); k < shortfall; k++ {
		i := order[int(k)%len(order)]
		split[i].SplitPercentage = split[i].SplitPercentage.Add(hundredth)
	}

	return nil
}

// SetMemberPercentage gives a member an explicit percentage share. The
// member's amount follows from the percentage, and any accumulated add-ons
// are cleared: a manual percentage edit supersedes them.
func (e *Expense) SetMemberPercentage(userID string, percentage decimal.Decimal) error {
	if e.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTotalAmount
	}
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return ErrInvalidPercentage
	}

	m := e.member(userID)
	if m == nil {
		return ErrMemberNotFound
	}

	others := decimal.Zero
	for i := range e.Split {
		if e.Split[i].UserID != userID {
			others = others.Add(e.Split[i].SplitPercentage)
		}
	}
	if others.Add(percentage).GreaterThan(hundred) {
		return ErrPercentageOverflow
	}

	m.SplitPercentage = percentage
	m.Amount = percentage.Mul(e.TotalAmount).Div(hundred).Round(2)
	m.AddOns = nil
	return nil
}

// SetMemberAmount gives a member an explicit amount; the percentage follows.
func (e *Expense) SetMemberAmount(userID string, amount decimal.Decimal) error {
	if e.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTotalAmount
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	m := e.member(userID)
	if m == nil {
		return ErrMemberNotFound
	}

	m.Amount = amount.Round(2)
	m.SplitPercentage = amount.Div(e.TotalAmount).Mul(hundred).Round(2)
	return nil
}

// AddAdjustment appends an add-on or deduction to a member's share.
// Deductions require an existing allocated amount to deduct from.
func (e *Expense) AddAdjustment(userID string, amount decimal.Decimal, kind AdjustmentKind) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	m := e.member(userID)
	if m == nil {
		return ErrMemberNotFound
	}

	switch kind {
	case AdjustmentAddOn:
		m.AddOns = append(m.AddOns, amount)
	case AdjustmentDeduction:
		if m.Amount.LessThanOrEqual(decimal.Zero) {
			return ErrDeductionNotAllowed
		}
		m.Deductions = append(m.Deductions, amount)
	default:
		return ErrInvalidAdjustment
	}

	return nil
}

// RemoveAdjustment drops an add-on or deduction by index. Removing an add-on
// also takes the removed value back out of the member's running amount, and
// the percentage is recomputed from the new amount.
func (e *Expense) RemoveAdjustment(userID string, kind AdjustmentKind, index int) error {
	m := e.member(userID)
	if m == nil {
		return ErrMemberNotFound
	}

	switch kind {
	case AdjustmentAddOn:
		if index < 0 || index >= len(m.AddOns) {
			return ErrAdjustmentNotFound
		}
		removed := m.AddOns[index]
		m.AddOns = append(m.AddOns[:index], m.AddOns[index+1:]...)

		m.Amount = m.Amount.Sub(removed)
		if m.Amount.IsNegative() {
			m.Amount = decimal.Zero
		}
		if e.TotalAmount.IsPositive() {
			m.SplitPercentage = m.Amount.Div(e.TotalAmount).Mul(hundred).Round(2)
		}
	case AdjustmentDeduction:
		if index < 0 || index >= len(m.Deductions) {
			return ErrAdjustmentNotFound
		}
		m.Deductions = append(m.Deductions[:index], m.Deductions[index+1:]...)
	default:
		return ErrInvalidAdjustment
	}

	return nil
}

// RemoveMember drops a member and redistributes the total evenly across the
// remaining members. The rounding remainder goes to the payer if present,
// otherwise to the last remaining member.
func (e *Expense) RemoveMember(userID string) error {
	if e.member(userID) == nil {
		return ErrMemberNotFound
	}

	split := make([]MemberSplit, 0, len(e.Split)-1)
	for i := range e.Split {
		if e.Split[i].UserID != userID {
			split = append(split, e.Split[i].clone())
		}
	}

	if len(split) > 0 && e.TotalAmount.IsPositive() {
		count := decimal.NewFromInt(int64(len(split)))
		share := e.TotalAmount.Div(count).RoundDown(2)
		for i := range split {
			split[i].Amount = share
		}

		remainder := e.TotalAmount.Sub(share.Mul(count))
		if remainder.IsPositive() {
			target := len(split) - 1
			for i := range split {
				if split[i].UserID == e.PaidBy {
					target = i
					break
				}
			}
			split[target].Amount = split[target].Amount.Add(remainder)
		}

		if err := DistributePercentages(split, e.TotalAmount); err != nil {
			return err
		}
	}

	e.Split = split
	e.RecomputeStatus()
	return nil
}

func cloneSplit(split []MemberSplit) []MemberSplit {
	out := make([]MemberSplit, len(split))
	for i := range split {
		out[i] = split[i].clone()
	}
	return out
}
