package domain

import "errors"

var (
	// Expense errors
	ErrExpenseNotFound = errors.New("expense not found")
	ErrMemberNotFound  = errors.New("member is not part of this expense split")
	ErrDuplicateMember = errors.New("member already part of this expense split")
	ErrEmptySplit      = errors.New("expense must have at least one member")
	ErrVersionConflict = errors.New("expense was modified concurrently")
	ErrSplitInvariant  = errors.New("split amounts must add up to total expense amount")

	// Allocation errors
	ErrInvalidTotalAmount  = errors.New("total amount must be greater than 0")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidPercentage   = errors.New("split percentage must be between 0 and 100")
	ErrPercentageOverflow  = errors.New("total split percentage cannot exceed 100%")
	ErrDeductionNotAllowed = errors.New("cannot deduct from a member with no allocated amount")
	ErrAdjustmentNotFound  = errors.New("adjustment not found")
	ErrInvalidAdjustment   = errors.New("unknown adjustment kind")

	// Settlement errors
	ErrNotPayer            = errors.New("only the payer can perform this action")
	ErrInvalidStatusChange = errors.New("cannot change status")
)
