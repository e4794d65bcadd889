package domain

import "fmt"

// MarkPaid toggles a member's own status between pending and awaiting
// confirmation. A member declares "I paid" and can take it back until the
// payer confirms; a paid row cannot be self-modified.
func (e *Expense) MarkPaid(userID string) error {
	m := e.member(userID)
	if m == nil {
		return ErrMemberNotFound
	}

	switch m.Status {
	case MemberStatusPending:
		m.Status = MemberStatusAwaitingConfirmation
	case MemberStatusAwaitingConfirmation:
		m.Status = MemberStatusPending
	default:
		return fmt.Errorf("%w, current status is: %s", ErrInvalidStatusChange, m.Status)
	}

	e.RecomputeStatus()
	return nil
}

// ConfirmReceived moves a member from awaiting confirmation to paid. Only the
// expense's payer may confirm.
func (e *Expense) ConfirmReceived(actorID, memberID string) error {
	if actorID != e.PaidBy {
		return ErrNotPayer
	}

	m := e.member(memberID)
	if m == nil {
		return ErrMemberNotFound
	}

	if m.Status != MemberStatusAwaitingConfirmation {
		return fmt.Errorf("%w, current status is: %s", ErrInvalidStatusChange, m.Status)
	}

	m.Status = MemberStatusPaid
	e.RecomputeStatus()
	return nil
}

// RevokeConfirmation moves a paid member back to awaiting confirmation. Only
// the expense's payer may revoke.
func (e *Expense) RevokeConfirmation(actorID, memberID string) error {
	if actorID != e.PaidBy {
		return ErrNotPayer
	}

	m := e.member(memberID)
	if m == nil {
		return ErrMemberNotFound
	}

	if m.Status != MemberStatusPaid {
		return fmt.Errorf("%w, current status is: %s", ErrInvalidStatusChange, m.Status)
	}

	m.Status = MemberStatusAwaitingConfirmation
	e.RecomputeStatus()
	return nil
}
