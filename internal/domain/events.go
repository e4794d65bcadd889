package domain

import "time"

// Event types
const (
	EventTypeExpenseCreated      = "expense.created"
	EventTypeExpenseUpdated      = "expense.updated"
	EventTypeExpenseDeleted      = "expense.deleted"
	EventTypeExpenseCompleted    = "expense.completed"
	EventTypeSplitUpdated        = "split.updated"
	EventTypeMemberMarkedPaid    = "member.marked_paid"
	EventTypePaymentConfirmed    = "payment.confirmed"
	EventTypeConfirmationRevoked = "payment.confirmation_revoked"
)

// Aggregate types
const (
	AggregateTypeExpense = "expense"
)

// OutboxEvent represents an event to be published.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
