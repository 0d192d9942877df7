package domain

import "time"

const (
	MessageReactivated         = "User reactivated successfully."
	MessageActivationNotNeeded = "User activation is not required."
)

// ReactivationOutcome is the result of one reactivation attempt.
type ReactivationOutcome struct {
	Reactivated bool
	Message     string
}

// ReactivationRecord is an audit journal entry for one orchestrated request.
type ReactivationRecord struct {
	ID          string
	UserID      int64
	TicketID    int64
	Reactivated bool
	Category    *NotificationCategory
	AgentID     *int64
	Message     string
	Error       *string
	CreatedAt   time.Time
}
