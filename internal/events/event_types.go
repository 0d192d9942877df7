package events

import (
	"time"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserReactivated     EventType = "user_reactivated"
	EventReactivationSkipped EventType = "reactivation_skipped"
	EventReactivationFailed  EventType = "reactivation_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string              `json:"id"`
	Type      EventType           `json:"type"`
	UserID    int64               `json:"user_id"`
	TicketID  int64               `json:"ticket_id"`
	Timestamp time.Time           `json:"timestamp"`
	Payload   ReactivationPayload `json:"payload"`
}

// ReactivationPayload describes what the orchestrator did for one request.
type ReactivationPayload struct {
	Reactivated bool                         `json:"reactivated"`
	Message     string                       `json:"message"`
	Category    *domain.NotificationCategory `json:"category,omitempty"`
	AgentID     *int64                       `json:"agent_id,omitempty"`
	Error       *string                      `json:"error,omitempty"`
}
