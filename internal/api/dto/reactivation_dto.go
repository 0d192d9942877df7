package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// TicketPayload is the helpdesk ticket sent by the trigger. Unknown fields
// are kept in Extra.
type TicketPayload struct {
	ID          int64          `json:"id" validate:"required,gt=0"`
	ClientEmail string         `json:"client_email" validate:"omitempty,email"`
	ClientName  string         `json:"client_name"`
	Subject     string         `json:"subject"`
	Extra       map[string]any `json:"-"`
}

var knownTicketFields = []string{"id", "client_email", "client_name", "subject"}

// UnmarshalJSON decodes the known fields and keeps the rest.
func (t *TicketPayload) UnmarshalJSON(data []byte) error {
	type plain TicketPayload
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var extra map[string]any
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	for _, key := range knownTicketFields {
		delete(extra, key)
	}
	if len(extra) > 0 {
		p.Extra = extra
	}
	*t = TicketPayload(p)
	return nil
}

// ReactivateRequest is the body of the reactivate-and-notify call. User is
// an id or email; it defaults to the ticket's client email.
type ReactivateRequest struct {
	Ticket TicketPayload `json:"ticket"`
	User   string        `json:"user"`
}

// UserRef returns the identity platform reference to load.
func (r ReactivateRequest) UserRef() string {
	if ref := strings.TrimSpace(r.User); ref != "" {
		return ref
	}
	return strings.TrimSpace(r.Ticket.ClientEmail)
}

// ToDomain converts the ticket payload.
func (t TicketPayload) ToDomain() domain.Ticket {
	return domain.Ticket{
		ID:          t.ID,
		ClientEmail: t.ClientEmail,
		ClientName:  t.ClientName,
		Subject:     t.Subject,
		Extra:       t.Extra,
	}
}

// MessageResponse is the outcome returned to the caller.
type MessageResponse struct {
	Message string `json:"message"`
}

// ReactivationRecordResponse is one journal entry.
type ReactivationRecordResponse struct {
	ID          string    `json:"id"`
	TicketID    int64     `json:"ticket_id"`
	Reactivated bool      `json:"reactivated"`
	Category    *string   `json:"category,omitempty"`
	AgentID     *int64    `json:"agent_id,omitempty"`
	Message     string    `json:"message,omitempty"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewReactivationRecordResponse maps a journal record.
func NewReactivationRecordResponse(r domain.ReactivationRecord) ReactivationRecordResponse {
	resp := ReactivationRecordResponse{
		ID:          r.ID,
		TicketID:    r.TicketID,
		Reactivated: r.Reactivated,
		AgentID:     r.AgentID,
		Message:     r.Message,
		Error:       r.Error,
		CreatedAt:   r.CreatedAt,
	}
	if r.Category != nil {
		c := string(*r.Category)
		resp.Category = &c
	}
	return resp
}
