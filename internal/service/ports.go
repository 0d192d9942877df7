package service

import (
	"context"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// IdentityClient is the identity platform surface used by reactivation.
type IdentityClient interface {
	GetUser(ctx context.Context, ref string) (*domain.User, error)
	UnlockUser(ctx context.Context, userID int64) error
	ApproveUser(ctx context.Context, userID int64) error
}

// HelpdeskClient is the helpdesk surface used to answer the user.
type HelpdeskClient interface {
	SendMessage(ctx context.Context, reply domain.TicketReply) error
	UpdateTicket(ctx context.Context, ticketID int64, category string) error
}

// ChatClient delivers internal alerts to the support team chat.
type ChatClient interface {
	SendTeamAlert(ctx context.Context, text string) error
}
