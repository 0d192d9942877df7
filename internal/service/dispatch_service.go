package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// DispatchResult records what was sent to a reactivated user.
type DispatchResult struct {
	Category domain.NotificationCategory
	AgentID  *int64
}

// DispatchService answers the helpdesk ticket of a reactivated user.
type DispatchService struct {
	helpdesk        HelpdeskClient
	scheduler       *AgentScheduler
	profileCategory string
	logger          *zap.Logger
}

// NewDispatchService creates the service. profileCategory is the ticket
// category set after the reply goes out.
func NewDispatchService(helpdesk HelpdeskClient, scheduler *AgentScheduler, profileCategory string, logger *zap.Logger) *DispatchService {
	return &DispatchService{
		helpdesk:        helpdesk,
		scheduler:       scheduler,
		profileCategory: profileCategory,
		logger:          logger,
	}
}

// NotifyReactivatedUser classifies the user by age, replies to the ticket
// on behalf of the on-duty agent and then recategorizes the ticket.
func (s *DispatchService) NotifyReactivatedUser(ctx context.Context, ticket domain.Ticket, birthday time.Time, now time.Time) (DispatchResult, error) {
	category := domain.ClassifyAge(now.In(s.scheduler.Location()), birthday)
	notification, err := SelectNotification(category)
	if err != nil {
		return DispatchResult{}, err
	}
	agentID := s.scheduler.Resolve(now, nil)
	result := DispatchResult{Category: category, AgentID: agentID}

	reply := domain.TicketReply{
		TicketID:    ticket.ID,
		Text:        notification.Text,
		Attachments: notification.Attachments,
		AgentID:     agentID,
	}
	if err := s.helpdesk.SendMessage(ctx, reply); err != nil {
		return result, &domain.NotificationDispatchError{TicketID: ticket.ID, Stage: domain.StageReply, Err: err}
	}
	if err := s.helpdesk.UpdateTicket(ctx, ticket.ID, s.profileCategory); err != nil {
		return result, &domain.NotificationDispatchError{TicketID: ticket.ID, Stage: domain.StageUpdateCategory, ReplySent: true, Err: err}
	}

	fields := []zap.Field{
		zap.Int64("ticket_id", ticket.ID),
		zap.String("client_email", ticket.ClientEmail),
		zap.String("category", string(category)),
	}
	if agentID != nil {
		fields = append(fields, zap.Int64("agent_id", *agentID))
	}
	s.logger.Info("reactivated user answered", fields...)
	return result, nil
}
