package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/domain"
	"github.com/supportdesk/reactivation-service/internal/events"
	"github.com/supportdesk/reactivation-service/internal/repository"
)

// AuditService journals reactivation events.
type AuditService struct {
	dispatcher events.Dispatcher
	records    repository.ReactivationRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, records repository.ReactivationRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		records:    records,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil || a.records == nil {
		return
	}
	for _, t := range events.AllEventTypes() {
		a.dispatcher.Subscribe(t, a.handleEvent)
	}
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	record := &domain.ReactivationRecord{
		ID:          event.ID,
		UserID:      event.UserID,
		TicketID:    event.TicketID,
		Reactivated: event.Payload.Reactivated,
		Category:    event.Payload.Category,
		AgentID:     event.Payload.AgentID,
		Message:     event.Payload.Message,
		Error:       event.Payload.Error,
		CreatedAt:   event.Timestamp,
	}
	if err := a.records.Create(ctx, record); err != nil {
		a.logger.Error("audit record failed", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	a.logger.Debug("audit record stored",
		zap.String("event_type", string(event.Type)),
		zap.Int64("user_id", event.UserID))
	return nil
}

// History returns the most recent journal entries for a user.
func (a *AuditService) History(ctx context.Context, userID int64, limit int) ([]domain.ReactivationRecord, error) {
	if a.records == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return a.records.ListByUser(ctx, userID, limit)
}
