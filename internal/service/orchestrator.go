package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/domain"
	"github.com/supportdesk/reactivation-service/internal/events"
	"github.com/supportdesk/reactivation-service/internal/observability"
)

// DefaultPublishTimeout bounds event subscribers such as the audit journal.
const DefaultPublishTimeout = 3 * time.Second

// ReactivationOrchestrator runs reactivation and, only when an account was
// actually reactivated, notifies the user and the support team.
type ReactivationOrchestrator struct {
	reactivation *ReactivationService
	dispatch     *DispatchService
	chat         ChatClient
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	adminUserURL string
	publishLimit time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

// OrchestratorDependencies bundles collaborators. A zero PublishTimeout
// means DefaultPublishTimeout.
type OrchestratorDependencies struct {
	Reactivation   *ReactivationService
	Dispatch       *DispatchService
	Chat           ChatClient
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	AdminUserURL   string
	PublishTimeout time.Duration
	Clock          func() time.Time
	Logger         *zap.Logger
}

// NewReactivationOrchestrator creates the orchestrator.
func NewReactivationOrchestrator(deps OrchestratorDependencies) *ReactivationOrchestrator {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	publishLimit := deps.PublishTimeout
	if publishLimit <= 0 {
		publishLimit = DefaultPublishTimeout
	}
	return &ReactivationOrchestrator{
		reactivation: deps.Reactivation,
		dispatch:     deps.Dispatch,
		chat:         deps.Chat,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		adminUserURL: deps.AdminUserURL,
		publishLimit: publishLimit,
		now:          clock,
		logger:       logger,
	}
}

// ReactivateAndNotify loads the user referenced by userRef, reactivates it
// when eligible and then answers the ticket and alerts the team.
// A *domain.NotificationDispatchError means the account was reactivated
// but notifying failed; the returned outcome is still populated.
func (o *ReactivationOrchestrator) ReactivateAndNotify(ctx context.Context, ticket domain.Ticket, userRef string) (domain.ReactivationOutcome, error) {
	run := o.reactivation.Begin()
	user, err := run.Load(ctx, userRef)
	if err != nil {
		o.metrics.RecordReactivation("load_failed")
		return domain.ReactivationOutcome{}, err
	}

	outcome, err := run.Reactivate(ctx)
	if err != nil {
		o.metrics.RecordReactivation("reactivation_failed")
		o.publish(ctx, events.EventReactivationFailed, user.ID, ticket.ID, events.ReactivationPayload{Error: errorText(err)})
		return domain.ReactivationOutcome{}, err
	}
	if !outcome.Reactivated {
		o.metrics.RecordReactivation("skipped")
		o.publish(ctx, events.EventReactivationSkipped, user.ID, ticket.ID, events.ReactivationPayload{Message: outcome.Message})
		return outcome, nil
	}

	payload := events.ReactivationPayload{Reactivated: true, Message: outcome.Message}
	result, err := o.dispatch.NotifyReactivatedUser(ctx, ticket, user.Birthday, o.now())
	if result.Category != "" {
		category := result.Category
		payload.Category = &category
		payload.AgentID = result.AgentID
	}
	if err == nil {
		err = o.alertTeam(ctx, ticket, user)
	}
	if err != nil {
		o.metrics.RecordReactivation("notification_failed")
		payload.Error = errorText(err)
		o.publish(ctx, events.EventReactivationFailed, user.ID, ticket.ID, payload)
		return outcome, err
	}

	o.metrics.RecordReactivation("reactivated")
	o.publish(ctx, events.EventUserReactivated, user.ID, ticket.ID, payload)
	return outcome, nil
}

func (o *ReactivationOrchestrator) alertTeam(ctx context.Context, ticket domain.Ticket, user *domain.User) error {
	if err := o.chat.SendTeamAlert(ctx, TeamAlertText(o.adminUserURL, user)); err != nil {
		return &domain.NotificationDispatchError{TicketID: ticket.ID, Stage: domain.StageTeamAlert, ReplySent: true, Err: err}
	}
	return nil
}

// TeamAlertText formats the chat alert for a reactivated user: the id
// linked to its admin page, followed by the birth year.
func TeamAlertText(adminUserURL string, user *domain.User) string {
	link := fmt.Sprintf("%s/%d", strings.TrimRight(adminUserURL, "/"), user.ID)
	return fmt.Sprintf(`🔓 <a href="%s">%d</a> (%d)`, link, user.ID, user.Birthday.Year())
}

func (o *ReactivationOrchestrator) publish(ctx context.Context, eventType events.EventType, userID, ticketID int64, payload events.ReactivationPayload) {
	if o.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		TicketID:  ticketID,
		Timestamp: o.now(),
		Payload:   payload,
	}
	// Subscribers run synchronously: detach from the request so a cancelled
	// caller still gets journaled, but never wait longer than publishLimit.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.publishLimit)
	defer cancel()
	if err := o.dispatcher.Publish(pctx, event); err != nil {
		o.logger.Warn("event handlers failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func errorText(err error) *string {
	msg := err.Error()
	return &msg
}
