package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/domain"
	"github.com/supportdesk/reactivation-service/internal/events"
	"github.com/supportdesk/reactivation-service/internal/observability"
)

const adminUserURL = "https://admin.example.com/users/"

type orchestratorFixture struct {
	rec      *recorder
	identity *fakeIdentity
	helpdesk *fakeHelpdesk
	chat     *fakeChat
	metrics  *observability.Metrics
	orch     *ReactivationOrchestrator

	mu     sync.Mutex
	events []events.Event
}

func newOrchestratorFixture(t *testing.T, now time.Time, users ...*domain.User) *orchestratorFixture {
	t.Helper()
	identity, rec := newIdentity(users...)
	f := &orchestratorFixture{
		rec:      rec,
		identity: identity,
		helpdesk: &fakeHelpdesk{rec: rec},
		chat:     &fakeChat{rec: rec},
		metrics:  observability.NewMetrics("test"),
	}

	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range events.AllEventTypes() {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, event)
			return nil
		})
	}

	logger := zap.NewNop()
	f.orch = NewReactivationOrchestrator(OrchestratorDependencies{
		Reactivation: NewReactivationService(identity, []int64{1127536}, logger),
		Dispatch:     NewDispatchService(f.helpdesk, NewAgentScheduler(testRoster(), moscow), profileCategory, logger),
		Chat:         f.chat,
		Dispatcher:   dispatcher,
		Metrics:      f.metrics,
		AdminUserURL: adminUserURL,
		Clock:        func() time.Time { return now },
		Logger:       logger,
	})
	return f
}

func (f *orchestratorFixture) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.events...)
}

func (f *orchestratorFixture) outcomeCount(t *testing.T, outcome string) float64 {
	t.Helper()
	families, err := f.metrics.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "test_reactivations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == "outcome" && pair.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestReactivateAndNotify_BlockedTeenager(t *testing.T) {
	user := &domain.User{ID: 42, Email: "teen@example.com", Status: 8, Birthday: time.Date(2008, 3, 15, 0, 0, 0, 0, time.UTC)}
	f := newOrchestratorFixture(t, msk(1, 12, 0, 0), user)
	ticket := domain.Ticket{ID: 9001, ClientEmail: "teen@example.com"}

	outcome, err := f.orch.ReactivateAndNotify(context.Background(), ticket, "teen@example.com")
	require.NoError(t, err)
	assert.True(t, outcome.Reactivated)
	assert.Equal(t, "User reactivated successfully.", outcome.Message)

	assert.Equal(t, []string{
		"get_user:teen@example.com",
		"unlock",
		"approve",
		"send_message",
		"update_ticket",
		"team_alert",
	}, f.rec.list())

	require.Len(t, f.helpdesk.replies, 1)
	assert.Len(t, f.helpdesk.replies[0].Attachments, 2)
	assert.Equal(t, []string{profileCategory}, f.helpdesk.updates)

	require.Len(t, f.chat.alerts, 1)
	assert.Equal(t, `🔓 <a href="https://admin.example.com/users/42">42</a> (2008)`, f.chat.alerts[0])

	published := f.published()
	require.Len(t, published, 1)
	event := published[0]
	assert.Equal(t, events.EventUserReactivated, event.Type)
	assert.Equal(t, int64(42), event.UserID)
	assert.Equal(t, int64(9001), event.TicketID)
	assert.NotEmpty(t, event.ID)
	require.NotNil(t, event.Payload.Category)
	assert.Equal(t, domain.CategoryTeenager, *event.Payload.Category)
	require.NotNil(t, event.Payload.AgentID)
	assert.Equal(t, weekendAgent, *event.Payload.AgentID)
	assert.Nil(t, event.Payload.Error)

	assert.Equal(t, float64(1), f.outcomeCount(t, "reactivated"))
}

func TestReactivateAndNotify_ActiveUserNotTouched(t *testing.T) {
	user := &domain.User{ID: 99, Email: "active@example.com", Status: domain.UserStatusActive, Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	f := newOrchestratorFixture(t, msk(3, 12, 0, 0), user)

	outcome, err := f.orch.ReactivateAndNotify(context.Background(), domain.Ticket{ID: 1}, "active@example.com")
	require.NoError(t, err)
	assert.False(t, outcome.Reactivated)
	assert.Equal(t, "User activation is not required.", outcome.Message)

	assert.Equal(t, []string{"get_user:active@example.com"}, f.rec.list())
	assert.Empty(t, f.helpdesk.replies)
	assert.Empty(t, f.chat.alerts)

	published := f.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventReactivationSkipped, published[0].Type)
	assert.Equal(t, float64(1), f.outcomeCount(t, "skipped"))
}

func TestReactivateAndNotify_LoadFailure(t *testing.T) {
	f := newOrchestratorFixture(t, msk(3, 12, 0, 0))

	_, err := f.orch.ReactivateAndNotify(context.Background(), domain.Ticket{ID: 1}, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, f.published())
	assert.Equal(t, float64(1), f.outcomeCount(t, "load_failed"))
}

func TestReactivateAndNotify_UnlockFailureSkipsNotification(t *testing.T) {
	user := &domain.User{ID: 7, Email: "u@example.com", Status: 9}
	f := newOrchestratorFixture(t, msk(3, 12, 0, 0), user)
	f.identity.unlockErr = errRemote

	_, err := f.orch.ReactivateAndNotify(context.Background(), domain.Ticket{ID: 1}, "u@example.com")
	var reactErr *domain.ReactivationError
	require.ErrorAs(t, err, &reactErr)
	assert.Equal(t, domain.StageUnlock, reactErr.Stage)

	assert.Empty(t, f.helpdesk.replies)
	assert.Empty(t, f.chat.alerts)

	published := f.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventReactivationFailed, published[0].Type)
	require.NotNil(t, published[0].Payload.Error)
}

func TestReactivateAndNotify_DispatchFailureAfterReactivation(t *testing.T) {
	user := &domain.User{ID: 7, Email: "u@example.com", Status: 8, Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	f := newOrchestratorFixture(t, msk(3, 12, 0, 0), user)
	f.helpdesk.sendErr = errRemote

	outcome, err := f.orch.ReactivateAndNotify(context.Background(), domain.Ticket{ID: 11}, "u@example.com")
	var dispatchErr *domain.NotificationDispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, domain.StageReply, dispatchErr.Stage)
	assert.True(t, outcome.Reactivated)

	assert.NotContains(t, f.rec.list(), "update_ticket")
	assert.Empty(t, f.chat.alerts)

	published := f.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventReactivationFailed, published[0].Type)
	assert.True(t, published[0].Payload.Reactivated)
	assert.Equal(t, float64(1), f.outcomeCount(t, "notification_failed"))
}

func TestReactivateAndNotify_TeamAlertFailure(t *testing.T) {
	user := &domain.User{ID: 7, Email: "u@example.com", Status: 8, Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	f := newOrchestratorFixture(t, msk(3, 12, 0, 0), user)
	f.chat.err = errRemote

	outcome, err := f.orch.ReactivateAndNotify(context.Background(), domain.Ticket{ID: 11}, "u@example.com")
	var dispatchErr *domain.NotificationDispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, domain.StageTeamAlert, dispatchErr.Stage)
	assert.True(t, dispatchErr.ReplySent)
	assert.True(t, outcome.Reactivated)
	assert.Len(t, f.helpdesk.replies, 1)
	assert.Equal(t, []string{profileCategory}, f.helpdesk.updates)
}

func TestTeamAlertText(t *testing.T) {
	user := &domain.User{ID: 1234, Birthday: time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, `🔓 <a href="https://admin/users/1234">1234</a> (1999)`, TeamAlertText("https://admin/users", user))
	assert.Equal(t, `🔓 <a href="https://admin/users/1234">1234</a> (1999)`, TeamAlertText("https://admin/users/", user))
}

func TestReactivateAndNotify_BlockedSubscriberIsBounded(t *testing.T) {
	user := &domain.User{ID: 99, Email: "active@example.com", Status: domain.UserStatusActive}
	identity, _ := newIdentity(user)

	var (
		errAtStart error
		errAtEnd   error
	)
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventReactivationSkipped, func(ctx context.Context, _ events.Event) error {
		errAtStart = ctx.Err()
		select {
		case <-ctx.Done():
		case <-time.After(2 * time.Second):
		}
		errAtEnd = ctx.Err()
		return errAtEnd
	})

	logger := zap.NewNop()
	orch := NewReactivationOrchestrator(OrchestratorDependencies{
		Reactivation:   NewReactivationService(identity, nil, logger),
		Dispatch:       NewDispatchService(&fakeHelpdesk{rec: &recorder{}}, NewAgentScheduler(testRoster(), moscow), profileCategory, logger),
		Chat:           &fakeChat{rec: &recorder{}},
		Dispatcher:     dispatcher,
		PublishTimeout: 50 * time.Millisecond,
		Logger:         logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	outcome, err := orch.ReactivateAndNotify(ctx, domain.Ticket{ID: 1}, "active@example.com")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.False(t, outcome.Reactivated)
	assert.Less(t, elapsed, time.Second)
	assert.NoError(t, errAtStart, "a cancelled request must not cancel event delivery")
	assert.ErrorIs(t, errAtEnd, context.DeadlineExceeded)
}

func TestNewReactivationOrchestrator_DefaultPublishTimeout(t *testing.T) {
	orch := NewReactivationOrchestrator(OrchestratorDependencies{})
	assert.Equal(t, DefaultPublishTimeout, orch.publishLimit)
}
