package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

const profileCategory = "Редактирование профиля"

func newDispatch(helpdesk *fakeHelpdesk) *DispatchService {
	return NewDispatchService(helpdesk, NewAgentScheduler(testRoster(), moscow), profileCategory, zap.NewNop())
}

func TestNotifyReactivatedUser_Teenager(t *testing.T) {
	rec := &recorder{}
	helpdesk := &fakeHelpdesk{rec: rec}
	ticket := domain.Ticket{ID: 5001, ClientEmail: "teen@example.com"}

	result, err := newDispatch(helpdesk).NotifyReactivatedUser(context.Background(), ticket,
		time.Date(2008, 3, 15, 0, 0, 0, 0, time.UTC), msk(1, 12, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryTeenager, result.Category)
	require.NotNil(t, result.AgentID)
	assert.Equal(t, weekendAgent, *result.AgentID)

	require.Len(t, helpdesk.replies, 1)
	reply := helpdesk.replies[0]
	assert.Equal(t, int64(5001), reply.TicketID)
	assert.Len(t, reply.Attachments, 2)
	require.NotNil(t, reply.AgentID)
	assert.Equal(t, weekendAgent, *reply.AgentID)
	assert.Equal(t, []string{profileCategory}, helpdesk.updates)
	assert.Equal(t, []string{"send_message", "update_ticket"}, rec.list())
}

func TestNotifyReactivatedUser_NoAgentOnDuty(t *testing.T) {
	helpdesk := &fakeHelpdesk{rec: &recorder{}}

	result, err := newDispatch(helpdesk).NotifyReactivatedUser(context.Background(), domain.Ticket{ID: 1},
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), msk(5, 3, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryAdult, result.Category)
	assert.Nil(t, result.AgentID)
	require.Len(t, helpdesk.replies, 1)
	assert.Nil(t, helpdesk.replies[0].AgentID)
	assert.Empty(t, helpdesk.replies[0].Attachments)
}

func TestNotifyReactivatedUser_IncorrectBirthYear(t *testing.T) {
	helpdesk := &fakeHelpdesk{rec: &recorder{}}

	result, err := newDispatch(helpdesk).NotifyReactivatedUser(context.Background(), domain.Ticket{ID: 1},
		time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), msk(3, 12, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryIncorrectBirthYear, result.Category)
}

func TestNotifyReactivatedUser_ReplyFailureSkipsUpdate(t *testing.T) {
	rec := &recorder{}
	helpdesk := &fakeHelpdesk{rec: rec, sendErr: errRemote}

	_, err := newDispatch(helpdesk).NotifyReactivatedUser(context.Background(), domain.Ticket{ID: 7},
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), msk(3, 12, 0, 0))

	var dispatchErr *domain.NotificationDispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, domain.StageReply, dispatchErr.Stage)
	assert.False(t, dispatchErr.ReplySent)
	assert.Equal(t, int64(7), dispatchErr.TicketID)
	assert.Equal(t, []string{"send_message"}, rec.list())
}

func TestNotifyReactivatedUser_UpdateFailure(t *testing.T) {
	helpdesk := &fakeHelpdesk{rec: &recorder{}, updateErr: errRemote}

	result, err := newDispatch(helpdesk).NotifyReactivatedUser(context.Background(), domain.Ticket{ID: 7},
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), msk(3, 12, 0, 0))

	var dispatchErr *domain.NotificationDispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, domain.StageUpdateCategory, dispatchErr.Stage)
	assert.True(t, dispatchErr.ReplySent)
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, domain.CategoryAdult, result.Category)
	assert.Len(t, helpdesk.replies, 1)
}
