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
)

type memoryJournal struct {
	mu        sync.Mutex
	records   []domain.ReactivationRecord
	createErr error
	lastLimit int
}

func (m *memoryJournal) Create(_ context.Context, record *domain.ReactivationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryJournal) ListByUser(_ context.Context, userID int64, limit int) ([]domain.ReactivationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	var out []domain.ReactivationRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestAuditService_StoresEveryEventType(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	journal := &memoryJournal{}
	NewAuditService(dispatcher, journal, zap.NewNop()).RegisterHandlers()

	category := domain.CategoryAdult
	agent := int64(103)
	ts := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	for i, eventType := range events.AllEventTypes() {
		err := dispatcher.Publish(context.Background(), events.Event{
			ID:        string(rune('a' + i)),
			Type:      eventType,
			UserID:    42,
			TicketID:  7,
			Timestamp: ts,
			Payload:   events.ReactivationPayload{Reactivated: true, Message: "m", Category: &category, AgentID: &agent},
		})
		require.NoError(t, err)
	}

	require.Len(t, journal.records, 3)
	record := journal.records[0]
	assert.Equal(t, int64(42), record.UserID)
	assert.Equal(t, int64(7), record.TicketID)
	assert.True(t, record.Reactivated)
	assert.Equal(t, &category, record.Category)
	assert.Equal(t, &agent, record.AgentID)
	assert.Equal(t, ts, record.CreatedAt)
}

func TestAuditService_PropagatesStoreErrors(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	journal := &memoryJournal{createErr: errRemote}
	NewAuditService(dispatcher, journal, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{ID: "x", Type: events.EventUserReactivated})
	assert.ErrorIs(t, err, errRemote)
}

func TestAuditService_History(t *testing.T) {
	journal := &memoryJournal{records: []domain.ReactivationRecord{{UserID: 1}, {UserID: 2}, {UserID: 1}}}
	svc := NewAuditService(nil, journal, zap.NewNop())

	records, err := svc.History(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 20, journal.lastLimit)

	_, err = svc.History(context.Background(), 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 20, journal.lastLimit)

	_, err = svc.History(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, journal.lastLimit)
}

func TestAuditService_DisabledJournal(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewAuditService(dispatcher, nil, zap.NewNop())
	svc.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventUserReactivated}))
	records, err := svc.History(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Nil(t, records)
}
