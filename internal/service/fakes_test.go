package service

import (
	"context"
	"errors"
	"sync"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

var errRemote = errors.New("remote unavailable")

// recorder keeps the order of collaborator calls across fakes.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeIdentity struct {
	rec        *recorder
	users      map[string]*domain.User
	getErr     error
	unlockErr  error
	approveErr error
}

func (f *fakeIdentity) GetUser(_ context.Context, ref string) (*domain.User, error) {
	f.rec.add("get_user:" + ref)
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[ref]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeIdentity) UnlockUser(_ context.Context, _ int64) error {
	f.rec.add("unlock")
	return f.unlockErr
}

func (f *fakeIdentity) ApproveUser(_ context.Context, _ int64) error {
	f.rec.add("approve")
	return f.approveErr
}

type fakeHelpdesk struct {
	rec       *recorder
	replies   []domain.TicketReply
	updates   []string
	sendErr   error
	updateErr error
}

func (f *fakeHelpdesk) SendMessage(_ context.Context, reply domain.TicketReply) error {
	f.rec.add("send_message")
	if f.sendErr != nil {
		return f.sendErr
	}
	f.replies = append(f.replies, reply)
	return nil
}

func (f *fakeHelpdesk) UpdateTicket(_ context.Context, _ int64, category string) error {
	f.rec.add("update_ticket")
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, category)
	return nil
}

type fakeChat struct {
	rec    *recorder
	alerts []string
	err    error
}

func (f *fakeChat) SendTeamAlert(_ context.Context, text string) error {
	f.rec.add("team_alert")
	if f.err != nil {
		return f.err
	}
	f.alerts = append(f.alerts, text)
	return nil
}
