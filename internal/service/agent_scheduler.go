package service

import (
	"time"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// ResolveAgent picks the agent on duty at now. An override short-circuits
// the roster. Otherwise now is converted to loc and the first agent with a
// covering schedule wins. It returns nil when nobody is on duty.
func ResolveAgent(now time.Time, loc *time.Location, roster domain.Roster, override *int64) *int64 {
	if override != nil {
		id := *override
		return &id
	}

	local := now.In(loc)
	weekday := local.Weekday()
	at := domain.ClockOf(local)

	for _, agent := range roster {
		for _, schedule := range agent.Schedules {
			if schedule.Covers(weekday, at) {
				id := agent.ID
				return &id
			}
		}
	}
	return nil
}

// AgentScheduler binds a roster to the reference timezone.
type AgentScheduler struct {
	roster domain.Roster
	loc    *time.Location
}

// NewAgentScheduler creates a scheduler. A nil location means UTC.
func NewAgentScheduler(roster domain.Roster, loc *time.Location) *AgentScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &AgentScheduler{roster: roster, loc: loc}
}

// Resolve returns the agent on duty at now, or override when set.
func (s *AgentScheduler) Resolve(now time.Time, override *int64) *int64 {
	return ResolveAgent(now, s.loc, s.roster, override)
}

// Location returns the reference timezone.
func (s *AgentScheduler) Location() *time.Location {
	return s.loc
}
