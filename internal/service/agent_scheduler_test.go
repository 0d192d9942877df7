package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

var moscow = time.FixedZone("MSK", 3*60*60)

const (
	weekendAgent int64 = 101
	eveningAgent int64 = 102
	dayAgent     int64 = 103
)

func testRoster() domain.Roster {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	return domain.Roster{
		{ID: weekendAgent, Name: "weekend", Schedules: []domain.Schedule{{
			Weekdays: []time.Weekday{time.Saturday, time.Sunday}, Start: domain.At(9, 0), End: domain.At(23, 0),
		}}},
		{ID: eveningAgent, Name: "evening", Schedules: []domain.Schedule{{
			Weekdays: weekdays, Start: domain.At(18, 0), End: domain.At(23, 0),
		}}},
		{ID: dayAgent, Name: "day", Schedules: []domain.Schedule{{
			Weekdays: weekdays, Start: domain.At(10, 0), End: domain.At(18, 0),
		}}},
	}
}

func msk(day, hour, minute, sec int) time.Time {
	// June 2024: the 1st is a Saturday, the 3rd a Monday.
	return time.Date(2024, time.June, day, hour, minute, sec, 0, moscow)
}

func agentPtr(id int64) *int64 {
	return &id
}

func TestResolveAgent(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want *int64
	}{
		{name: "saturday noon", now: msk(1, 12, 0, 0), want: agentPtr(weekendAgent)},
		{name: "sunday late evening", now: msk(2, 22, 59, 0), want: agentPtr(weekendAgent)},
		{name: "weekend start is inclusive", now: msk(1, 9, 0, 0), want: agentPtr(weekendAgent)},
		{name: "weekend end is inclusive", now: msk(2, 23, 0, 0), want: agentPtr(weekendAgent)},
		{name: "saturday before shift", now: msk(1, 8, 59, 59), want: nil},
		{name: "sunday after shift", now: msk(2, 23, 0, 1), want: nil},
		{name: "monday daytime", now: msk(3, 10, 0, 0), want: agentPtr(dayAgent)},
		{name: "friday afternoon", now: msk(7, 15, 30, 0), want: agentPtr(dayAgent)},
		{name: "weekday evening", now: msk(4, 20, 0, 0), want: agentPtr(eveningAgent)},
		{name: "shift boundary goes to first listed agent", now: msk(3, 18, 0, 0), want: agentPtr(eveningAgent)},
		{name: "weekday early morning", now: msk(5, 7, 0, 0), want: nil},
		{name: "weekday night", now: msk(5, 23, 30, 0), want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveAgent(tc.now, moscow, testRoster(), nil)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveAgent_ConvertsToReferenceZone(t *testing.T) {
	// 07:00 UTC on Monday is 10:00 in Moscow.
	now := time.Date(2024, time.June, 3, 7, 0, 0, 0, time.UTC)

	assert.Equal(t, agentPtr(dayAgent), ResolveAgent(now, moscow, testRoster(), nil))
	assert.Nil(t, ResolveAgent(now, time.UTC, testRoster(), nil))
}

func TestResolveAgent_OverrideWins(t *testing.T) {
	override := int64(555)

	got := ResolveAgent(msk(1, 12, 0, 0), moscow, testRoster(), &override)
	require.NotNil(t, got)
	assert.Equal(t, override, *got)

	got = ResolveAgent(msk(5, 3, 0, 0), moscow, testRoster(), &override)
	require.NotNil(t, got)
	assert.Equal(t, override, *got)
}

func TestResolveAgent_EmptyRoster(t *testing.T) {
	assert.Nil(t, ResolveAgent(msk(3, 12, 0, 0), moscow, nil, nil))
}

func TestResolveAgent_Deterministic(t *testing.T) {
	now := msk(3, 18, 0, 0)
	first := ResolveAgent(now, moscow, testRoster(), nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ResolveAgent(now, moscow, testRoster(), nil))
	}
}

func TestAgentScheduler_DefaultsToUTC(t *testing.T) {
	scheduler := NewAgentScheduler(testRoster(), nil)
	assert.Equal(t, time.UTC, scheduler.Location())

	now := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, agentPtr(dayAgent), scheduler.Resolve(now, nil))
}
