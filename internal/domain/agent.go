package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is an offset from midnight.
type TimeOfDay time.Duration

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond()))
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}
	limits := []int{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("invalid time of day %q", value)
		}
		total += time.Duration(n) * units[i]
	}
	return TimeOfDay(total), nil
}

// At builds a TimeOfDay from hour and minute.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Schedule is a recurring weekly availability window. Start and End are
// inclusive and expressed in the reference timezone; windows never wrap
// past midnight.
type Schedule struct {
	Weekdays []time.Weekday
	Start    TimeOfDay
	End      TimeOfDay
}

// Covers reports whether the window includes the given weekday and time.
func (s Schedule) Covers(weekday time.Weekday, at TimeOfDay) bool {
	if at < s.Start || at > s.End {
		return false
	}
	for _, d := range s.Weekdays {
		if d == weekday {
			return true
		}
	}
	return false
}

// Validate checks the window invariants.
func (s Schedule) Validate() error {
	if len(s.Weekdays) == 0 {
		return fmt.Errorf("schedule has no weekdays")
	}
	for _, d := range s.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("invalid weekday %d", d)
		}
	}
	if s.Start > s.End {
		return fmt.Errorf("schedule start %s is after end %s", s.Start, s.End)
	}
	return nil
}

// Agent is an on-duty helpdesk identity with its weekly windows.
type Agent struct {
	ID        int64
	Name      string
	Schedules []Schedule
}

// Roster is an ordered agent list; earlier agents win ties.
type Roster []Agent

// Validate checks every agent and schedule in the roster.
func (r Roster) Validate() error {
	for _, agent := range r {
		if agent.ID == 0 {
			return fmt.Errorf("agent %q has no id", agent.Name)
		}
		if len(agent.Schedules) == 0 {
			return fmt.Errorf("agent %q has no schedules", agent.Name)
		}
		for _, s := range agent.Schedules {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("agent %q: %w", agent.Name, err)
			}
		}
	}
	return nil
}
