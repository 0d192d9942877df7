package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// DefaultRoster returns the built-in three-agent week: weekends 09:00-23:00,
// weekday evenings 18:00-23:00 and weekday daytime 10:00-18:00. Agents whose
// id is not configured are left out.
func DefaultRoster(cfg ReactivationConfig) domain.Roster {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	candidates := domain.Roster{
		{
			ID:   cfg.WeekendAgentID,
			Name: "weekend",
			Schedules: []domain.Schedule{{
				Weekdays: []time.Weekday{time.Saturday, time.Sunday},
				Start:    domain.At(9, 0),
				End:      domain.At(23, 0),
			}},
		},
		{
			ID:   cfg.EveningAgentID,
			Name: "evening",
			Schedules: []domain.Schedule{{
				Weekdays: weekdays,
				Start:    domain.At(18, 0),
				End:      domain.At(23, 0),
			}},
		},
		{
			ID:   cfg.DayAgentID,
			Name: "day",
			Schedules: []domain.Schedule{{
				Weekdays: weekdays,
				Start:    domain.At(10, 0),
				End:      domain.At(18, 0),
			}},
		},
	}

	roster := make(domain.Roster, 0, len(candidates))
	for _, agent := range candidates {
		if agent.ID != 0 {
			roster = append(roster, agent)
		}
	}
	return roster
}

// LoadRoster reads the roster file when configured, otherwise it falls back
// to DefaultRoster.
func LoadRoster(cfg ReactivationConfig) (domain.Roster, error) {
	if cfg.RosterFile == "" {
		return DefaultRoster(cfg), nil
	}
	content, err := os.ReadFile(cfg.RosterFile)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return ParseRoster(content)
}

type rosterFile struct {
	Agents []rosterAgent `yaml:"agents"`
}

type rosterAgent struct {
	ID        int64            `yaml:"id"`
	Name      string           `yaml:"name"`
	Schedules []rosterSchedule `yaml:"schedules"`
}

type rosterSchedule struct {
	Weekdays []weekday `yaml:"weekdays"`
	Start    string    `yaml:"start"`
	End      string    `yaml:"end"`
}

type weekday time.Weekday

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

func (w *weekday) UnmarshalYAML(node *yaml.Node) error {
	name := strings.ToLower(strings.TrimSpace(node.Value))
	if len(name) > 3 {
		name = name[:3]
	}
	d, ok := weekdayNames[name]
	if !ok {
		return fmt.Errorf("line %d: unknown weekday %q", node.Line, node.Value)
	}
	*w = weekday(d)
	return nil
}

// ParseRoster decodes a YAML roster and validates it.
func ParseRoster(content []byte) (domain.Roster, error) {
	var file rosterFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}

	roster := make(domain.Roster, 0, len(file.Agents))
	for _, a := range file.Agents {
		agent := domain.Agent{ID: a.ID, Name: a.Name}
		for _, s := range a.Schedules {
			start, err := domain.ParseTimeOfDay(s.Start)
			if err != nil {
				return nil, fmt.Errorf("agent %q: %w", a.Name, err)
			}
			end, err := domain.ParseTimeOfDay(s.End)
			if err != nil {
				return nil, fmt.Errorf("agent %q: %w", a.Name, err)
			}
			days := make([]time.Weekday, 0, len(s.Weekdays))
			for _, d := range s.Weekdays {
				days = append(days, time.Weekday(d))
			}
			agent.Schedules = append(agent.Schedules, domain.Schedule{Weekdays: days, Start: start, End: end})
		}
		roster = append(roster, agent)
	}

	if err := roster.Validate(); err != nil {
		return nil, err
	}
	return roster, nil
}
