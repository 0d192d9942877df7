package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

const sampleRoster = `
agents:
  - id: 101
    name: weekend
    schedules:
      - weekdays: [sat, Sunday]
        start: "09:00"
        end: "23:00"
  - id: 103
    name: day
    schedules:
      - weekdays: [mon, tue, wed, thu, fri]
        start: "10:00"
        end: "18:00:30"
`

func TestParseRoster(t *testing.T) {
	roster, err := ParseRoster([]byte(sampleRoster))
	require.NoError(t, err)
	require.Len(t, roster, 2)

	weekend := roster[0]
	assert.Equal(t, int64(101), weekend.ID)
	assert.Equal(t, "weekend", weekend.Name)
	require.Len(t, weekend.Schedules, 1)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, weekend.Schedules[0].Weekdays)
	assert.Equal(t, domain.At(9, 0), weekend.Schedules[0].Start)

	day := roster[1].Schedules[0]
	assert.Len(t, day.Weekdays, 5)
	assert.Equal(t, domain.At(18, 0)+domain.TimeOfDay(30*time.Second), day.End)
}

func TestParseRoster_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown weekday": "agents:\n  - id: 1\n    schedules:\n      - weekdays: [funday]\n        start: \"09:00\"\n        end: \"10:00\"\n",
		"bad time":        "agents:\n  - id: 1\n    schedules:\n      - weekdays: [mon]\n        start: \"25:00\"\n        end: \"10:00\"\n",
		"start after end": "agents:\n  - id: 1\n    schedules:\n      - weekdays: [mon]\n        start: \"19:00\"\n        end: \"10:00\"\n",
		"missing id":      "agents:\n  - name: x\n    schedules:\n      - weekdays: [mon]\n        start: \"09:00\"\n        end: \"10:00\"\n",
		"not yaml":        "agents: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoster([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestDefaultRoster(t *testing.T) {
	roster := DefaultRoster(ReactivationConfig{WeekendAgentID: 1, EveningAgentID: 2, DayAgentID: 3})
	require.Len(t, roster, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{roster[0].ID, roster[1].ID, roster[2].ID})
	require.NoError(t, roster.Validate())

	evening := roster[1].Schedules[0]
	assert.Equal(t, domain.At(18, 0), evening.Start)
	assert.Equal(t, domain.At(23, 0), evening.End)
}

func TestDefaultRoster_SkipsUnsetAgents(t *testing.T) {
	roster := DefaultRoster(ReactivationConfig{DayAgentID: 3})
	require.Len(t, roster, 1)
	assert.Equal(t, "day", roster[0].Name)
}

func TestLoadRoster_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRoster), 0o600))

	roster, err := LoadRoster(ReactivationConfig{RosterFile: path, DayAgentID: 9})
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	_, err = LoadRoster(ReactivationConfig{RosterFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestExampleRosterParses(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "configs", "roster.example.yaml"))
	require.NoError(t, err)

	roster, err := ParseRoster(content)
	require.NoError(t, err)
	assert.Len(t, roster, 3)
}
