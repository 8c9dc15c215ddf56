package model

import (
	"time"

	"github.com/google/uuid"
)

// Weekday is a two-letter weekday code as used in scheduling settings
// and the schedule-submission payload (MO..SU).
type Weekday string

const (
	WeekdayMO Weekday = "MO"
	WeekdayTU Weekday = "TU"
	WeekdayWE Weekday = "WE"
	WeekdayTH Weekday = "TH"
	WeekdayFR Weekday = "FR"
	WeekdaySA Weekday = "SA"
	WeekdaySU Weekday = "SU"
)

// AllWeekdays lists the codes in display order (Monday first).
var AllWeekdays = []Weekday{
	WeekdayMO, WeekdayTU, WeekdayWE, WeekdayTH, WeekdayFR, WeekdaySA, WeekdaySU,
}

var weekdayToTime = map[Weekday]time.Weekday{
	WeekdayMO: time.Monday,
	WeekdayTU: time.Tuesday,
	WeekdayWE: time.Wednesday,
	WeekdayTH: time.Thursday,
	WeekdayFR: time.Friday,
	WeekdaySA: time.Saturday,
	WeekdaySU: time.Sunday,
}

func (w Weekday) Valid() bool {
	_, ok := weekdayToTime[w]
	return ok
}

func (w Weekday) TimeWeekday() (time.Weekday, bool) {
	t, ok := weekdayToTime[w]
	return t, ok
}

// TaskEntry is one row of the editable outline. ID is assigned at creation
// and never changes; editor state is keyed by it rather than by position.
type TaskEntry struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	DurationHours float64 `json:"durationHours"`
}

// DefaultDurationHours is used when a generated task carries no usable estimate
// and for freshly inserted rows.
const DefaultDurationHours = 1.0

func NewTaskEntry(description string, durationHours float64) TaskEntry {
	if durationHours <= 0 {
		durationHours = DefaultDurationHours
	}
	return TaskEntry{
		ID:            uuid.NewString(),
		Description:   description,
		DurationHours: durationHours,
	}
}

// SchedulingSettings are the user's persistent scheduling preferences.
// The JSON tags are the schedule-submission wire form.
type SchedulingSettings struct {
	MaxHoursPerDay int       `json:"maxHoursPerDay"`
	AllowedDays    []Weekday `json:"allowedDaysOfWeek"`
}

func DefaultSchedulingSettings() SchedulingSettings {
	return SchedulingSettings{
		MaxHoursPerDay: 2,
		AllowedDays:    []Weekday{WeekdayMO, WeekdayTU, WeekdayWE, WeekdayTH, WeekdayFR},
	}
}

// AllowsWeekday reports whether d is schedulable. An empty AllowedDays set
// means no restriction.
func (s SchedulingSettings) AllowsWeekday(d time.Weekday) bool {
	if len(s.AllowedDays) == 0 {
		return true
	}
	for _, w := range s.AllowedDays {
		if t, ok := w.TimeWeekday(); ok && t == d {
			return true
		}
	}
	return false
}

// EventSource distinguishes externally synced events from events placed by a
// schedule submission this session.
type EventSource string

const (
	SourceSynced         EventSource = "synced"
	SourceNewlyScheduled EventSource = "newlyScheduled"
)

// CalendarEvent is what the calendar pane is fed. No identity is tracked
// across syncs; a sync is a full replacement.
type CalendarEvent struct {
	Title  string      `json:"title"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Source EventSource `json:"-"`
}

// GeneratedTask is one element of the generation-service response and of the
// schedule-submission task list.
type GeneratedTask struct {
	ID            int     `json:"id"`
	Task          string  `json:"task"`
	DurationHours float64 `json:"duration_hours,omitempty"`
}

// ScheduledEvent is one placed block in the scheduling-service response.
type ScheduledEvent struct {
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// UnscheduledTask identifies a task the scheduler could not place before the
// deadline. This is a recoverable partial failure, not an error.
type UnscheduledTask struct {
	ID   int    `json:"id"`
	Task string `json:"task"`
}
