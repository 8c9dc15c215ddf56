package planner

import (
	"testing"
	"time"

	"skillplan/internal/model"
)

var utc = time.UTC

// Monday 2025-05-12.
func monday(h int) time.Time { return time.Date(2025, 5, 12, h, 0, 0, 0, utc) }

func allDays() model.SchedulingSettings {
	return model.SchedulingSettings{MaxHoursPerDay: 0, AllowedDays: model.AllWeekdays}
}

func TestScheduleTasks_PlacesSequentiallyFromWorkStart(t *testing.T) {
	tasks := []model.GeneratedTask{
		{ID: 1, Task: "A", DurationHours: 2},
		{ID: 2, Task: "B", DurationHours: 1.5},
	}
	scheduled, unscheduled := ScheduleTasks(tasks, monday(13), "2025-05-18", nil, allDays(), utc)
	if len(unscheduled) != 0 {
		t.Fatalf("unexpected unscheduled: %+v", unscheduled)
	}
	if len(scheduled) != 2 {
		t.Fatalf("expected 2 placed, got %d", len(scheduled))
	}
	// Placement starts at the working-window start regardless of the start timestamp.
	if !scheduled[0].Start.Equal(monday(9)) || !scheduled[0].End.Equal(monday(11)) {
		t.Fatalf("first block misplaced: %+v", scheduled[0])
	}
	if !scheduled[1].Start.Equal(monday(11)) {
		t.Fatalf("second block should follow the first, got %+v", scheduled[1])
	}
}

func TestScheduleTasks_SkipsBusyIntervals(t *testing.T) {
	busy := []Interval{
		{Start: monday(9), End: monday(10)},
		{Start: monday(10).Add(30 * time.Minute), End: monday(12)},
	}
	tasks := []model.GeneratedTask{{ID: 1, Task: "Deep work", DurationHours: 2}}
	scheduled, unscheduled := ScheduleTasks(tasks, monday(8), "2025-05-12", busy, allDays(), utc)
	if len(unscheduled) != 0 {
		t.Fatalf("unexpected unscheduled: %+v", unscheduled)
	}
	// The 10:00-10:30 gap is too small; first fitting window opens at 12:00.
	if !scheduled[0].Start.Equal(monday(12)) {
		t.Fatalf("expected placement at 12:00, got %v", scheduled[0].Start)
	}
}

func TestScheduleTasks_RespectsAllowedWeekdays(t *testing.T) {
	settings := model.SchedulingSettings{
		AllowedDays: []model.Weekday{model.WeekdayWE},
	}
	tasks := []model.GeneratedTask{{ID: 1, Task: "Midweek only", DurationHours: 1}}
	scheduled, unscheduled := ScheduleTasks(tasks, monday(9), "2025-05-18", nil, settings, utc)
	if len(unscheduled) != 0 {
		t.Fatalf("unexpected unscheduled: %+v", unscheduled)
	}
	if scheduled[0].Start.Weekday() != time.Wednesday {
		t.Fatalf("expected Wednesday placement, got %v", scheduled[0].Start)
	}
}

func TestScheduleTasks_MaxHoursPerDaySpillsToNextDay(t *testing.T) {
	settings := model.SchedulingSettings{
		MaxHoursPerDay: 2,
		AllowedDays:    model.AllWeekdays,
	}
	tasks := []model.GeneratedTask{
		{ID: 1, Task: "A", DurationHours: 2},
		{ID: 2, Task: "B", DurationHours: 2},
	}
	scheduled, unscheduled := ScheduleTasks(tasks, monday(9), "2025-05-18", nil, settings, utc)
	if len(unscheduled) != 0 {
		t.Fatalf("unexpected unscheduled: %+v", unscheduled)
	}
	if !scheduled[0].Start.Equal(monday(9)) {
		t.Fatalf("first block misplaced: %+v", scheduled[0])
	}
	next := scheduled[1].Start
	if next.Day() != 13 || next.Hour() != WorkStartHour {
		t.Fatalf("second block should spill to Tuesday 09:00, got %v", next)
	}
}

func TestScheduleTasks_UnplaceableBeforeDeadline(t *testing.T) {
	// One allowed day, fully busy: the task cannot be placed.
	busy := []Interval{{Start: monday(9), End: monday(22)}}
	settings := model.SchedulingSettings{AllowedDays: []model.Weekday{model.WeekdayMO}}
	tasks := []model.GeneratedTask{
		{ID: 1, Task: "Fits nowhere", DurationHours: 1},
	}
	scheduled, unscheduled := ScheduleTasks(tasks, monday(9), "2025-05-12", busy, settings, utc)
	if len(scheduled) != 0 {
		t.Fatalf("expected nothing placed, got %+v", scheduled)
	}
	if len(unscheduled) != 1 || unscheduled[0].ID != 1 || unscheduled[0].Task != "Fits nowhere" {
		t.Fatalf("expected the task reported unplaced, got %+v", unscheduled)
	}
}

func TestScheduleTasks_PlacedBlocksBecomeBusy(t *testing.T) {
	tasks := []model.GeneratedTask{
		{ID: 1, Task: "A", DurationHours: 3},
		{ID: 2, Task: "B", DurationHours: 3},
		{ID: 3, Task: "C", DurationHours: 3},
	}
	scheduled, _ := ScheduleTasks(tasks, monday(9), "2025-05-13", nil, allDays(), utc)
	for i := 1; i < len(scheduled); i++ {
		if scheduled[i].Start.Before(scheduled[i-1].End) {
			t.Fatalf("blocks overlap: %+v then %+v", scheduled[i-1], scheduled[i])
		}
	}
}

func TestScheduleTasks_DefaultsMissingDuration(t *testing.T) {
	tasks := []model.GeneratedTask{{ID: 1, Task: "No estimate"}}
	scheduled, _ := ScheduleTasks(tasks, monday(9), "2025-05-12", nil, allDays(), utc)
	if len(scheduled) != 1 {
		t.Fatalf("expected placement, got none")
	}
	if got := scheduled[0].End.Sub(scheduled[0].Start); got != time.Hour {
		t.Fatalf("expected 1h default block, got %v", got)
	}
}
