package planner

import (
	"sort"
	"time"

	"skillplan/internal/model"
)

// Working window within any schedulable day, local time.
const (
	WorkStartHour = 9
	WorkEndHour   = 22
)

// Interval is a half-open busy span on the calendar.
type Interval struct {
	Start time.Time
	End   time.Time
}

// ScheduleTasks greedily places each task, in order, into the first free
// window that fits, walking day by day from start until the deadline date.
// A day is usable when its weekday is allowed and the hours already placed on
// it plus the task stay within settings.MaxHoursPerDay (a cap below 1 means
// uncapped). Busy intervals are clipped to the 09–22 working window. Placed
// blocks become busy for subsequent tasks. Tasks that fit nowhere before the
// deadline come back in unscheduled.
func ScheduleTasks(
	tasks []model.GeneratedTask,
	start time.Time,
	deadline string,
	busy []Interval,
	settings model.SchedulingSettings,
	loc *time.Location,
) (scheduled []model.ScheduledEvent, unscheduled []model.UnscheduledTask) {
	if loc == nil {
		loc = time.Local
	}
	start = start.In(loc)
	// Scheduling always begins at the working-window start of the first day.
	cursor := time.Date(start.Year(), start.Month(), start.Day(), WorkStartHour, 0, 0, 0, loc)

	deadlineDate, ok := parseDeadlineDate(deadline)
	if !ok {
		deadlineDate = time.Now().UTC().AddDate(0, 0, fallbackDays)
	}
	lastDay := time.Date(deadlineDate.Year(), deadlineDate.Month(), deadlineDate.Day(), 0, 0, 0, 0, loc)

	busy = append([]Interval(nil), busy...)
	dayHours := map[string]float64{}
	maxPerDay := float64(settings.MaxHoursPerDay)

	for _, t := range tasks {
		hours := t.DurationHours
		if hours <= 0 {
			hours = model.DefaultDurationHours
		}
		duration := time.Duration(hours * float64(time.Hour))

		slot, found := findSlot(cursor, lastDay, duration, hours, busy, dayHours, settings, maxPerDay, loc)
		if !found {
			unscheduled = append(unscheduled, model.UnscheduledTask{ID: t.ID, Task: t.Task})
			continue
		}

		scheduled = append(scheduled, model.ScheduledEvent{
			Summary: t.Task,
			Start:   slot.Start,
			End:     slot.End,
		})
		busy = append(busy, slot)
		dayKey := slot.Start.Format("2006-01-02")
		dayHours[dayKey] += hours
		cursor = slot.End
	}
	return scheduled, unscheduled
}

func findSlot(
	from time.Time,
	lastDay time.Time,
	duration time.Duration,
	hours float64,
	busy []Interval,
	dayHours map[string]float64,
	settings model.SchedulingSettings,
	maxPerDay float64,
	loc *time.Location,
) (Interval, bool) {
	probe := from
	for !dayStart(probe, loc).After(lastDay) {
		day := dayStart(probe, loc)
		dayKey := day.Format("2006-01-02")

		if settings.AllowsWeekday(day.Weekday()) {
			used := dayHours[dayKey]
			if maxPerDay < 1 || used+hours <= maxPerDay {
				windowStart := day.Add(WorkStartHour * time.Hour)
				windowEnd := day.Add(WorkEndHour * time.Hour)
				for _, w := range freeWindows(windowStart, windowEnd, busy) {
					if w.End.Sub(w.Start) >= duration {
						return Interval{Start: w.Start, End: w.Start.Add(duration)}, true
					}
				}
			}
		}

		next := day.AddDate(0, 0, 1)
		probe = next.Add(WorkStartHour * time.Hour)
	}
	return Interval{}, false
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// freeWindows carves the gaps the busy intervals leave inside [start, end).
func freeWindows(start, end time.Time, busy []Interval) []Interval {
	clipped := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if !b.End.After(start) || !b.Start.Before(end) {
			continue
		}
		s, e := b.Start, b.End
		if s.Before(start) {
			s = start
		}
		if e.After(end) {
			e = end
		}
		clipped = append(clipped, Interval{Start: s, End: e})
	}
	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Start.Before(clipped[j].Start) })

	var free []Interval
	cursor := start
	for _, b := range clipped {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(end) {
		free = append(free, Interval{Start: cursor, End: end})
	}
	return free
}
