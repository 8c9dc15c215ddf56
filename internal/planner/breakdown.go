// Package planner holds the scheduling-side logic hosted by `skillplan serve`:
// deciding how many tasks a goal breaks into and greedily placing task blocks
// into free calendar time before a deadline.
package planner

import (
	"fmt"
	"math"
	"strings"
	"time"

	"skillplan/internal/model"
)

const fallbackDays = 7

// DaysUntil returns whole days from now's date to the deadline (YYYY-MM-DD or
// RFC3339), floored at 1. An unparseable deadline counts as a week out.
func DaysUntil(deadline string, now time.Time) int {
	d, ok := parseDeadlineDate(deadline)
	if !ok {
		return fallbackDays
	}
	today := now.UTC().Truncate(24 * time.Hour)
	days := int(d.Sub(today).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func parseDeadlineDate(deadline string) (time.Time, bool) {
	deadline = strings.TrimSpace(deadline)
	if t, err := time.Parse("2006-01-02", deadline); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, deadline); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func proficiencyMultiplier(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "easy":
		return 0.8
	case "hard":
		return 1.2
	default:
		return 1.0
	}
}

// DecideTotalTasks picks the task count for a breakdown: an explicit override
// of at least 1 wins; otherwise roughly one task per remaining day, scaled by
// proficiency level, never below 1.
func DecideTotalTasks(level, deadline string, override *int, now time.Time) int {
	if override != nil && *override >= 1 {
		return *override
	}
	days := DaysUntil(deadline, now)
	n := int(math.Round(float64(days) * proficiencyMultiplier(level)))
	if n < 1 {
		return 1
	}
	return n
}

// PlaceholderBreakdown produces the degraded breakdown used when no external
// generator is configured: evenly numbered one-hour steps toward the goal.
func PlaceholderBreakdown(goal string, total int) []model.GeneratedTask {
	if total < 1 {
		total = 1
	}
	tasks := make([]model.GeneratedTask, 0, total)
	for i := 1; i <= total; i++ {
		tasks = append(tasks, model.GeneratedTask{
			ID:            i,
			Task:          fmt.Sprintf("Step %d toward %q", i, strings.TrimSpace(goal)),
			DurationHours: 1,
		})
	}
	return tasks
}
