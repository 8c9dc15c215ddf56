// Package outline holds the in-memory task outline: the ordered, editable
// list of tasks produced from a goal, owned by the workflow between
// generation and schedule submission. It is never persisted; each successful
// generation replaces it wholesale.
package outline

import (
	"strings"

	"skillplan/internal/model"
)

type Outline struct {
	entries []model.TaskEntry
}

// FromGenerationResult maps a generation-service response to a fresh outline,
// preserving order. Missing, zero or negative duration estimates default to 1.
// An empty response yields an empty outline; callers are expected to disable
// downstream actions in that case.
func FromGenerationResult(items []model.GeneratedTask) *Outline {
	o := &Outline{}
	for _, it := range items {
		o.entries = append(o.entries, model.NewTaskEntry(it.Task, it.DurationHours))
	}
	return o
}

func (o *Outline) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// EntryAt returns a pointer into the outline so field edits write through.
// Returns nil when i is out of range.
func (o *Outline) EntryAt(i int) *model.TaskEntry {
	if o == nil || i < 0 || i >= len(o.entries) {
		return nil
	}
	return &o.entries[i]
}

// IndexOf returns the current position of the entry with the given id,
// or -1. Positions shift on insert/remove; ids do not.
func (o *Outline) IndexOf(id string) int {
	if o == nil {
		return -1
	}
	for i := range o.entries {
		if o.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// InsertAfter inserts a blank entry (empty description, default duration)
// immediately after index i and returns the new entry's id. An out-of-range
// i appends at the end rather than failing.
func (o *Outline) InsertAfter(i int) string {
	entry := model.NewTaskEntry("", model.DefaultDurationHours)
	if i < 0 || i >= len(o.entries) {
		o.entries = append(o.entries, entry)
		return entry.ID
	}
	o.entries = append(o.entries, model.TaskEntry{})
	copy(o.entries[i+2:], o.entries[i+1:])
	o.entries[i+1] = entry
	return entry.ID
}

// RemoveAt removes the entry at i. Removing the last remaining entry is a
// no-op: once populated, an outline never drops below one entry. Reports
// whether anything was removed.
func (o *Outline) RemoveAt(i int) bool {
	if o == nil || i < 0 || i >= len(o.entries) {
		return false
	}
	if len(o.entries) <= 1 {
		return false
	}
	o.entries = append(o.entries[:i], o.entries[i+1:]...)
	return true
}

// NumberedEntry pairs an entry with its 1-based display index.
type NumberedEntry struct {
	Index int
	Entry model.TaskEntry
}

// Renumber is a pure display projection: entries in order with 1-based
// indices. It does not mutate the outline.
func (o *Outline) Renumber() []NumberedEntry {
	if o == nil {
		return nil
	}
	out := make([]NumberedEntry, 0, len(o.entries))
	for i, e := range o.entries {
		out = append(out, NumberedEntry{Index: i + 1, Entry: e})
	}
	return out
}

// Tasks projects the current (possibly edited) outline into the
// schedule-submission form, ids following display order.
func (o *Outline) Tasks() []model.GeneratedTask {
	if o == nil {
		return nil
	}
	out := make([]model.GeneratedTask, 0, len(o.entries))
	for i, e := range o.entries {
		out = append(out, model.GeneratedTask{
			ID:            i + 1,
			Task:          e.Description,
			DurationHours: e.DurationHours,
		})
	}
	return out
}

// HasContent reports whether at least one entry has a non-blank description.
func (o *Outline) HasContent() bool {
	if o == nil {
		return false
	}
	for _, e := range o.entries {
		if strings.TrimSpace(e.Description) != "" {
			return true
		}
	}
	return false
}
