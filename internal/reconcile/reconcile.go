// Package reconcile merges externally synced calendar events with events
// placed by a schedule submission this session. A sync is authoritative and
// replaces the whole displayed set; the overlay only exists to show
// just-scheduled events before a future sync makes them durable.
package reconcile

import (
	"sort"

	"skillplan/internal/model"
)

// EventSet is the displayed calendar event set fed to the calendar pane.
// The zero value is an empty set.
type EventSet struct {
	events []model.CalendarEvent
}

// ApplySync replaces the entire set with the synced events. Any overlaid
// newly-scheduled events are discarded; they reappear via sync once the
// backend has durably stored them.
func (s *EventSet) ApplySync(events []model.CalendarEvent) {
	s.events = make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		e.Source = model.SourceSynced
		s.events = append(s.events, e)
	}
}

// OverlayScheduled appends newly placed events without touching what is
// already shown. Overlaid events keep the newlyScheduled tag so the pane can
// highlight them.
func (s *EventSet) OverlayScheduled(events []model.ScheduledEvent) {
	for _, e := range events {
		s.events = append(s.events, model.CalendarEvent{
			Title:  e.Summary,
			Start:  e.Start,
			End:    e.End,
			Source: model.SourceNewlyScheduled,
		})
	}
}

// Events returns a copy of the displayed set ordered by start time.
func (s *EventSet) Events() []model.CalendarEvent {
	out := make([]model.CalendarEvent, len(s.events))
	copy(out, s.events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func (s *EventSet) Len() int { return len(s.events) }
