package gcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"skillplan/internal/model"
	"skillplan/internal/planner"
)

const primaryCalendarID = "primary"

// Client exposes the calendar operations the serve handlers need, hiding the
// generated API surface.
type Client struct {
	svc *calendar.Service
	loc *time.Location
}

func NewClient(svc *calendar.Service, loc *time.Location) *Client {
	if loc == nil {
		loc = time.Local
	}
	return &Client{svc: svc, loc: loc}
}

// Upcoming lists the user's upcoming timed events, ordered by start.
// All-day events (date without time) are skipped; the calendar pane only
// understands timed blocks.
func (c *Client) Upcoming(ctx context.Context, now time.Time) ([]model.CalendarEvent, error) {
	resp, err := c.svc.Events.List(primaryCalendarID).
		TimeMin(now.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var events []model.CalendarEvent
	for _, item := range resp.Items {
		if item.Start == nil || item.End == nil {
			continue
		}
		start, err1 := time.Parse(time.RFC3339, item.Start.DateTime)
		end, err2 := time.Parse(time.RFC3339, item.End.DateTime)
		if item.Start.DateTime == "" || item.End.DateTime == "" || err1 != nil || err2 != nil {
			continue
		}
		title := item.Summary
		if title == "" {
			title = "(No title)"
		}
		events = append(events, model.CalendarEvent{
			Title:  title,
			Start:  start,
			End:    end,
			Source: model.SourceSynced,
		})
	}
	return events, nil
}

// Busy queries free/busy for the primary calendar between min and max.
func (c *Client) Busy(ctx context.Context, min, max time.Time) ([]planner.Interval, error) {
	resp, err := c.svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin:  min.Format(time.RFC3339),
		TimeMax:  max.Format(time.RFC3339),
		TimeZone: c.loc.String(),
		Items:    []*calendar.FreeBusyRequestItem{{Id: primaryCalendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("free/busy query: %w", err)
	}

	cal, ok := resp.Calendars[primaryCalendarID]
	if !ok {
		return nil, nil
	}
	var busy []planner.Interval
	for _, period := range cal.Busy {
		start, err1 := time.Parse(time.RFC3339, period.Start)
		end, err2 := time.Parse(time.RFC3339, period.End)
		if err1 != nil || err2 != nil {
			continue
		}
		busy = append(busy, planner.Interval{Start: start.In(c.loc), End: end.In(c.loc)})
	}
	return busy, nil
}

// Insert creates one calendar event per scheduled block and returns the
// created event ids, in order.
func (c *Client) Insert(ctx context.Context, scheduled []model.ScheduledEvent) ([]string, error) {
	ids := make([]string, 0, len(scheduled))
	for _, ev := range scheduled {
		created, err := c.svc.Events.Insert(primaryCalendarID, &calendar.Event{
			Summary: ev.Summary,
			Start:   &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: c.loc.String()},
			End:     &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: c.loc.String()},
		}).Context(ctx).Do()
		if err != nil {
			return ids, fmt.Errorf("insert event %q: %w", ev.Summary, err)
		}
		ids = append(ids, created.Id)
	}
	return ids, nil
}

// IsAuthError reports whether err is a 401/403 from the Google API, which the
// serve handlers translate into their own not-authenticated response.
func IsAuthError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 401 || apiErr.Code == 403
	}
	return false
}
