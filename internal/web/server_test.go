package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillplan/internal/gcal"
	"skillplan/internal/model"
	"skillplan/internal/planner"
)

type fakeCalendar struct {
	upcoming  []model.CalendarEvent
	busy      []planner.Interval
	insertIDs []string
	insertErr error

	inserted []model.ScheduledEvent
}

func (f *fakeCalendar) Upcoming(context.Context, time.Time) ([]model.CalendarEvent, error) {
	return f.upcoming, nil
}

func (f *fakeCalendar) Busy(context.Context, time.Time, time.Time) ([]planner.Interval, error) {
	return f.busy, nil
}

func (f *fakeCalendar) Insert(_ context.Context, scheduled []model.ScheduledEvent) ([]string, error) {
	f.inserted = scheduled
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.insertIDs != nil {
		return f.insertIDs, nil
	}
	ids := make([]string, len(scheduled))
	for i := range scheduled {
		ids[i] = "ev-" + scheduled[i].Summary
	}
	return ids, nil
}

func newTestServer(cal CalendarAPI, calErr error) *Server {
	s := New(slog.New(slog.NewTextHandler(testWriter{}, nil)), func(context.Context) (CalendarAPI, error) {
		if calErr != nil {
			return nil, calErr
		}
		return cal, nil
	}, time.UTC)
	s.now = func() time.Time { return time.Date(2025, 5, 12, 8, 0, 0, 0, time.UTC) }
	return s
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleTasks_EmptyGoalYieldsEmptyList(t *testing.T) {
	h := newTestServer(&fakeCalendar{}, nil).Handler()
	rec := do(t, h, http.MethodPost, "/api/tasks", `{"goal":"","level":"easy","deadline":"2025-06-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Tasks []model.GeneratedTask `json:"tasks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(out.Tasks))
	}
}

func TestHandleTasks_OverrideControlsCount(t *testing.T) {
	h := newTestServer(&fakeCalendar{}, nil).Handler()
	rec := do(t, h, http.MethodPost, "/api/tasks",
		`{"goal":"Learn Spanish","level":"medium","deadline":"2025-06-01","overrideTaskCount":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Tasks []model.GeneratedTask `json:"tasks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Tasks) != 5 {
		t.Fatalf("expected 5 tasks, got %d", len(out.Tasks))
	}
	for i, task := range out.Tasks {
		if task.ID != i+1 {
			t.Fatalf("expected ordered ids, got %d at %d", task.ID, i)
		}
	}
}

func TestHandleTasks_RejectsBadLevel(t *testing.T) {
	h := newTestServer(&fakeCalendar{}, nil).Handler()
	rec := do(t, h, http.MethodPost, "/api/tasks",
		`{"goal":"g","level":"impossible","deadline":"2025-06-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleEvents_NoToken401(t *testing.T) {
	h := newTestServer(nil, gcal.ErrNoToken).Handler()
	rec := do(t, h, http.MethodGet, "/api/events", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var out map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out["error"] != "not_authenticated" {
		t.Fatalf("expected not_authenticated envelope, got %v", out)
	}
}

func TestHandleEvents_ListsUpcoming(t *testing.T) {
	cal := &fakeCalendar{upcoming: []model.CalendarEvent{
		{Title: "Standup", Start: time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC), End: time.Date(2025, 5, 12, 9, 15, 0, 0, time.UTC)},
	}}
	rec := do(t, newTestServer(cal, nil).Handler(), http.MethodGet, "/api/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Events []wireEvent `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Events) != 1 || out.Events[0].Title != "Standup" {
		t.Fatalf("unexpected events: %+v", out.Events)
	}
	if _, err := time.Parse(time.RFC3339, out.Events[0].Start); err != nil {
		t.Fatalf("start not RFC 3339: %v", err)
	}
}

func TestHandleSchedule_PlacesAndReportsUnscheduled(t *testing.T) {
	cal := &fakeCalendar{}
	h := newTestServer(cal, nil).Handler()
	// One allowed day, two 2h tasks, 2h/day cap: the second cannot be placed.
	body := `{
		"tasks": [
			{"id":1,"task":"Learn greetings","duration_hours":2},
			{"id":2,"task":"Practice verbs","duration_hours":2}
		],
		"start_date": "2025-05-12T08:00:00Z",
		"deadline": "2025-05-12",
		"settings": {"maxHoursPerDay":2,"allowedDaysOfWeek":["MO"]}
	}`
	rec := do(t, h, http.MethodPost, "/api/schedule", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		EventIDs    []string                `json:"eventIds"`
		Scheduled   []model.ScheduledEvent  `json:"scheduled"`
		Unscheduled []model.UnscheduledTask `json:"unscheduled"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Scheduled) != 1 || out.Scheduled[0].Summary != "Learn greetings" {
		t.Fatalf("unexpected scheduled: %+v", out.Scheduled)
	}
	if len(out.Unscheduled) != 1 || out.Unscheduled[0].ID != 2 {
		t.Fatalf("expected task 2 unscheduled, got %+v", out.Unscheduled)
	}
	if len(out.EventIDs) != 1 {
		t.Fatalf("expected one created event id, got %v", out.EventIDs)
	}
	if len(cal.inserted) != 1 {
		t.Fatalf("expected one insertion, got %d", len(cal.inserted))
	}
}

func TestHandleSchedule_InsertFailureIs500WithMessage(t *testing.T) {
	cal := &fakeCalendar{insertErr: errors.New("quota exceeded")}
	h := newTestServer(cal, nil).Handler()
	body := `{
		"tasks": [{"id":1,"task":"A","duration_hours":1}],
		"start_date": "2025-05-12T08:00:00Z",
		"deadline": "2025-05-18",
		"settings": {"maxHoursPerDay":2,"allowedDaysOfWeek":["MO","TU"]}
	}`
	rec := do(t, h, http.MethodPost, "/api/schedule", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var out map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out["error"] != "schedule_failed" || !strings.Contains(out["message"], "quota exceeded") {
		t.Fatalf("expected schedule_failed with message, got %v", out)
	}
}

func TestHandleSchedule_MissingTasksRejected(t *testing.T) {
	h := newTestServer(&fakeCalendar{}, nil).Handler()
	rec := do(t, h, http.MethodPost, "/api/schedule",
		`{"tasks":[],"start_date":"2025-05-12T08:00:00Z","deadline":"2025-05-18","settings":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
