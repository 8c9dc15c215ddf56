// Package web hosts the backend contracts the TUI's api client speaks:
// task generation, synced-event listing, and schedule submission against the
// user's Google Calendar.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"skillplan/internal/gcal"
	"skillplan/internal/model"
	"skillplan/internal/planner"
)

// CalendarAPI is the calendar surface the handlers need. gcal.Client
// implements it; tests substitute fakes.
type CalendarAPI interface {
	Upcoming(ctx context.Context, now time.Time) ([]model.CalendarEvent, error)
	Busy(ctx context.Context, min, max time.Time) ([]planner.Interval, error)
	Insert(ctx context.Context, scheduled []model.ScheduledEvent) ([]string, error)
}

// CalendarProvider returns a calendar client for the current request, or
// gcal.ErrNoToken when the user has not authenticated.
type CalendarProvider func(ctx context.Context) (CalendarAPI, error)

type Server struct {
	logger   *slog.Logger
	validate *validator.Validate
	calendar CalendarProvider
	loc      *time.Location
	now      func() time.Time
}

func New(logger *slog.Logger, calendar CalendarProvider, loc *time.Location) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Server{
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		calendar: calendar,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/tasks", s.handleTasks)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("POST /api/schedule", s.handleSchedule)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tasksRequest struct {
	Goal              string `json:"goal"`
	Level             string `json:"level" validate:"omitempty,oneof=easy medium hard"`
	Deadline          string `json:"deadline"`
	OverrideTaskCount *int   `json:"overrideTaskCount" validate:"omitempty,min=1"`
}

// handleTasks decides a task count from the deadline and proficiency level and
// returns a breakdown. A request missing goal or deadline yields an empty
// task list rather than an error; the client treats it as nothing to show.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	var req tasksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Goal == "" || req.Deadline == "" {
		writeJSON(w, http.StatusOK, map[string]any{"tasks": []model.GeneratedTask{}})
		return
	}

	total := planner.DecideTotalTasks(req.Level, req.Deadline, req.OverrideTaskCount, s.now())
	tasks := planner.PlaceholderBreakdown(req.Goal, total)
	s.logger.Info("generated breakdown", "goal", req.Goal, "level", req.Level, "tasks", len(tasks))
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type wireEvent struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// handleEvents returns the authoritative upcoming event set. 401 means the
// user needs to (re-)authenticate, distinct from any other failure.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	cal, err := s.calendar(r.Context())
	if err != nil {
		s.writeNotAuthenticated(w, err)
		return
	}
	events, err := cal.Upcoming(r.Context(), s.now())
	if err != nil {
		if gcal.IsAuthError(err) {
			s.writeNotAuthenticated(w, err)
			return
		}
		s.logger.Error("event listing failed", "err", err)
		writeError(w, http.StatusBadGateway, "events_failed", err.Error())
		return
	}
	out := make([]wireEvent, 0, len(events))
	for _, e := range events {
		out = append(out, wireEvent{
			Title: e.Title,
			Start: e.Start.Format(time.RFC3339),
			End:   e.End.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

type scheduleRequest struct {
	Tasks     []model.GeneratedTask    `json:"tasks" validate:"required,min=1,dive"`
	StartDate string                   `json:"start_date" validate:"required"`
	Deadline  string                   `json:"deadline" validate:"required"`
	Settings  model.SchedulingSettings `json:"settings"`
}

// handleSchedule places the submitted task list into free calendar time and
// inserts the placed blocks as events. Unplaceable tasks come back in
// `unscheduled`; that is a partial result, not a failure.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	cal, err := s.calendar(r.Context())
	if err != nil {
		s.writeNotAuthenticated(w, err)
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "start_date must be RFC 3339")
		return
	}

	deadlineWall := start.In(s.loc).AddDate(0, 0, planner.DaysUntil(req.Deadline, s.now())+1)
	busy, err := cal.Busy(r.Context(), start, deadlineWall)
	if err != nil {
		if gcal.IsAuthError(err) {
			s.writeNotAuthenticated(w, err)
			return
		}
		// Free/busy is best-effort: schedule as if the calendar were empty.
		s.logger.Warn("free/busy lookup failed, scheduling into an empty calendar", "err", err)
		busy = nil
	}

	scheduled, unscheduled := planner.ScheduleTasks(req.Tasks, start, req.Deadline, busy, req.Settings, s.loc)

	ids, err := cal.Insert(r.Context(), scheduled)
	if err != nil {
		if gcal.IsAuthError(err) {
			s.writeNotAuthenticated(w, err)
			return
		}
		s.logger.Error("event insertion failed", "err", err, "inserted", len(ids))
		writeError(w, http.StatusInternalServerError, "schedule_failed", err.Error())
		return
	}

	s.logger.Info("schedule placed", "scheduled", len(scheduled), "unscheduled", len(unscheduled))
	writeJSON(w, http.StatusOK, map[string]any{
		"eventIds":    ids,
		"scheduled":   scheduled,
		"unscheduled": unscheduled,
	})
}

func (s *Server) writeNotAuthenticated(w http.ResponseWriter, err error) {
	if !errors.Is(err, gcal.ErrNoToken) {
		s.logger.Info("request rejected as unauthenticated", "err", err)
	}
	writeError(w, http.StatusUnauthorized, "not_authenticated", "")
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	body := map[string]string{"error": code}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, status, body)
}
