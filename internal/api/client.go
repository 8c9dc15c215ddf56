// Package api is the HTTP client for the planner backend: task generation,
// synced-event fetch, and schedule submission. It speaks the same wire
// contracts `skillplan serve` hosts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skillplan/internal/model"
)

// ErrNotAuthenticated is returned when the backend answers 401. Callers must
// route the user to re-authentication instead of rendering an inline error.
var ErrNotAuthenticated = errors.New("not authenticated")

// ServiceError is a non-2xx response with the backend's error envelope.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = strings.TrimSpace(e.Code)
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("service error (%d): %s", e.Status, msg)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateRequest carries the goal form. Level is the proficiency parameter
// (easy|medium|hard); OverrideTaskCount, when set, pins the task count.
type GenerateRequest struct {
	Goal              string `json:"goal"`
	Level             string `json:"level"`
	Deadline          string `json:"deadline"`
	OverrideTaskCount *int   `json:"overrideTaskCount,omitempty"`
}

type generateResponse struct {
	Tasks []model.GeneratedTask `json:"tasks"`
}

// GenerateTasks asks the generation service for an ordered task breakdown.
// An empty task list is a valid response, not an error.
func (c *Client) GenerateTasks(ctx context.Context, req GenerateRequest) ([]model.GeneratedTask, error) {
	var out generateResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

type wireEvent struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type eventsResponse struct {
	Events []wireEvent `json:"events"`
}

// FetchEvents returns the authoritative synced event set.
// 401 maps to ErrNotAuthenticated; events with unparseable bounds are skipped.
func (c *Client) FetchEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	var out eventsResponse
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &out); err != nil {
		return nil, err
	}
	events := make([]model.CalendarEvent, 0, len(out.Events))
	for _, e := range out.Events {
		start, err1 := time.Parse(time.RFC3339, e.Start)
		end, err2 := time.Parse(time.RFC3339, e.End)
		if err1 != nil || err2 != nil {
			continue
		}
		events = append(events, model.CalendarEvent{
			Title:  e.Title,
			Start:  start,
			End:    end,
			Source: model.SourceSynced,
		})
	}
	return events, nil
}

// ScheduleRequest carries the current (possibly user-edited) outline, the
// scheduling window, and the user's scheduling settings.
type ScheduleRequest struct {
	Tasks     []model.GeneratedTask    `json:"tasks"`
	StartDate string                   `json:"start_date"`
	Deadline  string                   `json:"deadline"`
	Settings  model.SchedulingSettings `json:"settings"`
}

// ScheduleResult is the scheduling service's 2xx response. Unscheduled tasks
// are a partial-failure signal to surface, not a fatal condition.
type ScheduleResult struct {
	EventIDs    []string                `json:"eventIds"`
	Scheduled   []model.ScheduledEvent  `json:"scheduled"`
	Unscheduled []model.UnscheduledTask `json:"unscheduled"`
}

func (c *Client) SubmitSchedule(ctx context.Context, req ScheduleRequest) (ScheduleResult, error) {
	var out ScheduleResult
	if err := c.do(ctx, http.MethodPost, "/api/schedule", req, &out); err != nil {
		return ScheduleResult{}, err
	}
	return out, nil
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&env)
		return &ServiceError{Status: resp.StatusCode, Code: env.Error, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
