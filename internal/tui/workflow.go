package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"skillplan/internal/api"
	"skillplan/internal/outline"
	"skillplan/internal/store"
)

const requestTimeout = 90 * time.Second

// submitGoal validates the goal form and, when valid, enters
// GeneratingOutline. Invalid input never causes a state transition.
func (m appModel) submitGoal() (appModel, tea.Cmd) {
	goal := strings.TrimSpace(m.goalInput.Value())
	deadline := strings.TrimSpace(m.deadlineInput.Value())
	if goal == "" {
		m.showMinibuffer("A goal is required")
		return m, nil
	}
	if deadline == "" {
		m.showMinibuffer("A deadline is required")
		return m, nil
	}
	if _, err := time.Parse("2006-01-02", deadline); err != nil {
		m.showMinibuffer("Deadline must be YYYY-MM-DD")
		return m, nil
	}
	if m.generating {
		m.showMinibuffer("Generation already in progress")
		return m, nil
	}

	var override *int
	if v := strings.TrimSpace(m.overrideInput.Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			m.showMinibuffer("Task count must be a number of at least 1")
			return m, nil
		}
		override = &n
	}

	// Entering generation discards any current outline on completion; the
	// request supersedes older in-flight responses via the sequence number.
	m.state = stateGenerating
	m.failReason = ""
	m.failMessage = ""
	m.generating = true
	m.genSeq++
	m.lastDeadline = deadline
	m.showMinibuffer("")

	req := api.GenerateRequest{
		Goal:              goal,
		Level:             m.level(),
		Deadline:          deadline,
		OverrideTaskCount: override,
	}
	return m, tea.Batch(m.generateCmd(m.genSeq, req), m.spinner.Tick)
}

func (m appModel) generateCmd(seq int, req api.GenerateRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tasks, err := client.GenerateTasks(ctx, req)
		if err != nil {
			return generateDoneMsg{seq: seq, errText: err.Error()}
		}
		return generateDoneMsg{seq: seq, tasks: tasks}
	}
}

func (m appModel) applyGenerateDone(msg generateDoneMsg) appModel {
	if msg.seq != m.genSeq {
		return m
	}
	m.generating = false
	if msg.errText != "" {
		m.state = stateFailed
		m.failReason = failGeneration
		m.failMessage = msg.errText
		m.notice = noticeState{
			title: "Could not generate tasks",
			lines: []string{msg.errText, "", "Submit the goal again to retry."},
			isErr: true,
		}
		m.modal = modalNotice
		return m
	}

	// A successful response with an empty task list still reaches
	// OutlineReady; downstream actions just stay disabled.
	m.outline = outline.FromGenerationResult(msg.tasks)
	m.state = stateOutlineReady
	m.scheduleArmed = m.outline.Len() > 0
	m.focusedEntryID = ""
	m.editorCol = editDescription
	m.editing = false
	m.editorScroll = 0
	if e := m.outline.EntryAt(0); e != nil {
		m.focusedEntryID = e.ID
	}
	if m.outline.Len() == 0 {
		m.showMinibuffer("The generator returned no tasks")
	} else {
		m.focus = focusBrowse
		m.goalInput.Blur()
		m.deadlineInput.Blur()
		m.overrideInput.Blur()
	}
	return m
}

// canSubmitSchedule gates "add to calendar": an armed outline with content,
// no in-flight submission, and a workflow state that permits retrying.
func (m appModel) canSubmitSchedule() bool {
	if m.submitting || !m.scheduleArmed {
		return false
	}
	if m.state != stateOutlineReady && !(m.state == stateFailed && m.failReason == failSchedule) {
		return false
	}
	return m.outline.HasContent()
}

// buildScheduleRequest snapshots the submission payload: the current
// (possibly edited) outline contents, the current deadline, and the settings
// as saved right now.
func (m appModel) buildScheduleRequest() api.ScheduleRequest {
	return api.ScheduleRequest{
		Tasks:     m.outline.Tasks(),
		StartDate: m.now().Format(time.RFC3339),
		Deadline:  m.currentDeadline(),
		Settings:  store.LoadSettings(),
	}
}

func (m appModel) submitSchedule() (appModel, tea.Cmd) {
	if m.submitting {
		m.showMinibuffer("Schedule submission already in progress")
		return m, nil
	}
	if !m.canSubmitSchedule() {
		m.showMinibuffer("Nothing to schedule")
		return m, nil
	}

	m.state = stateSubmitting
	m.failReason = ""
	m.failMessage = ""
	m.submitting = true
	m.schedSeq++
	m.showMinibuffer("")
	return m, tea.Batch(m.scheduleCmd(m.schedSeq, m.buildScheduleRequest()), m.spinner.Tick)
}

func (m appModel) scheduleCmd(seq int, req api.ScheduleRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := client.SubmitSchedule(ctx, req)
		if err != nil {
			if errors.Is(err, api.ErrNotAuthenticated) {
				return scheduleDoneMsg{seq: seq, notAuthed: true}
			}
			return scheduleDoneMsg{seq: seq, errText: err.Error()}
		}
		return scheduleDoneMsg{seq: seq, result: res}
	}
}

func (m appModel) applyScheduleDone(msg scheduleDoneMsg) (appModel, tea.Cmd) {
	if msg.seq != m.schedSeq {
		return m, nil
	}
	m.submitting = false

	if msg.notAuthed {
		// The outline survives; the user retries after re-authenticating.
		m.state = stateOutlineReady
		m.authRequired = true
		return m, nil
	}
	if msg.errText != "" {
		m.state = stateFailed
		m.failReason = failSchedule
		m.failMessage = msg.errText
		m.notice = noticeState{
			title: "Scheduling failed",
			lines: []string{msg.errText, "", "Your outline is unchanged; press a to retry."},
			isErr: true,
		}
		m.modal = modalNotice
		return m, nil
	}

	m.state = stateScheduleComplete
	m.scheduleArmed = false
	m.events.OverlayScheduled(msg.result.Scheduled)
	m.refreshCalendar()

	if len(msg.result.Unscheduled) > 0 {
		lines := []string{"These tasks did not fit before the deadline:", ""}
		for _, u := range msg.result.Unscheduled {
			lines = append(lines, fmt.Sprintf("  #%d %s", u.ID, u.Task))
		}
		lines = append(lines, "", "Everything else was placed on your calendar.")
		m.notice = noticeState{title: "Partially scheduled", lines: lines}
		m.modal = modalNotice
	}

	m.doneSeq++
	seq := m.doneSeq
	return m, tea.Tick(scheduleCompleteDelay, func(time.Time) tea.Msg {
		return completeShownMsg{seq: seq}
	})
}

// startSync kicks the independent calendar sync. It is available in every
// workflow state and guarded separately from generation/scheduling.
func (m appModel) startSync() (appModel, tea.Cmd) {
	if m.syncing {
		m.showMinibuffer("Sync already in progress")
		return m, nil
	}
	m.syncing = true
	m.syncSeq++
	return m, tea.Batch(m.syncCmd(m.syncSeq), m.spinner.Tick)
}

func (m appModel) syncCmd(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		events, err := client.FetchEvents(ctx)
		if err != nil {
			if errors.Is(err, api.ErrNotAuthenticated) {
				return syncDoneMsg{seq: seq, notAuthed: true}
			}
			return syncDoneMsg{seq: seq, errText: err.Error()}
		}
		return syncDoneMsg{seq: seq, events: events}
	}
}

func (m appModel) applySyncDone(msg syncDoneMsg) appModel {
	if msg.seq != m.syncSeq {
		return m
	}
	m.syncing = false

	if msg.notAuthed {
		// Never an inline error: route to re-authentication.
		m.authRequired = true
		return m
	}
	if msg.errText != "" {
		// Sync is supplementary; degrade to a status indicator.
		m.syncFailed = true
		m.syncStatus = "sync failed"
		return m
	}

	m.syncFailed = false
	m.events.ApplySync(msg.events)
	m.refreshCalendar()
	m.syncStatus = fmt.Sprintf("synced %d events at %s", len(msg.events), m.now().Format("15:04"))
	return m
}
