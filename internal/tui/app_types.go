package tui

import (
	"skillplan/internal/api"
	"skillplan/internal/model"
)

// workflowState is the workflow controller's transient state. Transitions are
// linear except for returning to editing after a failure; failures are never
// terminal and every retry is user-initiated.
type workflowState int

const (
	stateIdle workflowState = iota
	stateGenerating
	stateOutlineReady
	stateSubmitting
	stateScheduleComplete
	stateFailed
)

func stateLabel(s workflowState) string {
	switch s {
	case stateIdle:
		return "idle"
	case stateGenerating:
		return "generating outline"
	case stateOutlineReady:
		return "outline ready"
	case stateSubmitting:
		return "submitting schedule"
	case stateScheduleComplete:
		return "schedule complete"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Failure reasons carried alongside stateFailed.
const (
	failGeneration = "generation-error"
	failSchedule   = "schedule-error"
)

// focusArea selects what plain keystrokes act on: browse mode runs single-key
// commands and outline navigation; form mode types into the goal form.
type focusArea int

const (
	focusBrowse focusArea = iota
	focusForm
)

type formField int

const (
	fieldGoal formField = iota
	fieldLevel
	fieldDeadline
	fieldOverride
)

type editorField int

const (
	editDescription editorField = iota
	editDuration
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNotice
	modalSettings
)

// noticeState is a blocking notice modal (service errors, unplaced tasks).
type noticeState struct {
	title string
	lines []string
	isErr bool
}

// Async completion messages. Each carries the request sequence number so
// stale responses from superseded requests are ignored.

type generateDoneMsg struct {
	seq     int
	tasks   []model.GeneratedTask
	errText string
}

type scheduleDoneMsg struct {
	seq       int
	result    api.ScheduleResult
	errText   string
	notAuthed bool
}

type syncDoneMsg struct {
	seq       int
	events    []model.CalendarEvent
	errText   string
	notAuthed bool
}

// completeShownMsg ends the fixed success-display delay after scheduling.
type completeShownMsg struct{ seq int }
