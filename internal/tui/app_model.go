package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"skillplan/internal/api"
	"skillplan/internal/outline"
	"skillplan/internal/reconcile"
)

const (
	// How long the "schedule complete" acknowledgement stays up before the
	// workflow returns to rest.
	scheduleCompleteDelay = 2 * time.Second

	minCalendarWidth = 34
	minBodyHeight    = 10
)

var levels = []string{"easy", "medium", "hard"}

type appModel struct {
	client *api.Client
	now    func() time.Time

	width          int
	height         int
	seenWindowSize bool

	state       workflowState
	failReason  string
	failMessage string

	focus focusArea
	modal modalKind

	// Goal form.
	goalInput     textinput.Model
	deadlineInput textinput.Model
	overrideInput textinput.Model
	levelIdx      int
	formFocus     formField

	// Outline editor. Selection and edits are keyed by entry id, not row
	// position, so structural edits never re-bind handlers.
	outline        *outline.Outline
	focusedEntryID string
	editorCol      editorField
	editing        bool
	rowInput       textinput.Model
	editorScroll   int

	// scheduleArmed gates "add to calendar": set by a generation that produced
	// rows, cleared once a schedule lands (until the next generation).
	scheduleArmed bool
	lastDeadline  string

	// Calendar pane.
	events       reconcile.EventSet
	calendarList list.Model
	syncStatus   string
	syncFailed   bool

	// Per-action in-flight guards: at most one outstanding request each.
	generating bool
	submitting bool
	syncing    bool
	genSeq     int
	schedSeq   int
	syncSeq    int
	doneSeq    int

	spinner spinner.Model

	notice   noticeState
	settings settingsForm

	// authRequired routes the user to the re-authentication screen instead of
	// rendering 401s inline.
	authRequired bool

	minibufferText string
}

func newAppModel(client *api.Client) appModel {
	m := appModel{
		client: client,
		now:    time.Now,
		state:  stateIdle,
		focus:  focusForm,
	}

	m.goalInput = textinput.New()
	m.goalInput.Placeholder = "What do you want to learn?"
	m.goalInput.CharLimit = 200
	m.goalInput.Width = 40
	m.goalInput.Focus()

	m.deadlineInput = textinput.New()
	m.deadlineInput.Placeholder = "YYYY-MM-DD"
	m.deadlineInput.CharLimit = 10
	m.deadlineInput.Width = 12

	m.overrideInput = textinput.New()
	m.overrideInput.Placeholder = "auto"
	m.overrideInput.CharLimit = 3
	m.overrideInput.Width = 6

	m.rowInput = textinput.New()
	m.rowInput.CharLimit = 200
	m.rowInput.Width = 40

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m.calendarList = newList("Calendar", []list.Item{})
	m.calendarList.SetDelegate(newEventDelegate())

	m.settings = newSettingsForm()
	return m
}

// newList builds a bubbles list with chrome disabled; the app renders its own
// headers and footer.
func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("ctrl+c")
	return l
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = strings.TrimSpace(text)
}

// currentDeadline is the deadline a schedule submission should carry: the
// form's current value, falling back to the one captured at generation time.
func (m appModel) currentDeadline() string {
	if v := strings.TrimSpace(m.deadlineInput.Value()); v != "" {
		return v
	}
	return m.lastDeadline
}

func (m appModel) level() string {
	if m.levelIdx < 0 || m.levelIdx >= len(levels) {
		return levels[0]
	}
	return levels[m.levelIdx]
}
