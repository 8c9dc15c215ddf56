package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if !m.seenWindowSize {
		return ""
	}
	if m.authRequired {
		return m.renderAuthScreen()
	}

	leftW, calW, bodyH := m.layout()

	left := lipgloss.NewStyle().Width(leftW).Height(bodyH).
		Render(m.renderLeftColumn(leftW, bodyH))
	right := lipgloss.NewStyle().Width(calW).Height(bodyH).
		Render(m.renderCalendarColumn(calW))

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		"",
		m.renderFooter(),
	)

	switch m.modal {
	case modalNotice:
		return m.overlayModal(m.renderNotice())
	case modalSettings:
		return m.overlayModal(m.settings.view())
	}
	return screen
}

func (m appModel) renderHeader() string {
	title := styleTitle().Render("skillplan")
	badge := styleMuted().Render(stateLabel(m.state))
	if m.state == stateFailed {
		badge = styleError().Render(stateLabel(m.state))
	}
	parts := []string{title, "  ", badge}
	if m.generating || m.submitting || m.syncing {
		parts = append(parts, "  ", m.spinner.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m appModel) renderLeftColumn(width, height int) string {
	form := m.renderGoalForm(width)
	formH := lipgloss.Height(form)

	outlineH := height - formH - 2
	if outlineH < 3 {
		outlineH = 3
	}

	sections := []string{form}
	if m.outline != nil {
		header := styleTitle().Render("Tasks")
		if m.scheduleArmed {
			header += styleMuted().Render("  (a adds to calendar)")
		}
		sections = append(sections, "", header, m.renderOutline(width, outlineH-2))
	}
	return strings.Join(sections, "\n")
}

func (m appModel) renderGoalForm(width int) string {
	label := func(f formField, text string) string {
		if m.focus == focusForm && m.formFocus == f {
			return lipgloss.NewStyle().Foreground(colorAccent).Render(text)
		}
		return styleMuted().Render(text)
	}

	level := m.level()
	if m.focus == focusForm && m.formFocus == fieldLevel {
		level = "‹ " + level + " ›"
	}

	lines := []string{
		label(fieldGoal, "Goal      ") + m.goalInput.View(),
		label(fieldLevel, "Level     ") + level,
		label(fieldDeadline, "Deadline  ") + m.deadlineInput.View(),
		label(fieldOverride, "Tasks     ") + m.overrideInput.View(),
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderCalendarColumn(width int) string {
	header := styleTitle().Render("Calendar")
	status := m.syncStatus
	if m.syncFailed {
		status = styleError().Render("sync failed")
	} else if status != "" {
		status = styleMuted().Render(status)
	}

	var body string
	if m.events.Len() == 0 {
		body = styleMuted().Render("No events. Press s to sync.")
	} else {
		body = m.calendarList.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, status, "", body)
}

func (m appModel) renderFooter() string {
	var help string
	switch {
	case m.editing:
		help = "enter done · tab next column · esc cancel"
	case m.focus == focusForm:
		help = "enter generate · tab next field · esc browse"
	default:
		help = "g goal · s sync · a add to calendar · c settings · e edit · o insert · x remove · q quit"
	}
	line := styleMuted().Render(help)
	if m.minibufferText != "" {
		line = styleError().Render(m.minibufferText)
	}
	return line
}

func (m appModel) renderAuthScreen() string {
	box := lipgloss.JoinVertical(lipgloss.Left,
		styleTitle().Render("Calendar authorization required"),
		"",
		"Your Google Calendar session has expired or was never set up.",
		"",
		"In another terminal, run:",
		"    skillplan auth",
		"",
		styleMuted().Render("enter retry · q quit"),
	)
	return m.overlayModal(box)
}

func (m appModel) renderNotice() string {
	title := styleTitle().Render(m.notice.title)
	if m.notice.isErr {
		title = styleError().Render(m.notice.title)
	}
	lines := append([]string{title, ""}, m.notice.lines...)
	lines = append(lines, "", styleMuted().Render("enter dismiss"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// overlayModal centers content in a bordered box over a blank backdrop.
func (m appModel) overlayModal(content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
