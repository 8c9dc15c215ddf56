package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

// layout splits the window: left column for form + outline, right column for
// the calendar pane, with a header and footer line reserved.
func (m appModel) layout() (leftW, calW, bodyH int) {
	calW = m.width / 3
	if calW < minCalendarWidth {
		calW = minCalendarWidth
	}
	leftW = m.width - calW - 3
	if leftW < 20 {
		leftW = 20
	}
	bodyH = m.height - 6
	if bodyH < minBodyHeight {
		bodyH = minBodyHeight
	}
	return leftW, calW, bodyH
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		_, calW, bodyH := m.layout()
		m.calendarList.SetSize(calW, bodyH)
		return m, nil

	case spinner.TickMsg:
		if !m.generating && !m.submitting && !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generateDoneMsg:
		return m.applyGenerateDone(msg), nil

	case scheduleDoneMsg:
		return m.applyScheduleDone(msg)

	case syncDoneMsg:
		return m.applySyncDone(msg), nil

	case completeShownMsg:
		if msg.seq == m.doneSeq && m.state == stateScheduleComplete {
			m.state = stateIdle
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.showMinibuffer("")

	if m.authRequired {
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter":
			m.authRequired = false
			return m.startSync()
		}
		return m, nil
	}

	switch m.modal {
	case modalNotice:
		switch msg.String() {
		case "enter", "esc", " ":
			m.modal = modalNone
			m.notice = noticeState{}
		}
		return m, nil
	case modalSettings:
		var closed bool
		m.settings, closed = m.settings.update(msg)
		if closed {
			m.modal = modalNone
		}
		return m, nil
	}

	if m.editing {
		return m.handleEditingKey(msg), nil
	}

	if m.focus == focusForm {
		return m.handleFormKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m.setFormFocus((m.formFocus + 1) % 4), nil
	case "shift+tab", "up":
		return m.setFormFocus((m.formFocus + 3) % 4), nil
	case "enter":
		return m.submitGoal()
	case "esc":
		if m.outline != nil && m.outline.Len() > 0 {
			m.focus = focusBrowse
			m.goalInput.Blur()
			m.deadlineInput.Blur()
			m.overrideInput.Blur()
		}
		return m, nil
	case "left":
		if m.formFocus == fieldLevel {
			m.levelIdx = (m.levelIdx + len(levels) - 1) % len(levels)
			return m, nil
		}
	case "right":
		if m.formFocus == fieldLevel {
			m.levelIdx = (m.levelIdx + 1) % len(levels)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case fieldGoal:
		m.goalInput, cmd = m.goalInput.Update(msg)
	case fieldDeadline:
		m.deadlineInput, cmd = m.deadlineInput.Update(msg)
	case fieldOverride:
		m.overrideInput, cmd = m.overrideInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) setFormFocus(f formField) appModel {
	m.formFocus = f
	m.goalInput.Blur()
	m.deadlineInput.Blur()
	m.overrideInput.Blur()
	switch f {
	case fieldGoal:
		m.goalInput.Focus()
	case fieldDeadline:
		m.deadlineInput.Focus()
	case fieldOverride:
		m.overrideInput.Focus()
	}
	return m
}

func (m appModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "g":
		m.focus = focusForm
		return m.setFormFocus(fieldGoal), nil
	case "s":
		return m.startSync()
	case "c":
		m.settings.load()
		m.modal = modalSettings
		return m, nil
	case "a":
		return m.submitSchedule()
	}

	if next, consumed := m.handleOutlineKey(msg); consumed {
		return next, nil
	}

	var cmd tea.Cmd
	m.calendarList, cmd = m.calendarList.Update(msg)
	return m, cmd
}
