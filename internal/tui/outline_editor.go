package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// focusedIndex resolves the selected entry id to its current row, falling
// back to the first row when the id no longer exists.
func (m appModel) focusedIndex() int {
	if m.outline == nil || m.outline.Len() == 0 {
		return -1
	}
	if i := m.outline.IndexOf(m.focusedEntryID); i >= 0 {
		return i
	}
	return 0
}

func (m *appModel) focusRow(i int) {
	if m.outline == nil {
		return
	}
	if e := m.outline.EntryAt(i); e != nil {
		m.focusedEntryID = e.ID
	}
}

// handleOutlineKey processes browse-mode keys aimed at the outline editor.
// The bool reports whether the key was consumed.
func (m appModel) handleOutlineKey(msg tea.KeyMsg) (appModel, bool) {
	idx := m.focusedIndex()
	if idx < 0 {
		return m, false
	}

	switch msg.String() {
	case "up", "k":
		if idx > 0 {
			m.focusRow(idx - 1)
		}
		return m, true
	case "down", "j":
		if idx < m.outline.Len()-1 {
			m.focusRow(idx + 1)
		}
		return m, true
	case "tab":
		if m.editorCol == editDescription {
			m.editorCol = editDuration
		} else {
			m.editorCol = editDescription
		}
		return m, true
	case "enter", "e":
		return m.beginEdit(idx), true
	case "o":
		id := m.outline.InsertAfter(idx)
		m.focusedEntryID = id
		m.editorCol = editDescription
		return m.beginEdit(m.outline.IndexOf(id)), true
	case "x":
		next := m.focusedEntryID
		if idx < m.outline.Len()-1 {
			if e := m.outline.EntryAt(idx + 1); e != nil {
				next = e.ID
			}
		} else if idx > 0 {
			if e := m.outline.EntryAt(idx - 1); e != nil {
				next = e.ID
			}
		}
		if m.outline.RemoveAt(idx) {
			m.focusedEntryID = next
		} else {
			m.showMinibuffer("At least one task must remain")
		}
		return m, true
	case "+", "=":
		if e := m.outline.EntryAt(idx); e != nil {
			e.DurationHours += 0.5
		}
		return m, true
	case "-", "_":
		if e := m.outline.EntryAt(idx); e != nil && e.DurationHours > 0.5 {
			e.DurationHours -= 0.5
		}
		return m, true
	}
	return m, false
}

func (m appModel) beginEdit(idx int) appModel {
	e := m.outline.EntryAt(idx)
	if e == nil {
		return m
	}
	m.editing = true
	if m.editorCol == editDescription {
		m.rowInput.CharLimit = 200
		m.rowInput.SetValue(e.Description)
	} else {
		m.rowInput.CharLimit = 6
		m.rowInput.SetValue(strconv.FormatFloat(e.DurationHours, 'f', -1, 64))
	}
	m.rowInput.CursorEnd()
	m.rowInput.Focus()
	return m
}

// handleEditingKey routes keys while a cell edit is live. Edits write through
// to the entry on every keystroke; there is no separate commit step.
func (m appModel) handleEditingKey(msg tea.KeyMsg) appModel {
	switch msg.String() {
	case "enter", "esc":
		m.editing = false
		m.rowInput.Blur()
		return m
	case "tab":
		m.editing = false
		m.rowInput.Blur()
		if m.editorCol == editDescription {
			m.editorCol = editDuration
		} else {
			m.editorCol = editDescription
		}
		return m.beginEdit(m.focusedIndex())
	}

	var cmd tea.Cmd
	m.rowInput, cmd = m.rowInput.Update(msg)
	_ = cmd

	e := m.outline.EntryAt(m.focusedIndex())
	if e == nil {
		return m
	}
	if m.editorCol == editDescription {
		e.Description = m.rowInput.Value()
	} else if v, err := strconv.ParseFloat(strings.TrimSpace(m.rowInput.Value()), 64); err == nil && v > 0 {
		// Only well-formed positive values land; partial input leaves the
		// last good duration in place.
		e.DurationHours = v
	}
	return m
}

func (m appModel) renderOutline(width, height int) string {
	if m.outline == nil || m.outline.Len() == 0 {
		return styleMuted().Render("No tasks yet.")
	}

	idx := m.focusedIndex()
	rows := m.outline.Renumber()

	// Keep the focused row in the visible window.
	scroll := m.editorScroll
	if idx < scroll {
		scroll = idx
	}
	if height > 0 && idx >= scroll+height {
		scroll = idx - height + 1
	}

	var b strings.Builder
	for i, row := range rows {
		if i < scroll {
			continue
		}
		if height > 0 && i >= scroll+height {
			break
		}

		durText := fmt.Sprintf("%gh", row.Entry.DurationHours)
		descText := row.Entry.Description
		if i == idx && m.editing {
			if m.editorCol == editDescription {
				descText = m.rowInput.View()
			} else {
				durText = m.rowInput.View()
			}
		}

		num := fmt.Sprintf("%2d. ", row.Index)
		descW := width - len(num) - 8
		if descW < 10 {
			descW = 10
		}
		desc := ansi.Truncate(descText, descW, "…")

		line := num + desc + strings.Repeat(" ", max(1, descW-ansi.StringWidth(desc))) + durText
		if i == idx {
			style := lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
			if m.focus != focusBrowse {
				style = lipgloss.NewStyle().Foreground(colorSurfaceFg)
			}
			line = style.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
