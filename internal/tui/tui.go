// Package tui implements the interactive terminal front end: the goal form,
// the editable task outline, and the calendar pane, driven by the workflow
// state machine.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"skillplan/internal/api"
)

// Run starts the full-screen program against the given backend client and
// blocks until the user quits.
func Run(client *api.Client) error {
	applyColorProfilePreference()
	applyThemePreference()

	p := tea.NewProgram(newAppModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
