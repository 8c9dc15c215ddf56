package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"skillplan/internal/model"
)

type eventItem struct {
	event model.CalendarEvent
}

func (i eventItem) FilterValue() string { return i.event.Title }

// eventDelegate renders calendar rows, coloring newly scheduled events so a
// fresh submission is visually distinct from the synced baseline.
type eventDelegate struct{}

func newEventDelegate() eventDelegate { return eventDelegate{} }

func (d eventDelegate) Height() int                             { return 2 }
func (d eventDelegate) Spacing() int                            { return 0 }
func (d eventDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d eventDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(eventItem)
	if !ok {
		return
	}

	width := m.Width()
	if width <= 0 {
		return
	}

	title := it.event.Title
	if title == "" {
		title = "(No title)"
	}
	when := fmt.Sprintf("%s  %s – %s",
		it.event.Start.Format("Mon Jan 2"),
		it.event.Start.Format("15:04"),
		it.event.End.Format("15:04"))

	titleStyle := lipgloss.NewStyle()
	whenStyle := styleMuted()
	if it.event.Source == model.SourceNewlyScheduled {
		titleStyle = styleHighlight()
		whenStyle = styleHighlight()
	}
	if index == m.Index() {
		titleStyle = titleStyle.Background(colorSelectedBg).Foreground(colorSelectedFg)
		whenStyle = whenStyle.Background(colorSelectedBg)
	}

	line1 := ansi.Truncate(title, width-2, "…")
	line2 := ansi.Truncate("  "+when, width-2, "…")
	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(line1), whenStyle.Render(line2))
}

// refreshCalendar rebuilds the list items from the reconciled event set,
// keeping the cursor within bounds.
func (m *appModel) refreshCalendar() {
	events := m.events.Events()
	items := make([]list.Item, 0, len(events))
	for _, e := range events {
		items = append(items, eventItem{event: e})
	}
	idx := m.calendarList.Index()
	m.calendarList.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.calendarList.Select(idx)
	}
}
