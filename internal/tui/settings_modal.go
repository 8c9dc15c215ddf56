package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skillplan/internal/model"
	"skillplan/internal/store"
)

// settingsForm edits the persisted scheduling settings: max hours per day
// plus a toggle per weekday. Row 0 is the hours field, rows 1..7 the days.
type settingsForm struct {
	hoursInput textinput.Model
	days       [7]bool
	row        int
	errText    string
}

var weekdayLabels = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func newSettingsForm() settingsForm {
	hi := textinput.New()
	hi.CharLimit = 2
	hi.Width = 4
	hi.Prompt = ""
	return settingsForm{hoursInput: hi}
}

// load pulls the current saved settings into the form.
func (f *settingsForm) load() {
	s := store.LoadSettings()
	f.hoursInput.SetValue(strconv.Itoa(s.MaxHoursPerDay))
	for i := range f.days {
		f.days[i] = false
	}
	for i, wd := range model.AllWeekdays {
		for _, d := range s.AllowedDays {
			if d == wd {
				f.days[i] = true
			}
		}
	}
	f.row = 0
	f.errText = ""
	f.hoursInput.Focus()
}

// save validates and persists. Returns false (with errText set) when the
// hours value is not a positive integer or no day is allowed.
func (f *settingsForm) save() bool {
	hours, err := strconv.Atoi(strings.TrimSpace(f.hoursInput.Value()))
	if err != nil || hours < 1 {
		f.errText = "Hours per day must be at least 1"
		return false
	}
	var allowed []model.Weekday
	for i, on := range f.days {
		if on {
			allowed = append(allowed, model.AllWeekdays[i])
		}
	}
	if len(allowed) == 0 {
		f.errText = "Allow at least one day"
		return false
	}
	if err := store.SaveSettings(model.SchedulingSettings{
		MaxHoursPerDay: hours,
		AllowedDays:    allowed,
	}); err != nil {
		f.errText = "Could not save: " + err.Error()
		return false
	}
	return true
}

// update handles a key while the settings modal is open. The second return
// reports whether the modal should close.
func (f settingsForm) update(msg tea.KeyMsg) (settingsForm, bool) {
	switch msg.String() {
	case "esc":
		return f, true
	case "enter":
		if f.row == 0 {
			f.row = 1
			f.hoursInput.Blur()
			return f, false
		}
		if f.save() {
			return f, true
		}
		return f, false
	case "up", "shift+tab":
		if f.row > 0 {
			f.row--
		}
		if f.row == 0 {
			f.hoursInput.Focus()
		}
		return f, false
	case "down", "tab":
		if f.row < len(f.days) {
			f.row++
			f.hoursInput.Blur()
		}
		return f, false
	case " ", "x":
		if f.row >= 1 {
			f.days[f.row-1] = !f.days[f.row-1]
			return f, false
		}
	case "ctrl+s":
		if f.save() {
			return f, true
		}
		return f, false
	}
	if f.row == 0 {
		var cmd tea.Cmd
		f.hoursInput, cmd = f.hoursInput.Update(msg)
		_ = cmd
	}
	return f, false
}

func (f settingsForm) view() string {
	var b strings.Builder
	b.WriteString(styleTitle().Render("Scheduling settings"))
	b.WriteString("\n\n")

	label := "Max hours per day: "
	if f.row == 0 {
		label = lipgloss.NewStyle().Foreground(colorAccent).Render("Max hours per day: ")
	}
	b.WriteString(label + f.hoursInput.View())
	b.WriteString("\n\n")

	for i, name := range weekdayLabels {
		mark := "[ ]"
		if f.days[i] {
			mark = "[x]"
		}
		line := mark + " " + name
		if f.row == i+1 {
			line = lipgloss.NewStyle().Foreground(colorAccent).Render(line)
		}
		b.WriteString(line + "\n")
	}

	if f.errText != "" {
		b.WriteString("\n" + styleError().Render(f.errText))
	}
	b.WriteString("\n" + styleMuted().Render("space toggle · enter save · esc cancel"))
	return b.String()
}
