package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"skillplan/internal/model"
)

func TestLoadSettings_DefaultsWhenNothingSaved(t *testing.T) {
	t.Setenv("SKILLPLAN_CONFIG_DIR", t.TempDir())

	s := LoadSettings()
	if s.MaxHoursPerDay != 2 {
		t.Fatalf("expected default max hours 2, got %d", s.MaxHoursPerDay)
	}
	want := []model.Weekday{model.WeekdayMO, model.WeekdayTU, model.WeekdayWE, model.WeekdayTH, model.WeekdayFR}
	if len(s.AllowedDays) != len(want) {
		t.Fatalf("expected default weekdays %v, got %v", want, s.AllowedDays)
	}
	for i := range want {
		if s.AllowedDays[i] != want[i] {
			t.Fatalf("expected default weekdays %v, got %v", want, s.AllowedDays)
		}
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	t.Setenv("SKILLPLAN_CONFIG_DIR", t.TempDir())

	in := model.SchedulingSettings{
		MaxHoursPerDay: 4,
		AllowedDays:    []model.Weekday{model.WeekdaySA, model.WeekdaySU},
	}
	if err := SaveSettings(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out := LoadSettings()
	if out.MaxHoursPerDay != 4 {
		t.Fatalf("expected 4, got %d", out.MaxHoursPerDay)
	}
	if len(out.AllowedDays) != 2 || out.AllowedDays[0] != model.WeekdaySA || out.AllowedDays[1] != model.WeekdaySU {
		t.Fatalf("expected [SA SU], got %v", out.AllowedDays)
	}
}

func TestSaveSettings_OverwritesNotMerges(t *testing.T) {
	t.Setenv("SKILLPLAN_CONFIG_DIR", t.TempDir())

	_ = SaveSettings(model.SchedulingSettings{
		MaxHoursPerDay: 6,
		AllowedDays:    []model.Weekday{model.WeekdayMO, model.WeekdayTU, model.WeekdayWE},
	})
	_ = SaveSettings(model.SchedulingSettings{
		MaxHoursPerDay: 1,
		AllowedDays:    []model.Weekday{model.WeekdayFR},
	})

	out := LoadSettings()
	if out.MaxHoursPerDay != 1 {
		t.Fatalf("expected overwrite to 1, got %d", out.MaxHoursPerDay)
	}
	if len(out.AllowedDays) != 1 || out.AllowedDays[0] != model.WeekdayFR {
		t.Fatalf("expected [FR], got %v", out.AllowedDays)
	}
}

func TestLoadSettings_IgnoresCorruptFileAndBadValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SKILLPLAN_CONFIG_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, settingsFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := LoadSettings()
	if s.MaxHoursPerDay != 2 {
		t.Fatalf("corrupt file should fall back to defaults, got %d", s.MaxHoursPerDay)
	}

	// Unknown weekday codes and a zero hour cap are sanitized on load.
	b, _ := json.Marshal(map[string]any{
		"maxHoursPerDay": 0,
		"allowedDays":    []string{"XX", "SA"},
	})
	if err := os.WriteFile(filepath.Join(dir, settingsFileName), b, 0o644); err != nil {
		t.Fatal(err)
	}
	s = LoadSettings()
	if s.MaxHoursPerDay != 2 {
		t.Fatalf("expected sanitized default hours, got %d", s.MaxHoursPerDay)
	}
	if len(s.AllowedDays) != 1 || s.AllowedDays[0] != model.WeekdaySA {
		t.Fatalf("expected [SA], got %v", s.AllowedDays)
	}
}
