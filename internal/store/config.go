// Package store is the durable client-side configuration adapter: a small
// key-value JSON file holding the user's scheduling preferences. Absence of
// stored data is not an error; loading always succeeds.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"skillplan/internal/model"
)

const settingsFileName = "settings.json"

// ConfigDir resolves the skillplan config directory.
// SKILLPLAN_CONFIG_DIR overrides it (keeps unit tests from touching ~/.skillplan).
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("SKILLPLAN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".skillplan"), nil
}

func settingsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// settingsFile is the on-disk shape. Key names predate this implementation;
// note allowedDays here vs allowedDaysOfWeek on the scheduling wire.
type settingsFile struct {
	MaxHoursPerDay int             `json:"maxHoursPerDay"`
	AllowedDays    []model.Weekday `json:"allowedDays"`
}

// LoadSettings returns the last-saved scheduling settings, falling back to
// defaults when nothing was saved or the file is unreadable. It never fails.
func LoadSettings() model.SchedulingSettings {
	def := model.DefaultSchedulingSettings()
	path, err := settingsPath()
	if err != nil {
		return def
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return def
	}
	var f settingsFile
	if err := json.Unmarshal(b, &f); err != nil {
		return def
	}
	s := model.SchedulingSettings{MaxHoursPerDay: f.MaxHoursPerDay}
	for _, d := range f.AllowedDays {
		if d.Valid() {
			s.AllowedDays = append(s.AllowedDays, d)
		}
	}
	if s.MaxHoursPerDay < 1 {
		s.MaxHoursPerDay = def.MaxHoursPerDay
	}
	if len(s.AllowedDays) == 0 {
		s.AllowedDays = def.AllowedDays
	}
	return s
}

// SaveSettings overwrites the stored settings (no merging). The write is
// atomic from the reader's perspective: temp file then rename.
func SaveSettings(s model.SchedulingSettings) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(settingsFile{
		MaxHoursPerDay: s.MaxHoursPerDay,
		AllowedDays:    s.AllowedDays,
	}, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return atomicWriteFile(dir, "settings-*.json", path, b, 0o644)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
