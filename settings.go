package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Theme represents a color theme for the application
type Theme struct {
	Name       string `json:"name"`
	Primary    string `json:"primary"`    // Main accent color
	Foreground string `json:"foreground"` // Text color
	Muted      string `json:"muted"`      // Muted text color
	Border     string `json:"border"`     // Border color
	Highlight  string `json:"highlight"`  // Highlight/selection color
	Playing    string `json:"playing"`    // Currently-playing row color
	Error      string `json:"error"`      // Error color
}

// Settings holds all user preferences
type Settings struct {
	MusicDir string `json:"music_dir"` // Directory the browser starts in
	Theme    string `json:"theme"`     // Current theme name
	Volume   int    `json:"volume"`    // Volume level (0-100)
	AutoPlay bool   `json:"auto_play"` // Auto-play next track
}

// SettingsManager loads and persists user settings as JSON in the
// user's config directory.
type SettingsManager struct {
	settings Settings
	themes   map[string]Theme
	filePath string
}

func NewSettingsManager() (*SettingsManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".lyra")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	sm := &SettingsManager{
		settings: Settings{
			MusicDir: homeDir,
			Theme:    "default",
			Volume:   80,
			AutoPlay: true,
		},
		themes:   defaultThemes(),
		filePath: filepath.Join(configDir, "settings.json"),
	}

	// A missing settings file just means first run; keep the defaults.
	if err := sm.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return sm, nil
}

func defaultThemes() map[string]Theme {
	themes := map[string]Theme{
		"default": {
			Name:       "default",
			Primary:    "205",
			Foreground: "252",
			Muted:      "240",
			Border:     "238",
			Highlight:  "170",
			Playing:    "84",
			Error:      "196",
		},
		"ocean": {
			Name:       "ocean",
			Primary:    "39",
			Foreground: "253",
			Muted:      "244",
			Border:     "24",
			Highlight:  "45",
			Playing:    "51",
			Error:      "203",
		},
		"mono": {
			Name:       "mono",
			Primary:    "255",
			Foreground: "250",
			Muted:      "240",
			Border:     "236",
			Highlight:  "231",
			Playing:    "255",
			Error:      "245",
		},
	}
	return themes
}

func (sm *SettingsManager) load() error {
	data, err := os.ReadFile(sm.filePath)
	if err != nil {
		return err
	}

	// Pointer fields distinguish "key absent" from a zero value, so a
	// settings file written by an older version keeps the defaults for
	// anything it does not mention.
	var settings struct {
		MusicDir string `json:"music_dir"`
		Theme    string `json:"theme"`
		Volume   *int   `json:"volume"`
		AutoPlay *bool  `json:"auto_play"`
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}

	if settings.MusicDir != "" {
		sm.settings.MusicDir = settings.MusicDir
	}
	if _, ok := sm.themes[settings.Theme]; ok {
		sm.settings.Theme = settings.Theme
	}
	if settings.Volume != nil {
		sm.settings.Volume = clampVolume(*settings.Volume)
	}
	if settings.AutoPlay != nil {
		sm.settings.AutoPlay = *settings.AutoPlay
	}

	return nil
}

func (sm *SettingsManager) Save() error {
	data, err := json.MarshalIndent(sm.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(sm.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

func (sm *SettingsManager) MusicDir() string {
	return sm.settings.MusicDir
}

func (sm *SettingsManager) SetMusicDir(dir string) {
	sm.settings.MusicDir = dir
}

func (sm *SettingsManager) AutoPlay() bool {
	return sm.settings.AutoPlay
}

func (sm *SettingsManager) Volume() int {
	return sm.settings.Volume
}

func (sm *SettingsManager) SetVolume(percent int) {
	sm.settings.Volume = clampVolume(percent)
}

func clampVolume(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// GetTheme returns the active theme, falling back to the default when
// the configured name is unknown.
func (sm *SettingsManager) GetTheme() Theme {
	if theme, ok := sm.themes[sm.settings.Theme]; ok {
		return theme
	}
	return sm.themes["default"]
}

// CycleTheme switches to the next theme in a fixed rotation and
// returns its name.
func (sm *SettingsManager) CycleTheme() string {
	order := []string{"default", "ocean", "mono"}
	for i, name := range order {
		if name == sm.settings.Theme {
			sm.settings.Theme = order[(i+1)%len(order)]
			return sm.settings.Theme
		}
	}
	sm.settings.Theme = order[0]
	return sm.settings.Theme
}
