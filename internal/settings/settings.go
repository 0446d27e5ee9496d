// Package settings persists user preferences for the runtime manager.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/go-homedir"

	"github.com/skiff-run/skiff-cli/internal/messages"
)

// EnvConfigDir overrides the directory holding the settings file.
const EnvConfigDir = "SKIFF_CONFIG_DIR"

const fileName = "settings.json"

// Settings are the persisted user preferences. DefaultRuntime stays nil
// until the user picks a default; it serializes as null so the file shape
// is stable either way.
type Settings struct {
	DefaultRuntime *semver.Version `json:"default_runtime"`
}

// Dir returns the directory holding the settings file.
func Dir() (string, error) {
	if override := strings.TrimSpace(os.Getenv(EnvConfigDir)); override != "" {
		return homedir.Expand(override)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf(messages.SettingsDirFmt, err)
	}
	return filepath.Join(base, "skiff"), nil
}

// Path returns the settings file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the settings file. A missing file is not an error and yields
// zero Settings.
func Load() (Settings, error) {
	path, err := Path()
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf(messages.SettingsReadFmt, path, err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf(messages.SettingsParseFmt, path, err)
	}
	return s, nil
}

// Save writes the settings file, creating the config directory first.
func Save(s Settings) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf(messages.SettingsWriteFmt, path, err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf(messages.SettingsWriteFmt, path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf(messages.SettingsWriteFmt, path, err)
	}
	return nil
}
