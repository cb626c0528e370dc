package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"countdown/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	InitialHours       *int  `yaml:"initial_hours,omitempty"`
	InitialMinutes     *int  `yaml:"initial_minutes,omitempty"`
	InitialSeconds     *int  `yaml:"initial_seconds,omitempty"`
	GracePeriodSeconds int   `yaml:"grace_period_seconds,omitempty"`
	ChimeEnabled       *bool `yaml:"chime_enabled,omitempty"`
}

// LoadSettings reads user preferences from the per-user config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from an explicit path.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the per-user config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := ResolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to an explicit path.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	initial := settings.Initial.Clamped()
	chime := settings.ChimeEnabled
	fileData := yamlSettings{
		InitialHours:       &initial.Hours,
		InitialMinutes:     &initial.Minutes,
		InitialSeconds:     &initial.Seconds,
		GracePeriodSeconds: int(settings.GracePeriod / time.Second),
		ChimeEnabled:       &chime,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ResolveConfigPath returns <UserConfigDir>/<appName>/settings.yaml.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.InitialHours != nil {
		settings.Initial.Hours = *fileData.InitialHours
	}
	if fileData.InitialMinutes != nil {
		settings.Initial.Minutes = *fileData.InitialMinutes
	}
	if fileData.InitialSeconds != nil {
		settings.Initial.Seconds = *fileData.InitialSeconds
	}
	settings.Initial = settings.Initial.Clamped()

	if fileData.GracePeriodSeconds > 0 {
		settings.GracePeriod = time.Duration(fileData.GracePeriodSeconds) * time.Second
	}
	if fileData.ChimeEnabled != nil {
		settings.ChimeEnabled = *fileData.ChimeEnabled
	}
}
