package preferences

import (
	"time"

	"countdown/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Initial      model.Preset
	GracePeriod  time.Duration
	ChimeEnabled bool
}

// DefaultSettings returns default settings for Countdown.
func DefaultSettings() Settings {
	return Settings{
		Initial:      model.Preset{Seconds: model.DefaultSeconds},
		GracePeriod:  model.DefaultGracePeriod,
		ChimeEnabled: true,
	}
}

// CountdownConfig converts settings to CountdownConfig.
func (settings Settings) CountdownConfig() model.CountdownConfig {
	grace := settings.GracePeriod
	if grace <= 0 {
		grace = model.DefaultGracePeriod
	}
	return model.CountdownConfig{
		Initial:     settings.Initial.Clamped(),
		GracePeriod: grace,
	}
}
