package model

import "time"

// Field bounds applied while editing.
const (
	MaxSeconds = 59
	MaxMinutes = 59
	MaxHours   = 99
)

// Defaults for a fresh engine.
const (
	DefaultSeconds     = 10
	DefaultGracePeriod = 2 * time.Second
)

// Preset is an hours/minutes/seconds triple as shown on screen.
type Preset struct {
	Hours   int
	Minutes int
	Seconds int
}

// Clamped returns the preset with every field forced into its editing bound.
func (preset Preset) Clamped() Preset {
	return Preset{
		Hours:   Clamp(preset.Hours, 0, MaxHours),
		Minutes: Clamp(preset.Minutes, 0, MaxMinutes),
		Seconds: Clamp(preset.Seconds, 0, MaxSeconds),
	}
}

// CountdownConfig contains runtime settings for the countdown engine.
type CountdownConfig struct {
	Initial     Preset
	GracePeriod time.Duration
}

// DefaultCountdownConfig returns 0h 0m 10s with a two second grace period.
func DefaultCountdownConfig() CountdownConfig {
	return CountdownConfig{
		Initial:     Preset{Seconds: DefaultSeconds},
		GracePeriod: DefaultGracePeriod,
	}
}

// Clamp limits value to [low, high].
func Clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
