// Package alert plays the audible notification when a countdown ends.
package alert

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"countdown/internal/core/countdown"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	noteDuration = 180 * time.Millisecond
	noteGap      = 70 * time.Millisecond
	lowNote      = 880.0
	highNote     = 1320.0
)

// Chime plays a short two-note tone. Audio failures disable it.
type Chime struct {
	mu          sync.Mutex
	enabled     bool
	initialized bool
	logger      *slog.Logger
	initSpeaker func() error
	play        func(beep.Streamer)
}

// NewChime creates a chime backed by the system speaker.
func NewChime(enabled bool, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chime{
		enabled: enabled,
		logger:  logger,
		initSpeaker: func() error {
			return speaker.Init(sampleRate, sampleRate.N(time.Second/10))
		},
		play: func(streamer beep.Streamer) {
			speaker.Play(streamer)
		},
	}
}

// Initialize sets up the audio device once.
func (chime *Chime) Initialize() error {
	chime.mu.Lock()
	defer chime.mu.Unlock()

	if chime.initialized {
		return nil
	}
	if err := chime.initSpeaker(); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	chime.initialized = true
	return nil
}

// SetEnabled toggles playback.
func (chime *Chime) SetEnabled(enabled bool) {
	chime.mu.Lock()
	defer chime.mu.Unlock()
	chime.enabled = enabled
}

// Play starts the tone without waiting for it to finish.
func (chime *Chime) Play() {
	chime.mu.Lock()
	defer chime.mu.Unlock()

	if !chime.enabled || !chime.initialized {
		return
	}
	streamer, err := Tone()
	if err != nil {
		chime.logger.Warn("chime unavailable", slog.Any("error", err))
		return
	}
	chime.play(streamer)
}

// Watch plays the chime each time a finished event arrives.
// It returns when events is closed.
func (chime *Chime) Watch(events <-chan countdown.Event) {
	for event := range events {
		if event.Field == countdown.FieldFinished && event.Flag {
			chime.Play()
		}
	}
}

// Tone builds the two-note chime stream.
func Tone() (beep.Streamer, error) {
	low, err := generators.SineTone(sampleRate, lowNote)
	if err != nil {
		return nil, fmt.Errorf("low note: %w", err)
	}
	high, err := generators.SineTone(sampleRate, highNote)
	if err != nil {
		return nil, fmt.Errorf("high note: %w", err)
	}

	notes := beep.Seq(
		beep.Take(sampleRate.N(noteDuration), low),
		beep.Silence(sampleRate.N(noteGap)),
		beep.Take(sampleRate.N(noteDuration), high),
	)
	return &effects.Gain{Streamer: notes, Gain: -0.7}, nil
}
