package countdown

import (
	"log/slog"
	"sync"
	"time"

	"countdown/internal/core/model"
)

// Options contains runtime options for Engine.
type Options struct {
	TickInterval time.Duration
	Clock        Clock
	Logger       *slog.Logger
}

type observer struct {
	ch     chan Event
	fields map[Field]bool
}

func (obs observer) wants(field Field) bool {
	return obs.fields == nil || obs.fields[field]
}

// Engine is the countdown state machine: idle, running, finished, idle.
//
// Commands that are not valid in the current state are ignored. Every
// scheduled callback carries the generation it was armed for, so a
// Cancel or a restarting Start silences callbacks that already fired
// but have not yet taken the lock.
type Engine struct {
	mu         sync.Mutex
	config     model.CountdownConfig
	options    Options
	snapshot   Snapshot
	startedAt  time.Time
	deadline   time.Time
	ticks      int
	generation uint64
	tickTimer  Timer
	graceTimer Timer
	observers  []observer
	closed     bool
}

// New creates an idle Engine showing config.Initial.
func New(config model.CountdownConfig, options Options) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if config.GracePeriod <= 0 {
		config.GracePeriod = model.DefaultGracePeriod
	}
	config.Initial = config.Initial.Clamped()

	return &Engine{
		config:  config,
		options: options,
		snapshot: Snapshot{
			Hours:   config.Initial.Hours,
			Minutes: config.Initial.Minutes,
			Seconds: config.Initial.Seconds,
		},
	}
}

// Subscribe registers an observer channel. With no fields the observer
// receives every change, otherwise only changes to the named fields.
// Sends never block: a full buffer drops the event.
func (engine *Engine) Subscribe(buffer int, fields ...Field) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	obs := observer{ch: make(chan Event, buffer)}
	if len(fields) > 0 {
		obs.fields = make(map[Field]bool, len(fields))
		for _, field := range fields {
			obs.fields[field] = true
		}
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(obs.ch)
		return obs.ch
	}
	engine.observers = append(engine.observers, obs)
	return obs.ch
}

// Snapshot returns the current observable values.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshot
}

// State returns the current mode.
func (engine *Engine) State() State {
	return engine.Snapshot().State()
}

// AdjustTime moves one field by one step, clamped to its bound.
func (engine *Engine) AdjustTime(unit Unit, direction Direction) {
	delta := 1
	if direction == Decrease {
		delta = -1
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.snapshot.Running {
		return
	}

	hours, minutes, seconds := engine.snapshot.Hours, engine.snapshot.Minutes, engine.snapshot.Seconds
	switch unit {
	case UnitHour:
		hours = model.Clamp(hours+delta, 0, model.MaxHours)
	case UnitMinute:
		minutes = model.Clamp(minutes+delta, 0, model.MaxMinutes)
	case UnitSecond:
		seconds = model.Clamp(seconds+delta, 0, model.MaxSeconds)
	default:
		return
	}
	engine.setTimeLocked(hours, minutes, seconds, engine.options.Clock.Now())
}

// UpdateConfig replaces runtime configuration. The grace period applies
// from the next finish; the initial time is shown only if the engine is idle.
func (engine *Engine) UpdateConfig(config model.CountdownConfig) {
	if config.GracePeriod <= 0 {
		config.GracePeriod = model.DefaultGracePeriod
	}
	config.Initial = config.Initial.Clamped()

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	engine.config = config
	if !engine.snapshot.Running {
		engine.setTimeLocked(config.Initial.Hours, config.Initial.Minutes, config.Initial.Seconds, engine.options.Clock.Now())
	}
}

// Preset replaces all three fields while idle.
func (engine *Engine) Preset(preset model.Preset) {
	preset = preset.Clamped()

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.snapshot.Running {
		return
	}
	engine.setTimeLocked(preset.Hours, preset.Minutes, preset.Seconds, engine.options.Clock.Now())
}

// Start begins counting down from the displayed time. Calling it while a
// countdown is active restarts from the current values.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}

	total := engine.snapshot.Total()
	if total <= 0 {
		return
	}

	restart := engine.snapshot.Running
	engine.stopTimersLocked()
	engine.generation++

	now := engine.options.Clock.Now()
	engine.startedAt = now
	engine.deadline = now.Add(total)
	engine.ticks = 0
	engine.setRunningLocked(true, now)
	engine.scheduleTickLocked(now)

	engine.options.Logger.Debug("countdown started",
		slog.Duration("total", total),
		slog.Bool("restart", restart))
}

// Cancel stops an active countdown, leaving the displayed time as is.
func (engine *Engine) Cancel() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || !engine.snapshot.Running {
		return
	}

	engine.stopTimersLocked()
	engine.generation++

	now := engine.options.Clock.Now()
	engine.setRunningLocked(false, now)
	engine.setFinishedLocked(false, now)

	engine.options.Logger.Debug("countdown cancelled",
		slog.String("remaining", engine.snapshot.String()))
}

// Close stops scheduled callbacks and closes observer channels.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.stopTimersLocked()
	engine.generation++
	observers := engine.observers
	engine.observers = nil
	engine.mu.Unlock()

	for _, obs := range observers {
		close(obs.ch)
	}
}

func (engine *Engine) scheduleTickLocked(now time.Time) {
	engine.ticks++
	next := engine.startedAt.Add(time.Duration(engine.ticks) * engine.options.TickInterval)
	delay := next.Sub(now)
	if delay < 0 {
		delay = 0
	}
	generation := engine.generation
	engine.tickTimer = engine.options.Clock.AfterFunc(delay, func() {
		engine.tick(generation)
	})
}

func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || generation != engine.generation {
		return
	}
	if !engine.snapshot.Running || engine.snapshot.Finished {
		return
	}

	now := engine.options.Clock.Now()
	remaining := engine.deadline.Sub(now).Round(engine.options.TickInterval)
	if remaining < 0 {
		remaining = 0
	}

	millis := remaining.Milliseconds()
	seconds := int(millis / 1000 % 60)
	minutes := int(millis / 1000 / 60 % 60)
	hours := int(millis / 1000 / 60 / 60)
	engine.setTimeLocked(hours, minutes, seconds, now)

	if remaining > 0 {
		engine.scheduleTickLocked(now)
		return
	}
	engine.tickTimer = nil
	engine.finishLocked(now)
}

func (engine *Engine) finishLocked(now time.Time) {
	engine.setFinishedLocked(true, now)
	generation := engine.generation
	engine.graceTimer = engine.options.Clock.AfterFunc(engine.config.GracePeriod, func() {
		engine.endGrace(generation)
	})
	engine.options.Logger.Debug("countdown finished",
		slog.Duration("grace", engine.config.GracePeriod))
}

func (engine *Engine) endGrace(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || generation != engine.generation || !engine.snapshot.Finished {
		return
	}

	engine.graceTimer = nil
	now := engine.options.Clock.Now()
	engine.setRunningLocked(false, now)
	engine.setFinishedLocked(false, now)
	engine.options.Logger.Debug("countdown idle")
}

func (engine *Engine) stopTimersLocked() {
	if engine.tickTimer != nil {
		engine.tickTimer.Stop()
		engine.tickTimer = nil
	}
	if engine.graceTimer != nil {
		engine.graceTimer.Stop()
		engine.graceTimer = nil
	}
}

func (engine *Engine) setTimeLocked(hours, minutes, seconds int, now time.Time) {
	if seconds != engine.snapshot.Seconds {
		engine.snapshot.Seconds = seconds
		engine.emitLocked(Event{Field: FieldSeconds, Value: seconds, At: now})
	}
	if minutes != engine.snapshot.Minutes {
		engine.snapshot.Minutes = minutes
		engine.emitLocked(Event{Field: FieldMinutes, Value: minutes, At: now})
	}
	if hours != engine.snapshot.Hours {
		engine.snapshot.Hours = hours
		engine.emitLocked(Event{Field: FieldHours, Value: hours, At: now})
	}
}

func (engine *Engine) setRunningLocked(running bool, now time.Time) {
	if running == engine.snapshot.Running {
		return
	}
	engine.snapshot.Running = running
	engine.emitLocked(Event{Field: FieldRunning, Flag: running, At: now})
}

func (engine *Engine) setFinishedLocked(finished bool, now time.Time) {
	if finished == engine.snapshot.Finished {
		return
	}
	engine.snapshot.Finished = finished
	engine.emitLocked(Event{Field: FieldFinished, Flag: finished, At: now})
}

func (engine *Engine) emitLocked(event Event) {
	event.Snapshot = engine.snapshot
	for _, obs := range engine.observers {
		if !obs.wants(event.Field) {
			continue
		}
		select {
		case obs.ch <- event:
		default:
		}
	}
}
