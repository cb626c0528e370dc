package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains blink timing values.
type Config struct {
	Visible time.Duration
	Hidden  time.Duration
}

// Engine toggles a visibility callback until stopped.
type Engine struct {
	mu     sync.Mutex
	config Config
	toggle func(visible bool)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new blink engine.
func New(config Config, toggle func(visible bool)) *Engine {
	defaults := DefaultConfig()
	if config.Visible <= 0 {
		config.Visible = defaults.Visible
	}
	if config.Hidden <= 0 {
		config.Hidden = defaults.Hidden
	}
	return &Engine{
		config: config,
		toggle: toggle,
	}
}

// StartBlink starts blinking, replacing any active loop.
func (engine *Engine) StartBlink(ctx context.Context) {
	engine.Stop()

	engine.mu.Lock()
	defer engine.mu.Unlock()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done

	go engine.run(runCtx, done)
}

// Stop terminates the active loop and leaves the target visible.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Active reports whether a blink loop is running.
func (engine *Engine) Active() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.cancel != nil
}

func (engine *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer engine.toggle(true)

	for {
		engine.toggle(false)
		if !sleepWithContext(ctx, engine.config.Hidden) {
			return
		}
		engine.toggle(true)
		if !sleepWithContext(ctx, engine.config.Visible) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
