package terminal

import (
	"context"
	"time"

	"countdown/internal/core/countdown"

	"github.com/gdamore/tcell/v2"
)

const blinkInterval = 250 * time.Millisecond

// Engine is the engine surface the event loop drives.
type Engine interface {
	Commands
	Subscribe(buffer int, fields ...countdown.Field) <-chan countdown.Event
}

// Run draws the view and processes terminal and engine events until the
// user quits, ctx is cancelled or the engine closes. The caller owns
// screen initialisation and Fini.
func Run(ctx context.Context, screen tcell.Screen, engine Engine) error {
	view := NewView(screen, engine)
	updates := engine.Subscribe(32)

	input := make(chan tcell.Event, 8)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(screen, input, done)

	blink := time.NewTicker(blinkInterval)
	defer blink.Stop()

	view.Draw(engine.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-updates:
			if !ok {
				return nil
			}
			view.Draw(engine.Snapshot())
		case <-blink.C:
			snapshot := engine.Snapshot()
			if snapshot.Finished {
				view.Blink()
				view.Draw(snapshot)
			}
		case event, ok := <-input:
			if !ok {
				return nil
			}
			switch typed := event.(type) {
			case *tcell.EventKey:
				switch view.HandleKey(typed.Key(), typed.Rune()) {
				case ActionQuit:
					return nil
				case ActionRedraw:
					view.Draw(engine.Snapshot())
				}
			case *tcell.EventResize:
				screen.Sync()
				view.Draw(engine.Snapshot())
			}
		}
	}
}

func pollEvents(screen tcell.Screen, input chan<- tcell.Event, done <-chan struct{}) {
	defer close(input)
	for {
		event := screen.PollEvent()
		if event == nil {
			return
		}
		select {
		case input <- event:
		case <-done:
			return
		}
	}
}
