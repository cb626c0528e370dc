package screen

import (
	"context"
	"fmt"
	"image/color"

	"countdown/internal/core/countdown"
	"countdown/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Commands is the command side of the countdown engine.
type Commands interface {
	AdjustTime(unit countdown.Unit, direction countdown.Direction)
	Start()
	Cancel()
}

const (
	statusIdle     = "Set a time and press Start"
	statusRunning  = "Counting down"
	statusFinished = "Time's up!"
)

var (
	valueColor    = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	finishedColor = color.NRGBA{R: 235, G: 87, B: 87, A: 255}
)

type column struct {
	unit  countdown.Unit
	up    *widget.Button
	down  *widget.Button
	value *canvas.Text
}

// Window is the single timer screen: three adjustable columns and a
// start/cancel toggle.
type Window struct {
	window   fyne.Window
	commands Commands
	columns  []*column
	toggle   *widget.Button
	status   *widget.Label
	blink    *animation.Engine
	snapshot countdown.Snapshot
}

// New creates the timer window showing snapshot.
func New(app fyne.App, commands Commands, snapshot countdown.Snapshot) *Window {
	screen := &Window{
		window:   app.NewWindow("Countdown"),
		commands: commands,
		status:   widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	}

	units := []struct {
		unit  countdown.Unit
		label string
	}{
		{countdown.UnitHour, "hours"},
		{countdown.UnitMinute, "minutes"},
		{countdown.UnitSecond, "seconds"},
	}

	grid := container.NewGridWithColumns(len(units))
	for _, entry := range units {
		col := screen.newColumn(entry.unit)
		screen.columns = append(screen.columns, col)
		caption := widget.NewLabelWithStyle(entry.label, fyne.TextAlignCenter, fyne.TextStyle{})
		grid.Add(container.NewVBox(col.up, col.value, col.down, caption))
	}

	screen.toggle = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), screen.handleToggle)
	screen.toggle.Importance = widget.HighImportance
	screen.blink = animation.New(animation.DefaultConfig(), screen.setValuesVisible)

	screen.window.SetContent(container.NewPadded(container.NewVBox(
		grid,
		screen.toggle,
		screen.status,
	)))
	screen.window.Resize(fyne.NewSize(360, 300))

	screen.Render(snapshot)
	return screen
}

// Window exposes the underlying fyne window.
func (screen *Window) Window() fyne.Window {
	return screen.window
}

// Show displays the timer window.
func (screen *Window) Show() {
	screen.window.Show()
}

// Follow renders every snapshot received on events until the channel closes.
func (screen *Window) Follow(events <-chan countdown.Event) {
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				screen.Render(snapshot)
			})
		}
	}()
}

// Render updates every widget from snapshot. Must run on the UI goroutine.
func (screen *Window) Render(snapshot countdown.Snapshot) {
	previous := screen.snapshot
	screen.snapshot = snapshot

	fieldValues := map[countdown.Unit]int{
		countdown.UnitHour:   snapshot.Hours,
		countdown.UnitMinute: snapshot.Minutes,
		countdown.UnitSecond: snapshot.Seconds,
	}
	for _, col := range screen.columns {
		col.value.Text = fmt.Sprintf("%02d", fieldValues[col.unit])
		col.value.Color = valueColor
		if snapshot.Finished || (col.unit == countdown.UnitSecond && snapshot.SecondsUrgent()) {
			col.value.Color = finishedColor
		}
		col.value.Refresh()
		setEnabled(col.up, !snapshot.Running)
		setEnabled(col.down, !snapshot.Running)
	}

	switch snapshot.State() {
	case countdown.StateIdle:
		screen.toggle.SetText("Start")
		screen.toggle.SetIcon(theme.MediaPlayIcon())
		setEnabled(screen.toggle, snapshot.Total() > 0)
		screen.status.SetText(statusIdle)
	case countdown.StateRunning:
		screen.toggle.SetText("Cancel")
		screen.toggle.SetIcon(theme.MediaStopIcon())
		setEnabled(screen.toggle, true)
		screen.status.SetText(statusRunning)
	case countdown.StateFinished:
		screen.toggle.SetText("Cancel")
		screen.toggle.SetIcon(theme.MediaStopIcon())
		setEnabled(screen.toggle, true)
		screen.status.SetText(statusFinished)
	}

	if snapshot.Finished && !previous.Finished {
		screen.blink.StartBlink(context.Background())
	} else if !snapshot.Finished && previous.Finished {
		screen.blink.Stop()
	}
}

func (screen *Window) newColumn(unit countdown.Unit) *column {
	value := canvas.NewText("00", valueColor)
	value.Alignment = fyne.TextAlignCenter
	value.TextStyle = fyne.TextStyle{Monospace: true}
	value.TextSize = 36

	return &column{
		unit:  unit,
		value: value,
		up: widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
			screen.commands.AdjustTime(unit, countdown.Increase)
		}),
		down: widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
			screen.commands.AdjustTime(unit, countdown.Decrease)
		}),
	}
}

func (screen *Window) handleToggle() {
	if screen.snapshot.Running {
		screen.commands.Cancel()
		return
	}
	screen.commands.Start()
}

func (screen *Window) setValuesVisible(visible bool) {
	fyne.Do(func() {
		for _, col := range screen.columns {
			if visible {
				col.value.Show()
			} else {
				col.value.Hide()
			}
		}
	})
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
