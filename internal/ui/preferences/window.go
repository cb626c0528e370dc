package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	hours    *widget.Entry
	minutes  *widget.Entry
	seconds  *widget.Entry
	grace    *widget.Entry
	chime    *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Countdown Settings")

	prefs := &Window{
		window:   window,
		settings: settings,
		onSave:   onSave,
		hours:    widget.NewEntry(),
		minutes:  widget.NewEntry(),
		seconds:  widget.NewEntry(),
		grace:    widget.NewEntry(),
		chime:    widget.NewCheck("Play a chime when the countdown ends", nil),
	}
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Initial time", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(prefs.hours, widget.NewLabel("h"), prefs.minutes, widget.NewLabel("m"), prefs.seconds, widget.NewLabel("s")),
		widget.NewLabelWithStyle("Finish", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Show \"time's up\" for"), prefs.grace, widget.NewLabel("sec")),
		prefs.chime,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 240))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.hours.SetText(strconv.Itoa(settings.Initial.Hours))
	prefs.minutes.SetText(strconv.Itoa(settings.Initial.Minutes))
	prefs.seconds.SetText(strconv.Itoa(settings.Initial.Seconds))
	prefs.grace.SetText(fmt.Sprintf("%d", int(settings.GracePeriod/time.Second)))
	prefs.chime.SetChecked(settings.ChimeEnabled)
}

func (prefs *Window) handleSave() {
	settings := prefs.collect()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() Settings {
	settings := prefs.settings

	if hours, ok := parseNonNegativeInt(prefs.hours.Text); ok {
		settings.Initial.Hours = hours
	}
	if minutes, ok := parseNonNegativeInt(prefs.minutes.Text); ok {
		settings.Initial.Minutes = minutes
	}
	if seconds, ok := parseNonNegativeInt(prefs.seconds.Text); ok {
		settings.Initial.Seconds = seconds
	}
	settings.Initial = settings.Initial.Clamped()

	if seconds, ok := parseNonNegativeInt(prefs.grace.Text); ok && seconds > 0 {
		settings.GracePeriod = time.Duration(seconds) * time.Second
	}
	settings.ChimeEnabled = prefs.chime.Checked
	return settings
}

func parseNonNegativeInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
