package overlay

import (
	"context"
	"image/color"

	"countdown/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Config defines overlay visuals.
type Config struct {
	Opacity uint8
	Message string
}

// Window manages the "time's up" splash shown while a countdown is finished.
type Window struct {
	window       fyne.Window
	background   *canvas.Rectangle
	titleLabel   *canvas.Text
	messageLabel *canvas.Text
	stopButton   *widget.Button
	blink        *animation.Engine
	cancelCtx    context.CancelFunc
	onStop       func()
	visible      bool
}

const (
	overlayWidthFraction  = float32(0.22)
	overlayHeightFraction = float32(0.18)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates a new overlay window.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow("Countdown")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 0, G: 0, B: 0, A: config.Opacity})

	titleLabel := canvas.NewText("00:00:00", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Monospace: true}
	titleLabel.TextSize = 42

	messageLabel := canvas.NewText(config.Message, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	messageLabel.Alignment = fyne.TextAlignCenter
	messageLabel.TextStyle = fyne.TextStyle{Bold: true}
	messageLabel.TextSize = 20

	stopButton := widget.NewButton("Dismiss", nil)

	content := container.NewVBox(titleLabel, messageLabel, container.NewCenter(stopButton))
	window.SetContent(container.NewStack(background, container.NewCenter(content)))

	overlay := &Window{
		window:       window,
		background:   background,
		titleLabel:   titleLabel,
		messageLabel: messageLabel,
		stopButton:   stopButton,
	}
	overlay.blink = animation.New(animation.DefaultConfig(), overlay.setTitleVisible)
	stopButton.OnTapped = func() {
		if overlay.onStop != nil {
			overlay.onStop()
		}
	}

	return overlay
}

// Show presents the splash and starts blinking the zeroed time.
func (overlay *Window) Show() {
	if overlay.visible {
		return
	}
	overlay.visible = true
	ctx, cancel := context.WithCancel(context.Background())
	overlay.cancelCtx = cancel

	overlay.resizeToScreenFraction()
	overlay.window.Show()
	overlay.window.RequestFocus()
	overlay.blink.StartBlink(ctx)
}

// Hide closes the splash and stops the blink loop.
func (overlay *Window) Hide() {
	if !overlay.visible {
		return
	}
	overlay.visible = false
	overlay.stopBlink()
	overlay.window.Hide()
}

// Visible reports whether the splash is showing.
func (overlay *Window) Visible() bool {
	return overlay.visible
}

// SetOnStop sets the dismiss handler.
func (overlay *Window) SetOnStop(handler func()) {
	overlay.onStop = handler
}

func (overlay *Window) setTitleVisible(visible bool) {
	fyne.Do(func() {
		if visible {
			overlay.titleLabel.Show()
		} else {
			overlay.titleLabel.Hide()
		}
	})
}

func (overlay *Window) stopBlink() {
	if overlay.cancelCtx != nil {
		overlay.cancelCtx()
		overlay.cancelCtx = nil
	}
	overlay.blink.Stop()
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}
