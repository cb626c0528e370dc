package main

import (
	"log/slog"
	"os"

	"countdown/internal/alert"
	"countdown/internal/core/countdown"
	"countdown/internal/platform"
	"countdown/internal/storage"
	"countdown/internal/ui/overlay"
	"countdown/internal/ui/preferences"
	"countdown/internal/ui/screen"
	"countdown/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

const appName = "Countdown"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	lock, err := platform.AcquireSession(appName)
	if err != nil {
		logger.Error("single instance", slog.Any("error", err))
		return
	}
	defer func() {
		_ = lock.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("using default settings", slog.Any("error", err))
	}

	engine := countdown.New(settings.CountdownConfig(), countdown.Options{Logger: logger})
	defer engine.Close()

	chime := alert.NewChime(settings.ChimeEnabled, logger)
	if err := chime.Initialize(); err != nil {
		logger.Warn("audio unavailable", slog.Any("error", err))
	}
	go chime.Watch(engine.Subscribe(4, countdown.FieldFinished))

	fyneApp := app.NewWithID("com.countdown.app")
	fyneApp.SetIcon(theme.HistoryIcon())

	timerScreen := screen.New(fyneApp, engine, engine.Snapshot())
	timerScreen.Follow(engine.Subscribe(32))

	splash := overlay.New(fyneApp, overlay.Config{
		Opacity: 217,
		Message: "Time's up!",
	})
	splash.SetOnStop(engine.Cancel)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Warn("save settings", slog.Any("error", err))
		}
		chime.SetEnabled(settings.ChimeEnabled)
		engine.UpdateConfig(settings.CountdownConfig())
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:        timerScreen.Show,
			OnStart:       engine.Start,
			OnCancel:      engine.Cancel,
			OnPreferences: prefsWindow.Show,
			OnQuit: func() {
				engine.Close()
				fyneApp.Quit()
			},
		})
		trayManager.SetSnapshot(engine.Snapshot())
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		timerScreen.Window().SetCloseIntercept(func() {
			timerScreen.Window().Hide()
		})
	} else {
		logger.Info("system tray unsupported on this platform")
		timerScreen.Window().SetMaster()
	}

	events := engine.Subscribe(32)
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				handleSnapshot(snapshot, splash, trayManager)
			})
		}
	}()

	timerScreen.Show()
	fyneApp.Run()
}

func handleSnapshot(snapshot countdown.Snapshot, splash *overlay.Window, trayManager *tray.Manager) {
	if trayManager != nil {
		trayManager.SetSnapshot(snapshot)
	}
	switch {
	case snapshot.Finished && !splash.Visible():
		splash.Show()
	case !snapshot.Finished && splash.Visible():
		splash.Hide()
	}
}
