package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"countdown/internal/alert"
	"countdown/internal/core/countdown"
	"countdown/internal/storage"
	"countdown/internal/ui/terminal"

	"github.com/gdamore/tcell/v2"
)

const appName = "Countdown"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "countdown: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, closeLog, err := newLogger(os.Getenv("COUNTDOWN_LOG"))
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

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

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return terminal.Run(ctx, screen, engine)
}

// Logs would corrupt the terminal, so they go to a file or nowhere.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = file.Close() }, nil
}
