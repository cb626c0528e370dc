package tray

import (
	"fmt"

	"countdown/internal/core/countdown"

	"fyne.io/fyne/v2"
)

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnStart       func()
	OnCancel      func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	host       MenuHost
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	callbacks  Callbacks
	snapshot   countdown.Snapshot
}

// New creates a tray manager with the provided callbacks.
func New(host MenuHost, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", manager.handleToggle)

	manager.refreshMenu()
	return manager
}

// SetSnapshot updates status and toggle items from the engine state.
func (manager *Manager) SetSnapshot(snapshot countdown.Snapshot) {
	manager.snapshot = snapshot
	manager.statusItem.Label = "Status: " + statusText(snapshot)
	if snapshot.Running {
		manager.toggleItem.Label = "Cancel"
		manager.toggleItem.Disabled = false
	} else {
		manager.toggleItem.Label = "Start"
		manager.toggleItem.Disabled = snapshot.Total() <= 0
	}
	manager.refreshMenu()
}

func (manager *Manager) handleToggle() {
	if manager.snapshot.Running {
		if manager.callbacks.OnCancel != nil {
			manager.callbacks.OnCancel()
		}
		return
	}
	if manager.callbacks.OnStart != nil {
		manager.callbacks.OnStart()
	}
}

func (manager *Manager) refreshMenu() {
	if manager.host == nil {
		return
	}
	manager.host.SetSystemTrayMenu(fyne.NewMenu("Countdown",
		manager.statusItem,
		fyne.NewMenuItem("Show timer", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		manager.toggleItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}

func statusText(snapshot countdown.Snapshot) string {
	switch snapshot.State() {
	case countdown.StateRunning:
		return fmt.Sprintf("%s remaining", snapshot)
	case countdown.StateFinished:
		return "time's up"
	default:
		return fmt.Sprintf("idle (%s)", snapshot)
	}
}
