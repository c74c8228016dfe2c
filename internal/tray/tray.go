// Package tray provides the system tray interface of handosc.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application. Toggling capture maps to
// the visible/not-visible lifecycle of the preview.
type Tray struct {
	onToggle  func(start bool) error
	onPreview func()
	onQuit    func()
	running   bool
	visible   bool
	lastErr   string
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuHand   *systray.MenuItem
	menuError  *systray.MenuItem
}

// New creates a new Tray with capture stopped.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback called when capture is started or stopped
// from the menu. A start error keeps capture stopped and is shown in the menu.
func (t *Tray) OnToggle(fn func(start bool) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnPreview sets the callback called when the preview menu item is clicked.
func (t *Tray) OnPreview(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPreview = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("HandOSC")
	systray.SetTooltip("HandOSC hand tracking")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.running), "Start or stop hand capture")
	systray.AddSeparator()

	t.menuHand = systray.AddMenuItem(handTitle(t.visible), "Current hand state")
	t.menuHand.Disable()
	t.menuError = systray.AddMenuItem(errorTitle(t.lastErr), "Last capture error")
	t.menuError.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuPreview := systray.AddMenuItem("Open Preview...", "Open the preview in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit HandOSC")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuPreview.ClickedCh:
				t.handlePreview()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle starts capture when stopped and stops it when running.
func (t *Tray) handleToggle() {
	t.mu.RLock()
	start := !t.running
	callback := t.onToggle
	t.mu.RUnlock()

	// Call the callback outside the lock to prevent deadlocks
	var err error
	if callback != nil {
		err = callback(start)
	}

	if err != nil {
		t.SetError(err)
		t.SetRunning(false)
		return
	}
	t.SetRunning(start)
}

func (t *Tray) handlePreview() {
	t.mu.RLock()
	callback := t.onPreview
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetRunning updates the capture state, e.g. after a session ended on its own.
func (t *Tray) SetRunning(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = running
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(running))
	}
}

// SetHandVisible updates the hand state display in the menu.
func (t *Tray) SetHandVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = visible
	if t.menuHand != nil {
		t.menuHand.SetTitle(handTitle(visible))
	}
}

// SetError shows err as the last capture error. A nil err clears it.
func (t *Tray) SetError(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastErr = msg
	if t.menuError != nil {
		t.menuError.SetTitle(errorTitle(msg))
	}
}

// IsRunning returns the capture state shown in the menu.
func (t *Tray) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// HandVisible returns the hand state shown in the menu.
func (t *Tray) HandVisible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visible
}

// LastError returns the error message shown in the menu.
func (t *Tray) LastError() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr
}

func toggleTitle(running bool) string {
	if running {
		return "● Capturing"
	}
	return "○ Stopped"
}

func handTitle(visible bool) string {
	if visible {
		return "Hand: visible"
	}
	return "Hand: not visible"
}

// maxErrorTitle keeps the menu narrow.
const maxErrorTitle = 60

func errorTitle(msg string) string {
	if msg == "" {
		return "Error: none"
	}
	title := "Error: " + msg
	if r := []rune(title); len(r) > maxErrorTitle {
		title = string(r[:maxErrorTitle-1]) + "…"
	}
	return title
}
