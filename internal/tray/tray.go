// Package tray provides the system tray interface of the SignSerenade
// daemon.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu: camera toggle, last detected sign, quit.
type Tray struct {
	onToggle func()
	onOpen   func()
	onQuit   func()
	mu       sync.RWMutex

	menuToggle   *systray.MenuItem
	menuLastSign *systray.MenuItem
}

// New creates a Tray.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback for the camera toggle menu item.
func (t *Tray) OnToggle(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback for the open-in-browser menu item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. Blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("SignSerenade")
	systray.SetTooltip("SignSerenade Sign Language Translator")

	t.menuToggle = systray.AddMenuItem("Start Camera", "Toggle the capture session")
	systray.AddSeparator()

	t.menuLastSign = systray.AddMenuItem("Last sign: none", "Most recently detected sign")
	t.menuLastSign.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open SignSerenade...", "Open the app in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit SignSerenade")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
}

func (t *Tray) handleToggle() {
	t.mu.RLock()
	callback := t.onToggle
	t.mu.RUnlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback()
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetCameraActive updates the toggle label to reflect the session state.
func (t *Tray) SetCameraActive(active bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuToggle == nil {
		return
	}
	if active {
		t.menuToggle.SetTitle("Stop Camera")
	} else {
		t.menuToggle.SetTitle("Start Camera")
	}
}

// SetLastSign updates the last detected sign display in the menu.
func (t *Tray) SetLastSign(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastSign == nil {
		return
	}
	if name == "" {
		t.menuLastSign.SetTitle("Last sign: none")
	} else {
		t.menuLastSign.SetTitle("Last sign: " + name)
	}
}
