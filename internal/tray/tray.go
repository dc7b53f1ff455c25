// Package tray provides a system tray interface for the Ushna thermal viewer.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onRecord   func(recording bool)
	onSnapshot func()
	onOpen     func()
	onQuit     func()
	recording  bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuRecord   *systray.MenuItem
	menuLastSnap *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnRecord sets the callback function to be called when recording is toggled.
func (t *Tray) OnRecord(fn func(recording bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRecord = fn
}

// OnSnapshot sets the callback function to be called when the snapshot menu item is clicked.
func (t *Tray) OnSnapshot(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSnapshot = fn
}

// OnOpen sets the callback function to be called when the open viewer menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
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

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Ushna")
	systray.SetTooltip("Ushna Thermal Viewer")

	t.menuRecord = systray.AddMenuItem("○ Record", "Toggle heatmap recording")
	systray.AddSeparator()

	menuSnapshot := systray.AddMenuItem("Take Snapshot", "Save the current heatmap as PNG")
	t.menuLastSnap = systray.AddMenuItem("Last snapshot: none", "Time of the last snapshot")
	t.menuLastSnap.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Viewer...", "Open the viewer in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Ushna")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuRecord.ClickedCh:
				t.handleRecord()
			case <-menuSnapshot.ClickedCh:
				t.handleSnapshot()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleRecord handles the record menu item click.
func (t *Tray) handleRecord() {
	t.mu.Lock()
	t.recording = !t.recording
	recording := t.recording

	if recording {
		t.menuRecord.SetTitle("● Recording")
	} else {
		t.menuRecord.SetTitle("○ Record")
	}

	callback := t.onRecord
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(recording)
	}
}

// handleSnapshot handles the snapshot menu item click.
func (t *Tray) handleSnapshot() {
	t.mu.RLock()
	callback := t.onSnapshot
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleOpen handles the open viewer menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
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

// SetRecording updates the record menu item when recording state changes
// outside the tray, for example auto-record or a web command.
func (t *Tray) SetRecording(recording bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.recording = recording
	if t.menuRecord == nil {
		return
	}
	if recording {
		t.menuRecord.SetTitle("● Recording")
	} else {
		t.menuRecord.SetTitle("○ Record")
	}
}

// SetLastSnapshot updates the last snapshot display in the menu.
func (t *Tray) SetLastSnapshot(when string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastSnap != nil {
		if when == "" || when == "None" {
			t.menuLastSnap.SetTitle("Last snapshot: none")
		} else {
			t.menuLastSnap.SetTitle("Last snapshot: " + when)
		}
	}
}
