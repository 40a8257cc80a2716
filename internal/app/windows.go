package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/wintube-os/wintube/internal/ui"
	"github.com/wintube-os/wintube/internal/wm"
)

// OpenApp opens the window of app id, or raises it when it is already
// open. Unknown ids are ignored.
func (o *OS) OpenApp(id string) tea.Cmd {
	spec, ok := o.appsByID[id]
	if !ok {
		o.Logger.Warn("unknown app", "id", id)
		return nil
	}
	o.StartMenu.Close()

	rec, created := o.WM.OpenOrFocus(spec.ID, spec.Title)
	if created {
		o.Logger.Info("open", "window", id, "x", rec.Position.X, "y", rec.Position.Y, "z", rec.ZIndex)
	} else {
		o.Logger.Info("focus", "window", id, "z", rec.ZIndex)
	}
	return o.mount(id)
}

// CloseWindow removes window id and unmounts its content.
func (o *OS) CloseWindow(id string) bool {
	if !o.WM.Close(id) {
		return false
	}
	o.unmount(id)
	if o.Drag.WindowID == id {
		o.Drag.End()
	}
	o.Logger.Info("close", "window", id)
	return true
}

// MinimizeWindow hides window id. Its content is unmounted, which stops
// any timers the app was running.
func (o *OS) MinimizeWindow(id string) bool {
	if !o.WM.Minimize(id) {
		return false
	}
	o.unmount(id)
	if o.Drag.WindowID == id {
		o.Drag.End()
	}
	o.Logger.Info("minimize", "window", id)
	return true
}

// RestoreWindow shows and raises window id, mounting fresh content if it
// was minimized.
func (o *OS) RestoreWindow(id string) tea.Cmd {
	if !o.WM.Restore(id) {
		return nil
	}
	rec, _ := o.WM.Get(id)
	o.Logger.Info("restore", "window", id, "z", rec.ZIndex)
	return o.mount(id)
}

// FocusWindow raises window id.
func (o *OS) FocusWindow(id string) tea.Cmd {
	if !o.WM.Focus(id) {
		return nil
	}
	rec, _ := o.WM.Get(id)
	o.Logger.Debug("focus", "window", id, "z", rec.ZIndex)
	return o.mount(id)
}

// MoveWindow places the top-left corner of window id at pos.
func (o *OS) MoveWindow(id string, pos wm.Position) bool {
	return o.WM.Move(id, pos)
}

// MoveFocused shifts the focused window by (dx, dy) cells.
func (o *OS) MoveFocused(dx, dy int) bool {
	rec, ok := o.WM.Topmost()
	if !ok {
		return false
	}
	return o.WM.Move(rec.ID, wm.Position{X: rec.Position.X + dx, Y: rec.Position.Y + dy})
}

// FocusedID returns the id of the window receiving keyboard input, or "".
func (o *OS) FocusedID() string {
	if rec, ok := o.WM.Topmost(); ok {
		return rec.ID
	}
	return ""
}

// CycleWindows focuses the next (delta > 0) or previous visible window.
func (o *OS) CycleWindows(delta int) tea.Cmd {
	id, ok := o.WM.Cycle(delta)
	if !ok {
		return nil
	}
	o.Logger.Debug("cycle", "window", id)
	return o.mount(id)
}

// SendToFocused routes msg to the focused window's app.
func (o *OS) SendToFocused(msg tea.Msg) tea.Cmd {
	a, ok := o.Mounted[o.FocusedID()]
	if !ok {
		return nil
	}
	return a.Update(msg)
}

// ClickContent forwards a press at screen cell (x, y) to the app of rec
// in content-relative coordinates.
func (o *OS) ClickContent(rec wm.Record, x, y int) tea.Cmd {
	a, ok := o.Mounted[rec.ID]
	if !ok {
		return nil
	}
	cx, cy, _, _ := ui.ContentRect(rec)
	return a.Click(x-cx, y-cy)
}

func (o *OS) mount(id string) tea.Cmd {
	if _, ok := o.Mounted[id]; ok {
		return nil
	}
	spec, ok := o.appsByID[id]
	if !ok || spec.New == nil {
		return nil
	}
	a := spec.New(o.Logger.WithPrefix(id))
	o.Mounted[id] = a
	return a.Init()
}

func (o *OS) unmount(id string) {
	if a, ok := o.Mounted[id]; ok {
		a.Close()
		delete(o.Mounted, id)
	}
}

// ToggleStartMenu opens or closes the start menu.
func (o *OS) ToggleStartMenu() {
	o.StartMenu.Toggle()
}

// ActivateMenuItem runs a start menu entry.
func (o *OS) ActivateMenuItem(item ui.MenuItem) tea.Cmd {
	o.StartMenu.Close()
	if item.ID == ui.ShutdownItem {
		return o.Quit()
	}
	return o.OpenApp(item.ID)
}

// IconAt returns the index of the desktop icon at (x, y).
func (o *OS) IconAt(x, y int) (int, bool) {
	for i, icon := range o.Icons {
		if icon.Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// SelectIcon moves the keyboard icon selection by delta, wrapping around.
func (o *OS) SelectIcon(delta int) {
	n := len(o.Icons)
	if n == 0 {
		return
	}
	if o.SelectedIcon < 0 {
		if delta < 0 {
			o.SelectedIcon = n - 1
		} else {
			o.SelectedIcon = 0
		}
		return
	}
	o.SelectedIcon = ((o.SelectedIcon+delta)%n + n) % n
}

// ActivateIcon opens the app of icon i.
func (o *OS) ActivateIcon(i int) tea.Cmd {
	if i < 0 || i >= len(o.Icons) {
		return nil
	}
	return o.OpenApp(o.Icons[i].AppID)
}

// ToggleHelp shows or hides the keybinding overlay.
func (o *OS) ToggleHelp() {
	o.ShowHelp = !o.ShowHelp
	if o.ShowHelp {
		o.ShowLogs = false
	}
}

// ToggleLogs shows or hides the log viewer.
func (o *OS) ToggleLogs() {
	o.ShowLogs = !o.ShowLogs
	o.LogScrollOffset = 0
	if o.ShowLogs {
		o.ShowHelp = false
	}
}

// ScrollLogs moves the log viewer by delta lines. Positive values scroll
// towards older entries.
func (o *OS) ScrollLogs(delta int) {
	total := 0
	if o.LogRing != nil {
		total = o.LogRing.Len()
	}
	o.LogScrollOffset = min(max(o.LogScrollOffset+delta, 0), max(total-1, 0))
}

// Quit shuts the desktop down.
func (o *OS) Quit() tea.Cmd {
	o.Logger.Info("shutdown", "session", o.SessionID)
	o.Cleanup()
	return tea.Quit
}
