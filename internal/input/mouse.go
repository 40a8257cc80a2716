// Package input implements keyboard and mouse handling for the WinTube
// desktop.
package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/wintube-os/wintube/internal/app"
	"github.com/wintube-os/wintube/internal/ui"
	"github.com/wintube-os/wintube/internal/wm"
)

// HandleInput is the app.InputHandler for the desktop.
func HandleInput(msg tea.Msg, o *app.OS) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return HandleKey(msg, o)
	case tea.MouseClickMsg:
		return handleMouseClick(msg, o)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, o)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, o)
	case tea.MouseWheelMsg:
		return handleMouseWheel(msg, o)
	case tea.PasteMsg:
		return o, o.SendToFocused(msg)
	}
	return o, nil
}

// handleMouseClick handles mouse click events
func handleMouseClick(msg tea.MouseClickMsg, o *app.OS) (*app.OS, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return o, nil
	}
	x, y := mouse.X, mouse.Y

	// Overlays are modal; a click dismisses them.
	if o.ShowHelp || o.ShowLogs {
		o.ShowHelp, o.ShowLogs = false, false
		return o, nil
	}

	if o.StartMenu.Open {
		mx, my := o.StartMenuOrigin()
		w, h := o.StartMenu.Size()
		if x >= mx && x < mx+w && y >= my && y < my+h {
			if item, ok := o.StartMenu.ItemAt(x-mx, y-my); ok {
				return o, o.ActivateMenuItem(item)
			}
			return o, nil
		}
		if !isStartButton(x, y, o) {
			o.StartMenu.Close()
		}
	}

	if y >= o.DesktopHeight() {
		return handleTaskbarClick(x, o)
	}

	if rec, ok := o.WM.WindowAt(x, y); ok {
		o.Clicks.Reset()
		o.SelectedIcon = -1
		return handleWindowClick(rec, ui.HitWindow(rec, x, y), x, y, o)
	}

	if i, ok := o.IconAt(x, y); ok {
		o.SelectedIcon = i
		if o.Clicks.Press(o.Icons[i].AppID, o.Now()) {
			return o, o.ActivateIcon(i)
		}
		return o, nil
	}

	o.SelectedIcon = -1
	o.Clicks.Reset()
	return o, nil
}

func isStartButton(x, y int, o *app.OS) bool {
	if y < o.DesktopHeight() {
		return false
	}
	hit, ok := o.Taskbar.HitTest(o.WM.Records(), o.Width, x)
	return ok && hit.Start
}

// handleTaskbarClick toggles the start menu or restores the clicked
// window, whatever state it is in.
func handleTaskbarClick(x int, o *app.OS) (*app.OS, tea.Cmd) {
	hit, ok := o.Taskbar.HitTest(o.WM.Records(), o.Width, x)
	if !ok {
		return o, nil
	}
	if hit.Start {
		o.ToggleStartMenu()
		return o, nil
	}
	return o, o.RestoreWindow(hit.WindowID)
}

// handleWindowClick acts on a press inside window rec. Every press focuses
// the window first, so the title bar controls also consume a z-index.
func handleWindowClick(rec wm.Record, region ui.Region, x, y int, o *app.OS) (*app.OS, tea.Cmd) {
	switch region {
	case ui.RegionClose:
		o.FocusWindow(rec.ID)
		o.CloseWindow(rec.ID)
		return o, nil

	case ui.RegionMinimize:
		o.FocusWindow(rec.ID)
		o.MinimizeWindow(rec.ID)
		return o, nil

	case ui.RegionTitleBar:
		cmd := o.FocusWindow(rec.ID)
		o.Drag.Begin(rec, x, y)
		return o, cmd

	case ui.RegionContent:
		return o, tea.Batch(o.FocusWindow(rec.ID), o.ClickContent(rec, x, y))
	}

	// Maximize is drawn but does nothing beyond focusing, like the frame.
	return o, o.FocusWindow(rec.ID)
}

// handleMouseMotion moves the dragged window so the pointer keeps its
// offset from the top-left corner. Positions are not clamped.
func handleMouseMotion(msg tea.MouseMotionMsg, o *app.OS) (*app.OS, tea.Cmd) {
	if !o.Drag.Active {
		return o, nil
	}
	mouse := msg.Mouse()
	if !o.MoveWindow(o.Drag.WindowID, o.Drag.Target(mouse.X, mouse.Y)) {
		o.Drag.End()
	}
	return o, nil
}

func handleMouseRelease(_ tea.MouseReleaseMsg, o *app.OS) (*app.OS, tea.Cmd) {
	o.Drag.End()
	return o, nil
}

func handleMouseWheel(msg tea.MouseWheelMsg, o *app.OS) (*app.OS, tea.Cmd) {
	if !o.ShowLogs {
		return o, nil
	}
	switch msg.Mouse().Button {
	case tea.MouseWheelUp:
		o.ScrollLogs(1)
	case tea.MouseWheelDown:
		o.ScrollLogs(-1)
	}
	return o, nil
}
