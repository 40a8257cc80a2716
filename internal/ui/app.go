// Package ui contains the desktop widgets of WinTube OS: window chrome,
// desktop icons, the taskbar and the start menu. Widgets render strings and
// answer hit tests; they never change window state themselves. The shell
// decides what a click means.
package ui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
)

// App is the content hosted inside a window. An App is created when its
// window is opened or restored and closed when the window is minimized or
// closed, so it must release its timers in Close.
type App interface {
	// Init returns the commands to run once the app is mounted.
	Init() tea.Cmd
	// Update handles a message routed to the app. Keyboard input is only
	// routed to the focused window's app; timer ticks go to every app.
	Update(msg tea.Msg) tea.Cmd
	// View renders the app into exactly width x height cells.
	View(width, height int) string
	// Click handles a left press at coordinates relative to the content area.
	Click(x, y int) tea.Cmd
	// Close stops everything the app started.
	Close()
}

// AppSpec registers an application with the desktop.
type AppSpec struct {
	// ID is also the window id, so each app has at most one window.
	ID    string
	Title string
	// Label is the caption under the desktop icon.
	Label string
	// Glyph and GlyphASCII are the icon art, one line per row.
	Glyph      []string
	GlyphASCII []string
	New        func(logger *log.Logger) App
}

// Icon returns the glyph for the current appearance settings.
func (s AppSpec) Icon(asciiOnly bool) []string {
	if asciiOnly && len(s.GlyphASCII) > 0 {
		return s.GlyphASCII
	}
	return s.Glyph
}
