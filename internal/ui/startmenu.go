package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/theme"
)

// ShutdownItem is the id of the start menu entry that quits the desktop.
const ShutdownItem = "shutdown"

const startMenuWidth = 28

// MenuItem is one start menu entry. Item ids other than ShutdownItem are
// app ids.
type MenuItem struct {
	ID    string
	Label string
}

// StartMenu is the popup above the start button.
type StartMenu struct {
	Open     bool
	Selected int
	Items    []MenuItem
}

// NewStartMenu lists every app followed by the shutdown entry.
func NewStartMenu(specs []AppSpec) StartMenu {
	items := make([]MenuItem, 0, len(specs)+1)
	for _, s := range specs {
		items = append(items, MenuItem{ID: s.ID, Label: s.Title})
	}
	items = append(items, MenuItem{ID: ShutdownItem, Label: "Shut Down"})
	return StartMenu{Items: items}
}

// Toggle opens a closed menu with the first entry selected, or closes an
// open one.
func (s *StartMenu) Toggle() {
	s.Open = !s.Open
	s.Selected = 0
}

func (s *StartMenu) Close() {
	s.Open = false
}

// Move shifts the selection by delta, wrapping around.
func (s *StartMenu) Move(delta int) {
	n := len(s.Items)
	if n == 0 {
		return
	}
	s.Selected = ((s.Selected+delta)%n + n) % n
}

// Current returns the selected entry.
func (s StartMenu) Current() (MenuItem, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Items) {
		return MenuItem{}, false
	}
	return s.Items[s.Selected], true
}

// Size returns the rendered width and height of the menu.
func (s StartMenu) Size() (width, height int) {
	// border, header, separator line before shutdown, border
	return startMenuWidth, len(s.Items) + 4
}

// ItemAt returns the entry at (x, y), relative to the menu's top-left corner.
func (s StartMenu) ItemAt(x, y int) (MenuItem, bool) {
	if x <= 0 || x >= startMenuWidth-1 {
		return MenuItem{}, false
	}
	row := y - 2
	last := len(s.Items) - 1
	switch {
	case row >= 0 && row < last:
		return s.Items[row], true
	case row == last+1 && last >= 0:
		return s.Items[last], true
	}
	return MenuItem{}, false
}

// View renders the menu.
func (s StartMenu) View() string {
	inner := startMenuWidth - 2
	base := lipgloss.NewStyle().Background(theme.OverlayBg()).Foreground(theme.TaskbarFg())
	header := lipgloss.NewStyle().Background(theme.StartButton()).Foreground(theme.TitleText()).Bold(true)
	selected := lipgloss.NewStyle().Background(theme.Accent()).Foreground(theme.AccentText())

	rows := []string{header.Render(fitLine(" WinTube OS", inner))}
	for i, item := range s.Items {
		if i == len(s.Items)-1 {
			rows = append(rows, base.Foreground(theme.Dim()).Render(strings.Repeat("─", inner)))
		}
		label := ansi.Truncate("  "+item.Label, inner, "…")
		style := base
		if i == s.Selected {
			style = selected
		}
		rows = append(rows, style.Render(fitLine(label, inner)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.OverlayBorder()).
		BorderBackground(theme.OverlayBg()).
		Render(strings.Join(rows, "\n"))
}
