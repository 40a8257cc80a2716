package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/theme"
	"github.com/wintube-os/wintube/internal/ui"
)

// View renders the boot screen or the desktop.
func (o *OS) View() tea.View {
	var content string
	if o.Boot != nil {
		content = o.Boot.View(o.Width, o.Height)
	} else {
		content = o.renderDesktop()
	}

	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = "WinTube OS"
	return v
}

// DesktopHeight is the number of rows above the taskbar.
func (o *OS) DesktopHeight() int {
	return max(o.Height-config.TaskbarHeight, 0)
}

// StartMenuOrigin returns the top-left corner of the open start menu.
func (o *OS) StartMenuOrigin() (x, y int) {
	_, h := o.StartMenu.Size()
	return 0, max(o.DesktopHeight()-h, 0)
}

func (o *OS) renderDesktop() string {
	width, height := o.Width, o.Height
	if width <= 0 || height <= 0 {
		return ""
	}
	deskHeight := o.DesktopHeight()

	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(lipgloss.Place(width, deskHeight, lipgloss.Left, lipgloss.Top, "",
			lipgloss.WithWhitespaceStyle(lipgloss.NewStyle().Background(theme.DesktopBg())))).
			Z(config.ZIndexDesktop),
	}

	for i, icon := range o.Icons {
		layers = append(layers, lipgloss.NewLayer(icon.View(i == o.SelectedIcon)).
			X(icon.X).Y(icon.Y).Z(config.ZIndexIcons).ID("icon:"+icon.AppID))
	}

	focused := o.FocusedID()
	for _, rec := range o.WM.Stack() {
		_, _, cw, ch := ui.ContentRect(rec)
		content := ""
		if a, ok := o.Mounted[rec.ID]; ok {
			content = a.View(cw, ch)
		}
		block := ui.RenderWindow(rec, content, rec.ID == focused)
		visible, x, y := ui.Clip(block, rec.Position.X, rec.Position.Y, width, deskHeight)
		if visible == "" {
			continue
		}
		layers = append(layers, lipgloss.NewLayer(visible).X(x).Y(y).Z(rec.ZIndex).ID("window:"+rec.ID))
	}

	if deskHeight < height {
		bar := o.Taskbar.View(o.WM.Records(), focused, width, o.StartMenu.Open)
		layers = append(layers, lipgloss.NewLayer(bar).X(0).Y(deskHeight).Z(config.ZIndexTaskbar).ID("taskbar"))
	}

	if o.StartMenu.Open {
		x, y := o.StartMenuOrigin()
		layers = append(layers, lipgloss.NewLayer(o.StartMenu.View()).X(x).Y(y).Z(config.ZIndexStartMenu).ID("startmenu"))
	}

	layers = append(layers, o.overlayLayers(width, deskHeight)...)

	canvas := lipgloss.NewCanvas(width, height)
	canvas.Compose(lipgloss.NewCompositor(layers...))
	return canvas.Render()
}

// overlayLayers returns the help, log viewer, notification and script
// status layers that are currently visible.
func (o *OS) overlayLayers(width, height int) []*lipgloss.Layer {
	var layers []*lipgloss.Layer

	switch {
	case o.ShowHelp:
		layers = append(layers, centered(o.renderHelp(), width, height))
	case o.ShowLogs:
		layers = append(layers, centered(o.renderLogs(width, height), width, height))
	}

	if msg, ok := o.ActiveNotification(); ok {
		box := lipgloss.NewStyle().
			Background(theme.OverlayBg()).
			Foreground(theme.TaskbarFg()).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Accent()).
			BorderBackground(theme.OverlayBg()).
			Padding(0, 1).
			Render(ansi.Truncate(msg, max(width-6, 1), "…"))
		x := max(width-lipgloss.Width(box)-1, 0)
		layers = append(layers, lipgloss.NewLayer(box).X(x).Y(max(height-lipgloss.Height(box), 0)).Z(config.ZIndexOverlay+1))
	}

	if o.Script != nil && !o.Script.IsFinished() {
		marker := "▶"
		if config.UseASCIIOnly {
			marker = ">"
		}
		status := fmt.Sprintf(" %s %s ", marker, o.Script.Status())
		status = ansi.Truncate(status, width, "…")
		line := lipgloss.NewStyle().Background(theme.Accent()).Foreground(theme.AccentText()).Render(status)
		layers = append(layers, lipgloss.NewLayer(line).X(max(width-lipgloss.Width(line), 0)).Y(0).Z(config.ZIndexOverlay+1))
	}
	return layers
}

func centered(block string, width, height int) *lipgloss.Layer {
	x := max((width-lipgloss.Width(block))/2, 0)
	y := max((height-lipgloss.Height(block))/2, 0)
	return lipgloss.NewLayer(block).X(x).Y(y).Z(config.ZIndexOverlay)
}
