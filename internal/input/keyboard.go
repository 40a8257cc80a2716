package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/wintube-os/wintube/internal/app"
)

// HandleKey routes a key press. Open overlays and the start menu take the
// keyboard first, then bound actions, then the focused window's app. With
// no window focused the arrows and enter drive the desktop icons.
func HandleKey(msg tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	key := msg.String()
	action := o.Keys.GetAction(key)

	if action == "quit" {
		return GetDispatcher().Dispatch(action, msg, o)
	}

	switch {
	case o.ShowHelp:
		return handleHelpKey(key, action, o)
	case o.ShowLogs:
		return handleLogsKey(key, action, o)
	case o.StartMenu.Open:
		return handleStartMenuKey(key, action, o)
	}

	if GetDispatcher().HasAction(action) {
		return GetDispatcher().Dispatch(action, msg, o)
	}

	if o.FocusedID() != "" {
		return o, o.SendToFocused(msg)
	}
	return handleDesktopKey(key, o)
}

func handleHelpKey(key, action string, o *app.OS) (*app.OS, tea.Cmd) {
	if key == "esc" || action == "toggle_help" {
		o.ShowHelp = false
	}
	return o, nil
}

func handleLogsKey(key, action string, o *app.OS) (*app.OS, tea.Cmd) {
	switch {
	case key == "esc" || action == "toggle_logs":
		o.ShowLogs = false
	case key == "up" || key == "k":
		o.ScrollLogs(1)
	case key == "down" || key == "j":
		o.ScrollLogs(-1)
	case key == "pgup":
		o.ScrollLogs(10)
	case key == "pgdown":
		o.ScrollLogs(-10)
	case key == "end":
		o.LogScrollOffset = 0
	}
	return o, nil
}

func handleStartMenuKey(key, action string, o *app.OS) (*app.OS, tea.Cmd) {
	switch {
	case key == "esc" || action == "toggle_start_menu":
		o.StartMenu.Close()
	case key == "up" || key == "k":
		o.StartMenu.Move(-1)
	case key == "down" || key == "j":
		o.StartMenu.Move(1)
	case key == "enter":
		if item, ok := o.StartMenu.Current(); ok {
			return o, o.ActivateMenuItem(item)
		}
	}
	return o, nil
}

func handleDesktopKey(key string, o *app.OS) (*app.OS, tea.Cmd) {
	switch key {
	case "up", "left", "k", "h":
		o.SelectIcon(-1)
	case "down", "right", "j", "l":
		o.SelectIcon(1)
	case "enter", "space":
		return o, o.ActivateIcon(o.SelectedIcon)
	case "esc":
		o.SelectedIcon = -1
	}
	return o, nil
}
