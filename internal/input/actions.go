package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/wintube-os/wintube/internal/app"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(msg tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd)

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a new action dispatcher with all handlers registered
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

// registerHandlers registers all action handlers
func (d *ActionDispatcher) registerHandlers() {
	// Window management
	d.Register("close_window", handleCloseWindow)
	d.Register("minimize_window", handleMinimizeWindow)
	d.Register("next_window", handleNextWindow)
	d.Register("prev_window", handlePrevWindow)

	// Keyboard window moves, one cell at a time
	d.Register("move_window_left", makeMoveHandler(-1, 0))
	d.Register("move_window_right", makeMoveHandler(1, 0))
	d.Register("move_window_up", makeMoveHandler(0, -1))
	d.Register("move_window_down", makeMoveHandler(0, 1))

	// System
	d.Register("toggle_start_menu", handleToggleStartMenu)
	d.Register("toggle_help", handleToggleHelp)
	d.Register("toggle_logs", handleToggleLogs)
	d.Register("quit", handleQuit)
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch executes the handler for a given action
func (d *ActionDispatcher) Dispatch(action string, msg tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	if handler, ok := d.handlers[action]; ok {
		return handler(msg, o)
	}
	return o, nil
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

// Global action dispatcher instance
var globalDispatcher = NewActionDispatcher()

// GetDispatcher returns the global action dispatcher
func GetDispatcher() *ActionDispatcher {
	return globalDispatcher
}

// ============================================================================
// Window Management Action Handlers
// ============================================================================

func handleCloseWindow(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	if id := o.FocusedID(); id != "" {
		o.CloseWindow(id)
	}
	return o, nil
}

func handleMinimizeWindow(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	if id := o.FocusedID(); id != "" {
		o.MinimizeWindow(id)
	}
	return o, nil
}

func handleNextWindow(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	return o, o.CycleWindows(1)
}

func handlePrevWindow(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	return o, o.CycleWindows(-1)
}

func makeMoveHandler(dx, dy int) ActionHandler {
	return func(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
		o.MoveFocused(dx, dy)
		return o, nil
	}
}

// ============================================================================
// System Action Handlers
// ============================================================================

func handleToggleStartMenu(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	o.ToggleStartMenu()
	return o, nil
}

func handleToggleHelp(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	o.ToggleHelp()
	return o, nil
}

func handleToggleLogs(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	o.ToggleLogs()
	if o.ShowLogs {
		o.Logger.Debug("log viewer opened")
	}
	return o, nil
}

func handleQuit(_ tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	return o, o.Quit()
}
