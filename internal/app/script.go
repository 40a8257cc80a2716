package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/tape"
	"github.com/wintube-os/wintube/internal/wm"
)

var (
	// ErrUnknownApp is returned by a script that opens an app that is not
	// installed.
	ErrUnknownApp = errors.New("unknown app")
	// ErrNoWindow is returned by a script that targets a window that is not
	// open.
	ErrNoWindow = errors.New("no such window")
)

// scriptStepMsg runs the next script command.
type scriptStepMsg struct{}

func (o *OS) scheduleScriptStep(d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return scriptStepMsg{} }
	}
	return o.after(d, func(time.Time) tea.Msg { return scriptStepMsg{} })
}

// stepScript executes the current command and schedules the next one. A
// WaitBoot reached during the boot screen parks the player until the boot
// completes.
func (o *OS) stepScript() tea.Cmd {
	if o.Script == nil || o.ScriptWaitBoot {
		return nil
	}
	cmd := o.Script.Current()
	if cmd == nil {
		return nil
	}
	if cmd.Type == tape.CommandType_WaitBoot && o.Boot != nil {
		o.ScriptWaitBoot = true
		return nil
	}

	o.Script.Advance()
	out, err := o.ExecuteCommand(cmd)
	if err != nil {
		o.ScriptErrors = append(o.ScriptErrors, err)
		o.Logger.Warn("script", "line", cmd.Line, "command", cmd.String(), "err", err)
		o.ShowNotification(fmt.Sprintf("Script error: %v", err), config.NotificationDuration)
	}

	if o.Script.IsFinished() {
		o.Logger.Info("script finished", "commands", o.Script.Len(), "errors", len(o.ScriptErrors))
		return out
	}

	delay := config.ScriptStepInterval
	if cmd.Delay > 0 {
		delay = cmd.Delay
	}
	return tea.Batch(out, o.scheduleScriptStep(delay))
}

// ExecuteCommand runs one script command against the desktop. Input
// commands go through the same handler as real key presses and clicks.
func (o *OS) ExecuteCommand(cmd *tape.Command) (tea.Cmd, error) {
	switch cmd.Type {
	case tape.CommandType_Sleep, tape.CommandType_WaitBoot:
		return nil, nil

	case tape.CommandType_Type:
		var cmds []tea.Cmd
		for _, arg := range cmd.Args {
			for _, msg := range tape.TextMsgs(arg) {
				cmds = append(cmds, o.dispatch(msg))
			}
		}
		return tea.Batch(cmds...), nil

	case tape.CommandType_Key, tape.CommandType_KeyCombo:
		if len(cmd.Args) == 0 {
			return nil, fmt.Errorf("%s: missing key", cmd.Type)
		}
		if _, err := tape.ParseKeyCombo(cmd.Args[0]); err != nil {
			return nil, err
		}
		msg := tape.KeyMsg(cmd.Args[0])
		cmds := make([]tea.Cmd, 0, cmd.Times())
		for range cmd.Times() {
			cmds = append(cmds, o.dispatch(msg))
		}
		return tea.Batch(cmds...), nil

	case tape.CommandType_Click:
		x, y, err := coordinates(cmd.Args)
		if err != nil {
			return nil, err
		}
		mouse := tea.Mouse{X: x, Y: y, Button: tea.MouseLeft}
		return tea.Batch(
			o.dispatch(tea.MouseClickMsg(mouse)),
			o.dispatch(tea.MouseReleaseMsg(mouse)),
		), nil

	case tape.CommandType_Open:
		if len(cmd.Args) == 0 {
			return nil, fmt.Errorf("%s: missing app id", cmd.Type)
		}
		id := cmd.Args[0]
		if _, ok := o.App(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownApp, id)
		}
		return o.OpenApp(id), nil

	case tape.CommandType_Close:
		id, err := o.scriptTarget(cmd)
		if err != nil {
			return nil, err
		}
		o.CloseWindow(id)
		return nil, nil

	case tape.CommandType_Minimize:
		id, err := o.scriptTarget(cmd)
		if err != nil {
			return nil, err
		}
		o.MinimizeWindow(id)
		return nil, nil

	case tape.CommandType_Restore:
		id, err := o.scriptTarget(cmd)
		if err != nil {
			return nil, err
		}
		return o.RestoreWindow(id), nil

	case tape.CommandType_Focus:
		id, err := o.scriptTarget(cmd)
		if err != nil {
			return nil, err
		}
		return o.FocusWindow(id), nil

	case tape.CommandType_Move:
		if len(cmd.Args) < 3 {
			return nil, fmt.Errorf("%s: expected window id, x and y, got %d values", cmd.Type, len(cmd.Args))
		}
		id, err := o.scriptTarget(cmd)
		if err != nil {
			return nil, err
		}
		x, y, err := coordinates(cmd.Args[1:])
		if err != nil {
			return nil, err
		}
		o.MoveWindow(id, wm.Position{X: x, Y: y})
		return nil, nil

	case tape.CommandType_NextWin:
		return o.CycleWindows(1), nil

	case tape.CommandType_PrevWin:
		return o.CycleWindows(-1), nil
	}
	return nil, fmt.Errorf("%w: %s", tape.ErrUnknownCommand, cmd.Type)
}

func (o *OS) dispatch(msg tea.Msg) tea.Cmd {
	_, cmd := o.handleInput(msg)
	return cmd
}

// scriptTarget returns the window named by cmd, or the focused window when
// the command has no argument.
func (o *OS) scriptTarget(cmd *tape.Command) (string, error) {
	id := o.FocusedID()
	if len(cmd.Args) > 0 {
		id = cmd.Args[0]
	}
	if id == "" {
		return "", fmt.Errorf("%s: %w: nothing is focused", cmd.Type, ErrNoWindow)
	}
	if _, ok := o.WM.Get(id); !ok {
		return "", fmt.Errorf("%s: %w: %s", cmd.Type, ErrNoWindow, id)
	}
	return id, nil
}

func coordinates(args []string) (x, y int, err error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("expected x and y, got %d values", len(args))
	}
	if x, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid x: %w", err)
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid y: %w", err)
	}
	return x, y, nil
}

// captureInput feeds user input to the recorder. Quit keys are left out so
// that a replay runs to the end.
func (o *OS) captureInput(msg tea.Msg) {
	if o.Recorder == nil {
		return
	}
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if o.Keys.GetAction(msg.String()) != "quit" {
			o.Recorder.RecordKey(msg, o.Now())
		}
	case tea.MouseClickMsg:
		if m := msg.Mouse(); m.Button == tea.MouseLeft {
			o.Recorder.RecordClick(m.X, m.Y, o.Now())
		}
	}
}

// captureDrop records where a dragged window was dropped. Scripts have no
// drag command, so the drag is replayed as a move.
func (o *OS) captureDrop(id string) {
	if o.Recorder == nil || id == "" {
		return
	}
	if rec, ok := o.WM.Get(id); ok {
		o.Recorder.RecordMove(id, rec.Position.X, rec.Position.Y, o.Now())
	}
}
