package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wintube-os/wintube/internal/boot"
	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/sched"
	"github.com/wintube-os/wintube/internal/sysmon"
	"github.com/wintube-os/wintube/internal/theme"
	"github.com/wintube-os/wintube/internal/ui"
)

// BootDoneMsg ends the boot screen. It is scheduled once from Init.
type BootDoneMsg struct{}

// ConfigReloadedMsg carries a configuration file that changed on disk.
type ConfigReloadedMsg struct {
	Config *config.UserConfig
}

// InputHandler is a function type that handles input messages.
// This allows the Update method to delegate to the input package without creating a circular dependency.
type InputHandler func(msg tea.Msg, o *OS) (tea.Model, tea.Cmd)

// inputHandler is the registered input handler function.
// This will be set by the main package to break the circular dependency.
var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called during initialization before the Update loop runs.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Init shows the boot screen, or the desktop straight away when the boot
// screen is disabled.
func (o *OS) Init() tea.Cmd {
	o.Logger.Info("session start", "session", o.SessionID)

	var cmds []tea.Cmd
	if o.Script != nil {
		cmds = append(cmds, o.scheduleScriptStep(0))
	}

	if !config.BootScreenEnabled {
		cmds = append(cmds, o.finishBoot())
		return tea.Batch(cmds...)
	}

	o.Boot = boot.New()
	cmds = append(cmds,
		o.Boot.Init(),
		o.after(config.BootDuration, func(time.Time) tea.Msg { return BootDoneMsg{} }),
	)
	return tea.Batch(cmds...)
}

// completeBoot drops the boot screen for good and starts the desktop.
func (o *OS) completeBoot() tea.Cmd {
	if o.Boot == nil {
		return nil
	}
	o.Boot.Stop()
	o.Boot = nil
	o.Logger.Info("boot complete")
	return o.finishBoot()
}

func (o *OS) finishBoot() tea.Cmd {
	cmds := []tea.Cmd{o.Taskbar.Init()}
	if o.Tray != nil {
		cmds = append(cmds, o.Tray.Init())
	}
	if o.ScriptWaitBoot {
		o.ScriptWaitBoot = false
		cmds = append(cmds, o.scheduleScriptStep(0))
	}
	if o.Recorder != nil {
		o.Recorder.Resume(o.Now())
	}
	return tea.Batch(cmds...)
}

// Update is the main update loop.
func (o *OS) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.Width, o.Height = msg.Width, msg.Height
		return o, nil

	case BootDoneMsg:
		return o, o.completeBoot()

	case sched.TickMsg:
		return o, o.routeTick(msg)

	case sysmon.SampleMsg:
		var cmds []tea.Cmd
		if o.Tray != nil {
			cmds = append(cmds, o.Tray.Update(msg))
			o.Taskbar.Tray = o.Tray.Tray()
		}
		cmds = append(cmds, o.broadcast(msg))
		return o, tea.Batch(cmds...)

	case ConfigReloadedMsg:
		return o, o.applyConfig(msg.Config)

	case scriptStepMsg:
		return o, o.stepScript()

	case tea.KeyPressMsg:
		if o.Boot != nil {
			if o.Keys.GetAction(msg.String()) == "quit" {
				return o, o.Quit()
			}
			return o, nil
		}
		o.captureInput(msg)
		return o.handleInput(msg)

	case tea.MouseReleaseMsg:
		if o.Boot != nil {
			return o, nil
		}
		dragged := o.Drag.WindowID
		model, cmd := o.handleInput(msg)
		o.captureDrop(dragged)
		return model, cmd

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseWheelMsg, tea.PasteMsg:
		if o.Boot != nil {
			return o, nil
		}
		o.captureInput(msg)
		return o.handleInput(msg)
	}

	return o, o.broadcast(msg)
}

func (o *OS) handleInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if inputHandler != nil {
		return inputHandler(msg, o)
	}
	if key, ok := msg.(tea.KeyPressMsg); ok {
		return o, o.SendToFocused(key)
	}
	return o, nil
}

// routeTick hands a timer tick to every component that owns timers. Each
// one ignores ticks it does not own.
func (o *OS) routeTick(msg sched.TickMsg) tea.Cmd {
	var cmds []tea.Cmd
	if o.Boot != nil {
		cmds = append(cmds, o.Boot.Update(msg))
	}
	cmds = append(cmds, o.Taskbar.Update(msg))
	if o.Tray != nil {
		cmds = append(cmds, o.Tray.Update(msg))
	}
	cmds = append(cmds, o.broadcast(msg))
	return tea.Batch(cmds...)
}

// broadcast sends msg to every mounted app in window opening order.
func (o *OS) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, rec := range o.WM.Records() {
		if a, ok := o.Mounted[rec.ID]; ok {
			cmds = append(cmds, a.Update(msg))
		}
	}
	return tea.Batch(cmds...)
}

// applyConfig switches to a reloaded configuration. Command line flags
// keep precedence over the file.
func (o *OS) applyConfig(cfg *config.UserConfig) tea.Cmd {
	if cfg == nil {
		return nil
	}
	name := config.ApplyOverrides(o.Overrides, cfg)
	if err := theme.Initialize(name); err != nil {
		o.Logger.Warn("theme", "err", err)
	}
	o.Keys = config.NewKeybindRegistry(cfg)
	o.Icons = ui.LayoutIcons(o.Apps, config.UseASCIIOnly)

	var cmd tea.Cmd
	switch {
	case config.ShowSysInfo && o.Tray == nil:
		o.Tray = sysmon.NewMonitor(o.sample)
		if o.Boot == nil {
			cmd = o.Tray.Init()
		}
	case !config.ShowSysInfo && o.Tray != nil:
		o.Tray.Stop()
		o.Tray = nil
		o.Taskbar.Tray = ""
	}

	o.ShowNotification("Configuration reloaded", config.NotificationDuration)
	return cmd
}
