// Package app provides the WinTube OS shell: the Bubble Tea model that owns
// the boot screen, the desktop, every window and the taskbar.
package app

import (
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/google/uuid"

	"github.com/wintube-os/wintube/internal/boot"
	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/logging"
	"github.com/wintube-os/wintube/internal/sysmon"
	"github.com/wintube-os/wintube/internal/tape"
	"github.com/wintube-os/wintube/internal/ui"
	"github.com/wintube-os/wintube/internal/wm"
)

// OS represents the desktop state. It is the single owner of window
// lifecycle; widgets and apps only return commands.
type OS struct {
	Width  int
	Height int

	WM       *wm.Manager
	Apps     []ui.AppSpec
	appsByID map[string]ui.AppSpec
	// Mounted holds the live content of every visible window, keyed by
	// window id. Minimized windows have no entry.
	Mounted map[string]ui.App

	Icons        []ui.Icon
	SelectedIcon int // -1 when no icon is selected
	Clicks       *ui.ClickTracker
	Taskbar      *ui.Taskbar
	StartMenu    ui.StartMenu
	Drag         ui.Drag

	// Boot is non-nil only while the boot screen is showing. Once the boot
	// completes it is dropped and never recreated.
	Boot *boot.Model

	ShowHelp        bool
	ShowLogs        bool
	LogScrollOffset int

	Notification      string
	NotificationUntil time.Time

	Keys      *config.KeybindRegistry
	Overrides config.Overrides
	Logger    *log.Logger
	LogRing   *logging.Ring
	SessionID string

	// Tray samples host usage for the taskbar when enabled.
	Tray *sysmon.Monitor

	Script         *tape.Player
	ScriptWaitBoot bool
	ScriptErrors   []error

	// Recorder captures user input as a script when set.
	Recorder *tape.Recorder

	now    func() time.Time
	rng    *rand.Rand
	sample sysmon.Sampler
	after  func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// Option configures an OS.
type Option func(*OS)

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(o *OS) { o.Logger = l }
}

// WithLogRing sets the buffer shown by the log viewer.
func WithLogRing(r *logging.Ring) Option {
	return func(o *OS) { o.LogRing = r }
}

// WithApps replaces the installed applications.
func WithApps(specs []ui.AppSpec) Option {
	return func(o *OS) { o.Apps = specs }
}

// WithRand sets the source for window spawn offsets.
func WithRand(r *rand.Rand) Option {
	return func(o *OS) { o.rng = r }
}

// WithClock sets the time source for the clock, double clicks and
// notifications.
func WithClock(now func() time.Time) Option {
	return func(o *OS) { o.now = now }
}

// WithTicker replaces tea.Tick for the shell's one-shot delays: the end of
// the boot screen and the pauses between script commands.
func WithTicker(tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd) Option {
	return func(o *OS) { o.after = tick }
}

// WithKeybinds sets the key registry.
func WithKeybinds(r *config.KeybindRegistry) Option {
	return func(o *OS) { o.Keys = r }
}

// WithOverrides records the command line flags so a config reload keeps
// them.
func WithOverrides(ov config.Overrides) Option {
	return func(o *OS) { o.Overrides = ov }
}

// WithScript plays commands once the desktop is up.
func WithScript(cmds []tape.Command) Option {
	return func(o *OS) { o.Script = tape.NewPlayer(cmds) }
}

// WithRecorder records user input into r.
func WithRecorder(r *tape.Recorder) Option {
	return func(o *OS) { o.Recorder = r }
}

// WithSampler sets the source of CPU and memory samples for the tray and
// the default apps.
func WithSampler(s sysmon.Sampler) Option {
	return func(o *OS) { o.sample = s }
}

// New creates a desktop. Nothing runs until Init.
func New(opts ...Option) *OS {
	o := &OS{
		Width:        80,
		Height:       24,
		Mounted:      make(map[string]ui.App),
		SelectedIcon: -1,
		Clicks:       ui.NewClickTracker(),
		SessionID:    uuid.NewString(),
		now:          time.Now,
		after:        tea.Tick,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Keys == nil {
		o.Keys = config.NewKeybindRegistry(nil)
	}
	if o.Apps == nil {
		o.Apps = DefaultApps(o.sample)
	}

	wmOpts := []wm.Option{wm.WithFirstZIndex(config.FirstZIndex)}
	if o.rng != nil {
		wmOpts = append(wmOpts, wm.WithRand(o.rng))
	}
	o.WM = wm.NewManager(wmOpts...)

	o.appsByID = make(map[string]ui.AppSpec, len(o.Apps))
	for _, s := range o.Apps {
		o.appsByID[s.ID] = s
	}
	o.Icons = ui.LayoutIcons(o.Apps, config.UseASCIIOnly)
	o.StartMenu = ui.NewStartMenu(o.Apps)
	o.Taskbar = ui.NewTaskbar(o.now)
	if config.ShowSysInfo {
		o.Tray = sysmon.NewMonitor(o.sample)
	}
	return o
}

// Now returns the current time from the configured clock.
func (o *OS) Now() time.Time {
	return o.now()
}

// Booting reports whether the boot screen is showing.
func (o *OS) Booting() bool {
	return o.Boot != nil
}

// App returns the registered application with the given id.
func (o *OS) App(id string) (ui.AppSpec, bool) {
	s, ok := o.appsByID[id]
	return s, ok
}

// ShowNotification displays message above the taskbar for duration.
func (o *OS) ShowNotification(message string, duration time.Duration) {
	o.Notification = message
	o.NotificationUntil = o.now().Add(duration)
	o.Logger.Info("notification", "message", message)
}

// ActiveNotification returns the notification still on screen, if any.
func (o *OS) ActiveNotification() (string, bool) {
	if o.Notification == "" || !o.now().Before(o.NotificationUntil) {
		return "", false
	}
	return o.Notification, true
}

// Cleanup stops every timer the desktop started.
func (o *OS) Cleanup() {
	if o.Boot != nil {
		o.Boot.Stop()
	}
	for id, a := range o.Mounted {
		a.Close()
		delete(o.Mounted, id)
	}
	o.Taskbar.Stop()
	if o.Tray != nil {
		o.Tray.Stop()
	}
}
