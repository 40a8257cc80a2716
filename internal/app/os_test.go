package app

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/logging"
	"github.com/wintube-os/wintube/internal/sched"
	"github.com/wintube-os/wintube/internal/sysmon"
	"github.com/wintube-os/wintube/internal/ui"
)

type fakeApp struct {
	id     string
	inits  int
	closes int
	msgs   []tea.Msg
	clicks [][2]int
}

func (a *fakeApp) Init() tea.Cmd { a.inits++; return nil }

func (a *fakeApp) Update(msg tea.Msg) tea.Cmd {
	a.msgs = append(a.msgs, msg)
	return nil
}

func (a *fakeApp) View(width, height int) string { return "content of " + a.id }

func (a *fakeApp) Click(x, y int) tea.Cmd {
	a.clicks = append(a.clicks, [2]int{x, y})
	return nil
}

func (a *fakeApp) Close() { a.closes++ }

// fakeApps records every app instance it creates, per app id.
type fakeApps map[string][]*fakeApp

func (f fakeApps) last(id string) *fakeApp {
	list := f[id]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

func (f fakeApps) specs() []ui.AppSpec {
	mk := func(id, title string) ui.AppSpec {
		return ui.AppSpec{
			ID:    id,
			Title: title,
			Label: title,
			Glyph: []string{"[" + id + "]"},
			New: func(*log.Logger) ui.App {
				a := &fakeApp{id: id}
				f[id] = append(f[id], a)
				return a
			},
		}
	}
	return []ui.AppSpec{mk("alpha", "Alpha"), mk("beta", "Beta")}
}

type fakeSampler struct{}

func (fakeSampler) Sample(context.Context) (sysmon.Sample, error) {
	return sysmon.Sample{CPU: 12, Memory: 34}, nil
}

// withBoot sets the boot screen flag for the duration of the test.
func withBoot(t *testing.T, enabled bool) {
	t.Helper()
	prev := config.BootScreenEnabled
	config.BootScreenEnabled = enabled
	t.Cleanup(func() { config.BootScreenEnabled = prev })
}

func newTestOS(t *testing.T, opts ...Option) (*OS, fakeApps) {
	t.Helper()
	apps := fakeApps{}
	now := time.Date(2024, 3, 9, 15, 4, 0, 0, time.Local)
	base := []Option{
		WithApps(apps.specs()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(func() time.Time { return now }),
		WithSampler(fakeSampler{}),
	}
	o := New(append(base, opts...)...)
	o.Width, o.Height = 100, 30
	return o, apps
}

func TestBootEndsOnce(t *testing.T) {
	withBoot(t, true)
	o, _ := newTestOS(t)

	if cmd := o.Init(); cmd == nil {
		t.Fatal("Init should schedule the boot timers")
	}
	if !o.Booting() {
		t.Fatal("boot screen should be showing after Init")
	}
	if !strings.Contains(o.View().Content, "WinTube OS") {
		t.Error("boot view should show the product name")
	}

	if _, cmd := o.Update(BootDoneMsg{}); cmd == nil {
		t.Error("finishing the boot should start the desktop timers")
	}
	if o.Booting() {
		t.Fatal("boot screen should be gone")
	}

	if _, cmd := o.Update(BootDoneMsg{}); cmd != nil {
		t.Error("a second BootDoneMsg should do nothing")
	}
	if o.Booting() {
		t.Error("boot screen must never come back")
	}
}

// fakeTicker records every delay the shell schedules and hands back a
// command that fires immediately.
type fakeTicker struct {
	delays []time.Duration
	at     time.Time
}

func (f *fakeTicker) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	f.delays = append(f.delays, d)
	at := f.at.Add(d)
	return func() tea.Msg { return fn(at) }
}

func TestBootOutlastsItsAnimation(t *testing.T) {
	withBoot(t, true)
	ticker := &fakeTicker{at: time.Date(2024, 3, 9, 15, 4, 0, 0, time.Local)}
	o, _ := newTestOS(t, WithTicker(ticker.tick))

	o.Init()
	if len(ticker.delays) != 1 || ticker.delays[0] != config.BootDuration {
		t.Fatalf("scheduled delays = %v, want one of %v", ticker.delays, config.BootDuration)
	}
	done := o.after(config.BootDuration, func(time.Time) tea.Msg { return BootDoneMsg{} })()

	// Run both boot timers to completion.
	for range 1000 {
		ticks := o.Boot.Ticks(ticker.at)
		if len(ticks) == 0 {
			break
		}
		for _, tick := range ticks {
			o.Update(tick)
		}
	}
	if o.Boot.Running() {
		t.Fatal("boot timers should have stopped on their own")
	}
	if o.Boot.Progress() != config.BootProgressMax {
		t.Errorf("progress = %d, want %d", o.Boot.Progress(), config.BootProgressMax)
	}
	if !o.Booting() {
		t.Fatal("boot screen must stay up until the boot duration elapses")
	}

	if _, ok := done.(BootDoneMsg); !ok {
		t.Fatalf("boot delay delivered %T, want BootDoneMsg", done)
	}
	o.Update(done)
	if o.Booting() {
		t.Error("boot screen should end at the boot duration")
	}
}

func TestBootDisabled(t *testing.T) {
	withBoot(t, false)
	o, _ := newTestOS(t)
	o.Init()
	if o.Booting() {
		t.Error("boot screen should be skipped")
	}
}

func TestInputDuringBoot(t *testing.T) {
	withBoot(t, true)
	o, apps := newTestOS(t)
	o.Init()
	o.OpenApp("alpha")

	_, cmd := o.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil || len(apps.last("alpha").msgs) != 0 {
		t.Error("keys other than quit should be ignored while booting")
	}

	_, cmd = o.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("quit should work while booting")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key should return tea.Quit")
	}
	if o.Boot != nil && o.Boot.Running() {
		t.Error("quitting should stop the boot timers")
	}
}

func TestOpenAppMountsOnce(t *testing.T) {
	o, apps := newTestOS(t)

	o.OpenApp("alpha")
	o.OpenApp("alpha")

	if o.WM.Len() != 1 {
		t.Fatalf("got %d windows, want 1", o.WM.Len())
	}
	if len(apps["alpha"]) != 1 {
		t.Errorf("app created %d times, want 1", len(apps["alpha"]))
	}
	if apps.last("alpha").inits != 1 {
		t.Error("app should be initialized once")
	}

	o.OpenApp("nope")
	if o.WM.Len() != 1 {
		t.Error("unknown app should not open a window")
	}
}

func TestMinimizeUnmountsContent(t *testing.T) {
	o, apps := newTestOS(t)
	o.OpenApp("alpha")
	first := apps.last("alpha")

	if !o.MinimizeWindow("alpha") {
		t.Fatal("MinimizeWindow returned false")
	}
	if first.closes != 1 {
		t.Error("minimizing should close the app")
	}
	if _, ok := o.Mounted["alpha"]; ok {
		t.Error("minimized window should have no mounted content")
	}
	if buttons := o.Taskbar.Layout(o.WM.Records(), o.Width); len(buttons) != 1 || buttons[0].WindowID != "alpha" {
		t.Error("taskbar should still list the minimized window")
	}
	if strings.Contains(o.View().Content, "content of alpha") {
		t.Error("minimized window content should not be drawn")
	}

	o.RestoreWindow("alpha")
	if len(apps["alpha"]) != 2 {
		t.Fatalf("restore should create a fresh app, got %d instances", len(apps["alpha"]))
	}
	if o.Mounted["alpha"] != ui.App(apps.last("alpha")) {
		t.Error("restored content should be mounted")
	}
	rec, _ := o.WM.Get("alpha")
	if rec.Minimized {
		t.Error("restore should clear Minimized")
	}
}

func TestCloseWindow(t *testing.T) {
	o, apps := newTestOS(t)
	o.OpenApp("alpha")
	o.OpenApp("beta")

	if o.CloseWindow("gamma") {
		t.Error("closing an unknown window should report false")
	}
	if o.WM.Len() != 2 {
		t.Error("closing an unknown window should change nothing")
	}

	o.CloseWindow("beta")
	if apps.last("beta").closes != 1 {
		t.Error("closing should stop the app")
	}
	if o.FocusedID() != "alpha" {
		t.Errorf("focus = %q, want alpha", o.FocusedID())
	}
}

func TestFocusAndCycle(t *testing.T) {
	o, _ := newTestOS(t)
	o.OpenApp("alpha")
	o.OpenApp("beta")

	if o.FocusedID() != "beta" {
		t.Fatalf("focus = %q, want beta", o.FocusedID())
	}
	o.FocusWindow("alpha")
	if o.FocusedID() != "alpha" {
		t.Errorf("focus = %q, want alpha", o.FocusedID())
	}
	z := o.WM.NextZIndex()
	o.FocusWindow("missing")
	if o.WM.NextZIndex() != z {
		t.Error("focusing an unknown id should not allocate a z-index")
	}

	o.CycleWindows(1)
	if o.FocusedID() != "beta" {
		t.Errorf("after cycling focus = %q, want beta", o.FocusedID())
	}
}

func TestMoveFocused(t *testing.T) {
	o, _ := newTestOS(t)
	o.OpenApp("alpha")
	before, _ := o.WM.Get("alpha")

	o.MoveFocused(-100, 3)
	after, _ := o.WM.Get("alpha")
	if after.Position.X != before.Position.X-100 || after.Position.Y != before.Position.Y+3 {
		t.Errorf("position = %+v, want unclamped move from %+v", after.Position, before.Position)
	}
	// Entirely off-screen windows must still render without panicking.
	_ = o.View()
}

func TestTicksReachMountedApps(t *testing.T) {
	o, apps := newTestOS(t)
	o.OpenApp("alpha")
	o.OpenApp("beta")
	o.MinimizeWindow("beta")

	tick := sched.TickMsg{ID: -1}
	o.Update(tick)

	if got := len(apps.last("alpha").msgs); got != 1 {
		t.Errorf("alpha got %d messages, want 1", got)
	}
	if got := len(apps.last("beta").msgs); got != 0 {
		t.Errorf("minimized beta got %d messages, want 0", got)
	}
}

func TestKeysGoToFocusedApp(t *testing.T) {
	o, apps := newTestOS(t)
	o.OpenApp("alpha")
	o.OpenApp("beta")

	o.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if len(apps.last("beta").msgs) != 1 || len(apps.last("alpha").msgs) != 0 {
		t.Error("keys should only reach the focused window")
	}
}

func TestClickContent(t *testing.T) {
	o, apps := newTestOS(t)
	o.OpenApp("alpha")
	rec, _ := o.WM.Get("alpha")

	o.ClickContent(rec, rec.Position.X+4, rec.Position.Y+3)
	clicks := apps.last("alpha").clicks
	if len(clicks) != 1 || clicks[0] != [2]int{3, 2} {
		t.Errorf("clicks = %v, want [[3 2]]", clicks)
	}
}

func TestSampleUpdatesTray(t *testing.T) {
	o, _ := newTestOS(t)
	if o.Tray == nil {
		t.Skip("system info disabled")
	}
	o.Tray.Init()
	o.Update(sysmon.SampleMsg{MonitorID: o.Tray.ID(), Sample: sysmon.Sample{CPU: 50, Memory: 25}})
	if !strings.Contains(o.Taskbar.Tray, "50%") || !strings.Contains(o.Taskbar.Tray, "25%") {
		t.Errorf("taskbar tray = %q, want the latest sample", o.Taskbar.Tray)
	}
}

func TestStartMenuShutdown(t *testing.T) {
	o, apps := newTestOS(t)
	o.OpenApp("alpha")
	o.ToggleStartMenu()

	cmd := o.ActivateMenuItem(ui.MenuItem{ID: ui.ShutdownItem})
	if cmd == nil {
		t.Fatal("shutdown should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("shutdown should return tea.Quit")
	}
	if apps.last("alpha").closes != 1 {
		t.Error("shutdown should close every app")
	}
	if o.StartMenu.Open {
		t.Error("start menu should close")
	}
}

func TestNotificationExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	o, _ := newTestOS(t, WithClock(func() time.Time { return now }))

	o.ShowNotification("hello", time.Second)
	if msg, ok := o.ActiveNotification(); !ok || msg != "hello" {
		t.Fatalf("ActiveNotification = %q, %v", msg, ok)
	}
	now = now.Add(2 * time.Second)
	if _, ok := o.ActiveNotification(); ok {
		t.Error("notification should have expired")
	}
}

func TestConfigReload(t *testing.T) {
	prevASCII, prevSys, prevClock := config.UseASCIIOnly, config.ShowSysInfo, config.HideClock
	t.Cleanup(func() { config.UseASCIIOnly, config.ShowSysInfo, config.HideClock = prevASCII, prevSys, prevClock })
	withBoot(t, config.BootScreenEnabled)

	o, _ := newTestOS(t)
	cfg := config.DefaultConfig()
	cfg.Keybindings["toggle_help"] = []string{"f2"}
	cfg.Appearance.ShowSysInfo = false

	o.Update(ConfigReloadedMsg{Config: cfg})

	if o.Keys.GetAction("f2") != "toggle_help" {
		t.Error("reloaded keybindings should apply")
	}
	if o.Tray != nil {
		t.Error("disabling system info should stop the tray")
	}
	if _, ok := o.ActiveNotification(); !ok {
		t.Error("reload should notify")
	}
}

func TestLogLines(t *testing.T) {
	ring := logging.NewRing(10)
	for _, l := range []string{"one\n", "two\n", "three\n", "four\n"} {
		ring.Write([]byte(l))
	}
	o, _ := newTestOS(t, WithLogRing(ring))

	if got := strings.Join(o.LogLines(2), ","); got != "three,four" {
		t.Errorf("LogLines(2) = %q", got)
	}
	o.ScrollLogs(1)
	if got := strings.Join(o.LogLines(2), ","); got != "two,three" {
		t.Errorf("after scrolling LogLines(2) = %q", got)
	}
	o.ScrollLogs(100)
	if o.LogScrollOffset != 3 {
		t.Errorf("scroll offset = %d, want 3", o.LogScrollOffset)
	}
}

func TestSelectIcon(t *testing.T) {
	o, _ := newTestOS(t)
	o.SelectIcon(-1)
	if o.SelectedIcon != len(o.Icons)-1 {
		t.Errorf("SelectedIcon = %d, want last", o.SelectedIcon)
	}
	o.SelectIcon(1)
	if o.SelectedIcon != 0 {
		t.Errorf("SelectedIcon = %d, want wrap to 0", o.SelectedIcon)
	}
}

func TestViewLayers(t *testing.T) {
	withBoot(t, false)
	o, _ := newTestOS(t)
	o.Init()
	o.OpenApp("alpha")

	v := o.View()
	if !v.AltScreen || v.MouseMode != tea.MouseModeCellMotion {
		t.Error("desktop should use the alt screen with mouse tracking")
	}
	for _, want := range []string{"Alpha", "content of alpha", "Start", "03/09/2024"} {
		if !strings.Contains(v.Content, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Count(v.Content, "\n") + 1; lines > o.Height {
		t.Errorf("view has %d lines, want at most %d", lines, o.Height)
	}
}
