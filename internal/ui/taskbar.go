package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/sched"
	"github.com/wintube-os/wintube/internal/theme"
	"github.com/wintube-os/wintube/internal/wm"
)

const minTaskbarButtonWidth = 6

// FormatClock returns the 12-hour time and the date shown in the tray.
func FormatClock(t time.Time) (clock, date string) {
	return t.Format("03:04 PM"), t.Format("01/02/2006")
}

// TaskbarButton is the span of one window button on the taskbar.
type TaskbarButton struct {
	WindowID string
	X        int
	Width    int
}

// TaskbarHit is the result of a click on the taskbar.
type TaskbarHit struct {
	Start    bool
	WindowID string
}

// Taskbar is the bar along the bottom of the screen. It owns the clock,
// which re-reads the time once per second while the taskbar is mounted.
type Taskbar struct {
	clock   sched.Handle
	nowFunc func() time.Time
	now     time.Time

	// Tray is free text drawn to the left of the clock.
	Tray string
}

// NewTaskbar returns a taskbar reading the time from now. A nil now uses
// time.Now.
func NewTaskbar(now func() time.Time) *Taskbar {
	if now == nil {
		now = time.Now
	}
	return &Taskbar{clock: sched.New(config.ClockInterval), nowFunc: now}
}

// Init reads the time and starts the clock.
func (t *Taskbar) Init() tea.Cmd {
	t.now = t.nowFunc()
	return t.clock.Start()
}

// Stop cancels the clock.
func (t *Taskbar) Stop() {
	t.clock.Stop()
}

// Now returns the time the clock currently shows.
func (t *Taskbar) Now() time.Time {
	return t.now
}

// Update refreshes the clock on its own ticks.
func (t *Taskbar) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(sched.TickMsg)
	if !ok || !t.clock.Owns(tick) {
		return nil
	}
	t.now = t.nowFunc()
	return t.clock.Next()
}

// Layout returns the button spans for records on a taskbar of the given
// width. Every record gets a button: when space runs out the buttons first
// take over the clock's place, then shrink down to a single cell without
// gaps. Only a taskbar narrower than the start button plus one cell per
// window leaves buttons out.
func (t *Taskbar) Layout(records []wm.Record, width int) []TaskbarButton {
	n := len(records)
	if n == 0 {
		return nil
	}
	start := config.StartButtonWidth + 1
	avail := width - start - config.ClockWidth - 1
	if avail < n*minTaskbarButtonWidth {
		avail = width - start
	}

	step, gap := min(config.TaskbarButtonWidth, avail/n), 1
	if step < 2 {
		step, gap = 1, 0
	}

	buttons := make([]TaskbarButton, 0, n)
	for i, r := range records {
		x := start + i*step
		if x >= width {
			break
		}
		buttons = append(buttons, TaskbarButton{
			WindowID: r.ID,
			X:        x,
			Width:    min(step-gap, width-x),
		})
	}
	return buttons
}

// HitTest resolves a click at x on the taskbar. Both taskbar rows react.
func (t *Taskbar) HitTest(records []wm.Record, width, x int) (TaskbarHit, bool) {
	if x >= 0 && x < config.StartButtonWidth {
		return TaskbarHit{Start: true}, true
	}
	for _, b := range t.Layout(records, width) {
		if x >= b.X && x < b.X+b.Width {
			return TaskbarHit{WindowID: b.WindowID}, true
		}
	}
	return TaskbarHit{}, false
}

// View renders the two taskbar rows. focusedID marks the active window
// button; minimized windows get a dimmed button.
func (t *Taskbar) View(records []wm.Record, focusedID string, width int, startOpen bool) string {
	if width <= 0 {
		return ""
	}
	base := lipgloss.NewStyle().Background(theme.TaskbarBg()).Foreground(theme.TaskbarFg())

	startLabel := " ■ Start "
	if config.UseASCIIOnly {
		startLabel = " # Start "
	}
	startStyle := lipgloss.NewStyle().Background(theme.StartButton()).Foreground(theme.TitleText()).Bold(true)
	if startOpen {
		startStyle = startStyle.Reverse(true)
	}

	top := make([]string, 0, len(records)*2+4)
	top = append(top, startStyle.Render(fitLine(startLabel, config.StartButtonWidth)))
	used := config.StartButtonWidth

	byID := make(map[string]wm.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	for _, b := range t.Layout(records, width) {
		if b.X > used {
			top = append(top, base.Render(strings.Repeat(" ", b.X-used)))
		}
		r := byID[b.WindowID]
		style := lipgloss.NewStyle().Background(theme.TaskbarButton()).Foreground(theme.TaskbarFg())
		switch {
		case r.Minimized:
			style = style.Background(theme.TaskbarButtonMinimized()).Faint(true)
		case r.ID == focusedID:
			style = style.Background(theme.TaskbarButtonActive()).Bold(true)
		}
		label := ansi.Truncate(" "+r.Title, b.Width, "…")
		if b.Width < 4 {
			label = ansi.Truncate(r.Title, b.Width, "")
		}
		top = append(top, style.Render(fitLine(label, b.Width)))
		used = b.X + b.Width
	}

	clock, date := "", ""
	if !config.HideClock {
		clock, date = FormatClock(t.now)
	}
	// The clock only shows when it fits whole after a one cell gap.
	if ansi.StringWidth(clock) >= width-used {
		clock = ""
	}

	topRow := strings.Join(top, "")
	if used > width {
		topRow = ansi.Truncate(topRow, width, "")
	} else {
		topRow += base.Render(rightAlign(clock, width-used))
	}
	trayText := ansi.Truncate(t.Tray, max(width-config.ClockWidth-1, 0), "…")
	bottomRow := base.Render(rightAlign(trayText+" "+rightAlign(date, config.ClockWidth), width))

	return topRow + "\n" + bottomRow
}

// rightAlign pads s on the left so it ends at width.
func rightAlign(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	return strings.Repeat(" ", width-w) + s
}
