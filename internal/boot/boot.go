// Package boot implements the splash sequence shown once when the desktop
// starts. Two independent timers drive it: a fast one that fills the
// progress bar and a slow one that cycles through status messages. Both
// stop on their own when they reach the end. The shell decides when the
// boot phase is over; this package only animates it.
package boot

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/sched"
	"github.com/wintube-os/wintube/internal/theme"
)

// Messages is the status text sequence, in display order.
var Messages = []string{
	"Starting WinTube OS...",
	"Initializing kernel...",
	"Loading system drivers...",
	"Verifying system integrity...",
	"Mounting file systems...",
	"Starting network services...",
	"Loading user profile...",
	"Finalizing setup...",
	"Welcome!",
}

// Model is the boot screen.
type Model struct {
	progress int
	message  int

	progressTimer sched.Handle
	messageTimer  sched.Handle
	bar           progress.Model
}

// New returns a boot screen at 0% showing the first message.
func New() *Model {
	return &Model{
		progressTimer: sched.New(config.BootProgressInterval),
		messageTimer:  sched.New(config.BootMessageInterval),
		bar:           progress.New(progress.WithDefaultBlend(), progress.WithoutPercentage()),
	}
}

// Init starts both timers.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.progressTimer.Start(), m.messageTimer.Start())
}

// Stop cancels both timers.
func (m *Model) Stop() {
	m.progressTimer.Stop()
	m.messageTimer.Stop()
}

// Progress returns the current progress from 0 to 100.
func (m *Model) Progress() int {
	return m.progress
}

// Message returns the status message currently shown.
func (m *Model) Message() string {
	return Messages[m.message]
}

// Running reports whether either timer is still active.
func (m *Model) Running() bool {
	return m.progressTimer.Running() || m.messageTimer.Running()
}

// Ticks returns the pending tick of every running timer, stamped t. Feeding
// them back through Update advances the animation without waiting.
func (m *Model) Ticks(t time.Time) []sched.TickMsg {
	var ticks []sched.TickMsg
	for _, h := range []*sched.Handle{&m.progressTimer, &m.messageTimer} {
		if h.Running() {
			ticks = append(ticks, h.Msg(t))
		}
	}
	return ticks
}

// Update advances whichever timer the tick belongs to.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(sched.TickMsg)
	if !ok {
		return nil
	}

	switch {
	case m.progressTimer.Owns(tick):
		m.progress++
		if m.progress >= config.BootProgressMax {
			m.progress = config.BootProgressMax
			m.progressTimer.Stop()
			return nil
		}
		return m.progressTimer.Next()

	case m.messageTimer.Owns(tick):
		m.message++
		if m.message >= len(Messages)-1 {
			m.message = len(Messages) - 1
			m.messageTimer.Stop()
			return nil
		}
		return m.messageTimer.Next()
	}
	return nil
}

// View renders the boot screen centered in a width x height area.
func (m *Model) View(width, height int) string {
	logoStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.BootAccent())
	textStyle := lipgloss.NewStyle().Foreground(theme.BootFg())

	logo := logoLines()
	barWidth := min(40, max(width-4, 10))
	m.bar.SetWidth(barWidth)

	block := lipgloss.JoinVertical(lipgloss.Center,
		logoStyle.Render(strings.Join(logo, "\n")),
		"",
		textStyle.Bold(true).Render("WinTube OS"),
		"",
		m.bar.ViewAs(float64(m.progress)/100),
		"",
		textStyle.Render(m.Message()),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block,
		lipgloss.WithWhitespaceStyle(lipgloss.NewStyle().Background(theme.BootBg())))
}

func logoLines() []string {
	if config.UseASCIIOnly {
		return []string{
			"+-----+-----+",
			"|     |     |",
			"+-----+-----+",
			"|     |     |",
			"+-----+-----+",
		}
	}
	return []string{
		"▄▄▄▄▄ ▄▄▄▄▄",
		"█████ █████",
		"▀▀▀▀▀ ▀▀▀▀▀",
		"▄▄▄▄▄ ▄▄▄▄▄",
		"█████ █████",
		"▀▀▀▀▀ ▀▀▀▀▀",
	}
}
