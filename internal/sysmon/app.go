package sysmon

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/theme"
)

const (
	AppID = "sysmon"
	Title = "System Monitor"
)

// App is the System Monitor window content.
type App struct {
	monitor *Monitor
	cpuBar  progress.Model
	memBar  progress.Model
	logger  *log.Logger
}

// NewApp returns the app reading from sampler. A nil sampler reads the host.
func NewApp(sampler Sampler, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{
		monitor: NewMonitor(sampler),
		cpuBar:  progress.New(progress.WithDefaultBlend(), progress.WithoutPercentage()),
		memBar:  progress.New(progress.WithDefaultBlend(), progress.WithoutPercentage()),
		logger:  logger,
	}
}

// Monitor exposes the underlying monitor.
func (a *App) Monitor() *Monitor { return a.monitor }

func (a *App) Init() tea.Cmd {
	a.logger.Debug("monitor started")
	return a.monitor.Init()
}

func (a *App) Update(msg tea.Msg) tea.Cmd {
	if s, ok := msg.(SampleMsg); ok && s.Err != nil && s.MonitorID == a.monitor.timer.ID() {
		a.logger.Warn("sample failed", "err", s.Err)
	}
	return a.monitor.Update(msg)
}

func (a *App) Click(int, int) tea.Cmd { return nil }

func (a *App) Close() {
	a.monitor.Stop()
	a.logger.Debug("monitor stopped")
}

// View renders usage bars and the CPU history.
func (a *App) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	label := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent())
	dim := lipgloss.NewStyle().Foreground(theme.Dim())

	barWidth := max(width-16, 4)
	a.cpuBar.SetWidth(barWidth)
	a.memBar.SetWidth(barWidth)

	last := a.monitor.Last()
	lines := []string{
		"",
		" " + label.Render("Host"),
		fmt.Sprintf(" %s/%s  %d CPUs", runtime.GOOS, runtime.GOARCH, runtime.NumCPU()),
		"",
		fmt.Sprintf(" CPU %4.0f%% %s", last.CPU, a.cpuBar.ViewAs(last.CPU/100)),
		fmt.Sprintf(" MEM %4.0f%% %s", last.Memory, a.memBar.ViewAs(last.Memory/100)),
		"",
		" " + label.Render("CPU history"),
		" " + Sparkline(a.monitor.History(), max(width-2, 0)),
	}
	if err := a.monitor.Err(); err != nil {
		lines = append(lines, "", " "+lipgloss.NewStyle().Foreground(theme.Error()).Render(err.Error()))
	} else if last.At.IsZero() {
		lines = append(lines, "", " "+dim.Render("Sampling..."))
	}

	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = fit(lines[i], width)
		} else {
			out[i] = strings.Repeat(" ", width)
		}
	}
	return strings.Join(out, "\n")
}

func fit(s string, width int) string {
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}
