package downloader

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/sched"
	"github.com/wintube-os/wintube/internal/theme"
)

// AppID is the window id of the downloader. There is at most one
// downloader window per desktop.
const AppID = "yt-downloader"

// Title is the window title of the downloader.
const Title = "WinTube Downloader"

// Rows of the panel layout, relative to the content area.
const (
	rowURL    = 4
	rowFormat = 7
	rowStatus = 9
)

type field int

const (
	fieldURL field = iota
	fieldFormat
	fieldAction
	fieldCount
)

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Toggle   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Toggle:   key.NewBinding(key.WithKeys("left", "right", "space", "h", "l"), key.WithHelp("←/→", "format")),
	}
}

// Panel is the downloader application hosted inside a desktop window.
type Panel struct {
	sim    *Simulator
	url    textinput.Model
	bar    progress.Model
	timer  sched.Handle
	keys   keyMap
	focus  field
	now    func() time.Time
	logger *log.Logger
}

// Option configures a Panel.
type Option func(*Panel)

// WithClock sets the time source used when a transfer starts.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *log.Logger) Option {
	return func(p *Panel) { p.logger = l }
}

// WithSimulator replaces the state machine, mostly for tests.
func WithSimulator(s *Simulator) Option {
	return func(p *Panel) { p.sim = s }
}

// NewPanel returns an idle downloader.
func NewPanel(opts ...Option) *Panel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "https://www.youtube.com/watch?v=..."
	ti.CharLimit = 512

	p := &Panel{
		sim:   NewSimulator(),
		url:   ti,
		bar:   progress.New(progress.WithDefaultBlend(), progress.WithoutPercentage()),
		timer: sched.New(config.ProgressSampleInterval),
		keys:  defaultKeyMap(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	return p
}

// State returns the state of the underlying simulator.
func (p *Panel) State() State {
	return p.sim.State()
}

// Init focuses the URL field.
func (p *Panel) Init() tea.Cmd {
	return p.setFocus(fieldURL)
}

// Close stops the phase timer. The panel must not be used afterwards.
func (p *Panel) Close() {
	p.timer.Stop()
	p.url.Blur()
}

// Update handles keyboard input and phase ticks.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sched.TickMsg:
		if !p.timer.Owns(msg) {
			return nil
		}
		return p.sample(msg.Time)

	case tea.KeyPressMsg:
		return p.handleKey(msg)

	case tea.PasteMsg:
		if p.focus == fieldURL {
			return p.updateURL(msg)
		}
		return nil
	}

	if p.focus == fieldURL {
		var cmd tea.Cmd
		p.url, cmd = p.url.Update(msg)
		return cmd
	}
	return nil
}

func (p *Panel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Next):
		return p.moveFocus(1)
	case key.Matches(msg, p.keys.Prev):
		return p.moveFocus(-1)
	case key.Matches(msg, p.keys.Activate):
		return p.activate()
	}

	switch p.focus {
	case fieldURL:
		return p.updateURL(msg)
	case fieldFormat:
		if key.Matches(msg, p.keys.Toggle) {
			p.sim.SetFormat(p.sim.State().Format.Toggle())
		}
	case fieldAction:
		if msg.String() == "space" {
			return p.activate()
		}
	}
	return nil
}

func (p *Panel) updateURL(msg tea.Msg) tea.Cmd {
	if p.sim.State().Status.IsProcessing() {
		return nil
	}
	var cmd tea.Cmd
	p.url, cmd = p.url.Update(msg)
	p.sim.SetURL(p.url.Value())
	return cmd
}

// enabled reports whether field f accepts input in the current state.
func (p *Panel) enabled(f field) bool {
	switch f {
	case fieldURL, fieldFormat, fieldAction:
		return !p.sim.State().Status.IsProcessing()
	}
	return false
}

func (p *Panel) moveFocus(delta int) tea.Cmd {
	next := p.focus
	for range fieldCount {
		next = field((int(next) + delta + int(fieldCount)) % int(fieldCount))
		if p.enabled(next) {
			return p.setFocus(next)
		}
	}
	return nil
}

func (p *Panel) setFocus(f field) tea.Cmd {
	p.focus = f
	if f == fieldURL {
		return p.url.Focus()
	}
	p.url.Blur()
	return nil
}

// activate runs the primary action of the current state: start from idle,
// reset from success or error.
func (p *Panel) activate() tea.Cmd {
	switch p.sim.State().Status {
	case StatusIdle:
		return p.start()
	case StatusSuccess, StatusError:
		return p.reset()
	}
	return nil
}

func (p *Panel) start() tea.Cmd {
	p.sim.SetURL(p.url.Value())
	err := p.sim.Start(p.now())
	switch {
	case errors.Is(err, ErrInvalidURL):
		p.logger.Warn("download rejected", "url", p.sim.State().URL)
		p.setFocus(fieldAction)
		return nil
	case err != nil:
		p.logger.Debug("start ignored", "err", err)
		return nil
	}

	state := p.sim.State()
	p.logger.Info("download started", "job", p.sim.JobID(), "format", state.Format, "url", state.URL)
	p.setFocus(fieldAction)
	return p.timer.Start()
}

func (p *Panel) sample(now time.Time) tea.Cmd {
	switch p.sim.Sample(now) {
	case BeganConverting:
		p.logger.Info("download finished, converting", "job", p.sim.JobID())
		p.timer.Stop()
		return p.timer.Start()
	case Finished:
		p.logger.Info("transfer complete", "job", p.sim.JobID(), "file", p.sim.FileName())
		p.timer.Stop()
		return nil
	}
	return p.timer.Next()
}

func (p *Panel) reset() tea.Cmd {
	p.timer.Stop()
	p.sim.Reset()
	p.url.Reset()
	p.logger.Debug("downloader reset")
	return p.setFocus(fieldURL)
}

// Click handles a left press at content-relative coordinates.
func (p *Panel) Click(x, y int) tea.Cmd {
	state := p.sim.State()
	switch y {
	case rowURL:
		if p.enabled(fieldURL) {
			return p.setFocus(fieldURL)
		}
	case rowFormat:
		if !p.enabled(fieldFormat) {
			return nil
		}
		cmd := p.setFocus(fieldFormat)
		if x < formatColumnWidth {
			p.sim.SetFormat(FormatVideo)
		} else {
			p.sim.SetFormat(FormatAudio)
		}
		return cmd
	case actionRow(state.Status):
		if p.enabled(fieldAction) && x < lipgloss.Width(p.buttonLabel(state.Status))+4 {
			p.setFocus(fieldAction)
			return p.activate()
		}
	}
	return nil
}

// actionRow is the row of the action button for status, or -1 when there
// is no button.
func actionRow(status Status) int {
	switch status {
	case StatusIdle:
		return rowStatus
	case StatusError:
		return rowStatus + 2
	case StatusSuccess:
		return rowStatus + 4
	}
	return -1
}

const formatColumnWidth = 18

func (p *Panel) buttonLabel(status Status) string {
	switch status {
	case StatusSuccess:
		return "Download Another"
	case StatusError:
		return "Try Again"
	}
	return "Download"
}

// View renders the panel into a width x height block.
func (p *Panel) View(width, height int) string {
	state := p.sim.State()
	accent := theme.Accent()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	dim := lipgloss.NewStyle().Faint(true)
	label := lipgloss.NewStyle().Bold(true)

	lines := make([]string, 0, height)
	lines = append(lines,
		titleStyle.Render("WinTube Video & MP3 Downloader"),
		dim.Render("Paste a YouTube link to save it as video or audio."),
		"",
		label.Render("YouTube URL"),
	)

	p.url.SetWidth(max(width-4, 1))
	urlLine := p.url.View()
	if state.Status.IsProcessing() {
		urlLine = dim.Render(p.url.Prompt + state.URL)
	}
	lines = append(lines, urlLine, "", label.Render("Format"), p.formatView(state), "")

	switch state.Status {
	case StatusIdle:
		lines = append(lines, p.buttonView(state.Status))
	case StatusDownloading, StatusConverting:
		verb := "Downloading..."
		if state.Status == StatusConverting {
			verb = "Converting to MP3..."
		}
		p.bar.SetWidth(max(width-2, 4))
		lines = append(lines,
			fmt.Sprintf("%s %3d%%", verb, state.Progress),
			p.bar.ViewAs(float64(state.Progress)/100),
		)
	case StatusSuccess:
		ok := lipgloss.NewStyle().Bold(true).Foreground(theme.Success())
		lines = append(lines,
			ok.Render(successMark()+" Download Complete!"),
			"Your file has been saved to your Downloads folder.",
			dim.Render(p.sim.FileName()),
			"",
			p.buttonView(state.Status),
		)
	case StatusError:
		bad := lipgloss.NewStyle().Bold(true).Foreground(theme.Error())
		lines = append(lines,
			bad.Render(errorMark()+" "+state.ErrorMessage),
			"",
			p.buttonView(state.Status),
		)
	}

	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "")
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (p *Panel) formatView(state State) string {
	radio := func(f Format) string {
		mark := "( )"
		if state.Format == f {
			mark = "(•)"
			if config.UseASCIIOnly {
				mark = "(*)"
			}
		}
		return mark + " " + f.Label()
	}

	style := lipgloss.NewStyle()
	if !p.enabled(fieldFormat) {
		style = style.Faint(true)
	} else if p.focus == fieldFormat {
		style = style.Foreground(theme.Accent())
	}
	video := lipgloss.NewStyle().Width(formatColumnWidth).Render(radio(FormatVideo))
	return style.Render(video + radio(FormatAudio))
}

func (p *Panel) buttonView(status Status) string {
	style := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	if p.focus == fieldAction {
		style = style.Background(theme.Accent()).Foreground(theme.AccentText())
	} else {
		style = style.Background(theme.ButtonFace())
	}
	return "[" + style.Render(p.buttonLabel(status)) + "]"
}

func successMark() string {
	if config.UseASCIIOnly {
		return "OK"
	}
	return "✔"
}

func errorMark() string {
	if config.UseASCIIOnly {
		return "!"
	}
	return "✘"
}
