package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/theme"
	"github.com/wintube-os/wintube/internal/wm"
)

// Region is a part of a window that reacts to the pointer.
type Region int

const (
	RegionNone Region = iota
	RegionTitleBar
	RegionMinimize
	RegionMaximize
	RegionClose
	// RegionFrame is the border around the content.
	RegionFrame
	RegionContent
)

func (r Region) String() string {
	switch r {
	case RegionTitleBar:
		return "title"
	case RegionMinimize:
		return "minimize"
	case RegionMaximize:
		return "maximize"
	case RegionClose:
		return "close"
	case RegionFrame:
		return "frame"
	case RegionContent:
		return "content"
	}
	return "none"
}

// HitWindow reports which part of window r is under the screen cell (x, y).
func HitWindow(r wm.Record, x, y int) Region {
	if !r.Contains(x, y) {
		return RegionNone
	}
	lx, ly := x-r.Position.X, y-r.Position.Y
	w := r.Size.Width

	if ly < config.TitleBarHeight {
		switch {
		case lx >= w-config.WindowButtonWidth:
			return RegionClose
		case lx >= w-2*config.WindowButtonWidth:
			return RegionMaximize
		case lx >= w-3*config.WindowButtonWidth:
			return RegionMinimize
		}
		return RegionTitleBar
	}

	cx, cy, cw, ch := ContentRect(r)
	if x >= cx && x < cx+cw && y >= cy && y < cy+ch {
		return RegionContent
	}
	return RegionFrame
}

// ContentRect returns the screen rectangle available to the hosted app.
func ContentRect(r wm.Record) (x, y, width, height int) {
	return r.Position.X + 1,
		r.Position.Y + config.TitleBarHeight,
		max(r.Size.Width-2, 0),
		max(r.Size.Height-config.TitleBarHeight-1, 0)
}

func windowBorder() lipgloss.Border {
	if config.UseASCIIOnly {
		return lipgloss.ASCIIBorder()
	}
	return lipgloss.NormalBorder()
}

// RenderWindow draws the chrome of r around content. content should already
// be sized to the rectangle returned by ContentRect; it is padded or cut to
// fit otherwise.
func RenderWindow(r wm.Record, content string, focused bool) string {
	w, h := r.Size.Width, r.Size.Height
	if w <= 0 || h <= 0 {
		return ""
	}
	_, _, cw, ch := ContentRect(r)

	lines := make([]string, 0, h)
	lines = append(lines, renderTitleBar(r.Title, w, focused))

	border := windowBorder()
	frame := lipgloss.NewStyle().Foreground(theme.WindowBorder(focused))
	left, right := frame.Render(border.Left), frame.Render(border.Right)

	body := strings.Split(content, "\n")
	for i := range ch {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		lines = append(lines, left+fitLine(line, cw)+right)
	}

	lines = append(lines, frame.Render(border.BottomLeft+strings.Repeat(border.Bottom, cw)+border.BottomRight))
	return strings.Join(lines, "\n")
}

func renderTitleBar(title string, width int, focused bool) string {
	bg := theme.TitleBarUnfocused()
	if focused {
		bg = theme.TitleBarFocused()
	}
	bar := lipgloss.NewStyle().Background(bg).Foreground(theme.TitleText())
	if focused {
		bar = bar.Bold(true)
	}

	minimize, maximize, closeBtn := config.WindowControls()
	controls := bar.Render(minimize) + bar.Faint(true).Render(maximize) +
		lipgloss.NewStyle().Background(theme.CloseButtonHover()).Foreground(theme.TitleText()).Render(closeBtn)

	titleWidth := width - 3*config.WindowButtonWidth
	if titleWidth <= 0 {
		return ansi.Truncate(controls, width, "")
	}
	text := ansi.Truncate(" "+title, titleWidth, "…")
	return bar.Render(text+strings.Repeat(" ", titleWidth-ansi.StringWidth(text))) + controls
}

// fitLine pads or truncates line to exactly width cells.
func fitLine(line string, width int) string {
	w := ansi.StringWidth(line)
	switch {
	case w > width:
		return ansi.Truncate(line, width, "")
	case w < width:
		return line + strings.Repeat(" ", width-w)
	}
	return line
}

// Clip cuts a rendered block placed at (x, y) to the viewport. It returns
// the visible part and its new top-left corner. An empty string means the
// block is entirely off-screen.
func Clip(content string, x, y, viewportWidth, viewportHeight int) (string, int, int) {
	lines := strings.Split(content, "\n")
	blockWidth := 0
	for _, l := range lines {
		blockWidth = max(blockWidth, ansi.StringWidth(l))
	}

	if x+blockWidth <= 0 || x >= viewportWidth || y+len(lines) <= 0 || y >= viewportHeight {
		return "", max(x, 0), max(y, 0)
	}

	clipTop, clipLeft := max(-y, 0), max(-x, 0)
	finalX, finalY := max(x, 0), max(y, 0)

	lines = lines[clipTop:]
	if maxLines := viewportHeight - finalY; len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	right := clipLeft + viewportWidth - finalX
	if clipLeft > 0 || x+blockWidth > viewportWidth {
		for i, l := range lines {
			lines[i] = ansi.Cut(l, clipLeft, right)
		}
	}
	return strings.Join(lines, "\n"), finalX, finalY
}
