package ui

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/theme"
)

const (
	IconWidth   = 14
	IconHeight  = 4
	iconSpacing = 1
	iconMarginX = 2
	iconMarginY = 1
)

// Icon is a desktop shortcut. Double-clicking it opens or focuses its app.
type Icon struct {
	AppID string
	Label string
	Glyph []string
	X, Y  int
}

// LayoutIcons places one icon per app in a column down the left edge.
func LayoutIcons(specs []AppSpec, asciiOnly bool) []Icon {
	icons := make([]Icon, 0, len(specs))
	for i, s := range specs {
		icons = append(icons, Icon{
			AppID: s.ID,
			Label: s.Label,
			Glyph: s.Icon(asciiOnly),
			X:     iconMarginX,
			Y:     iconMarginY + i*(IconHeight+iconSpacing),
		})
	}
	return icons
}

// Contains reports whether the screen cell (x, y) is on the icon.
func (i Icon) Contains(x, y int) bool {
	return x >= i.X && x < i.X+IconWidth && y >= i.Y && y < i.Y+IconHeight
}

// View renders the icon. A selected icon has its label highlighted.
func (i Icon) View(selected bool) string {
	glyph := lipgloss.NewStyle().
		Foreground(theme.DesktopFg()).
		Background(theme.DesktopBg())
	label := glyph
	if selected {
		label = label.Background(theme.IconSelectedBg()).Bold(true)
	}

	lines := make([]string, 0, IconHeight)
	for row := range IconHeight - 1 {
		g := ""
		if row < len(i.Glyph) {
			g = i.Glyph[row]
		}
		lines = append(lines, glyph.Render(center(g, IconWidth)))
	}
	lines = append(lines, label.Render(center(ansi.Truncate(i.Label, IconWidth, "…"), IconWidth)))
	return strings.Join(lines, "\n")
}

func center(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// ClickTracker turns presses into double clicks. Two presses on the same
// target within the window count as a double click.
type ClickTracker struct {
	Window time.Duration

	target string
	at     time.Time
}

// NewClickTracker returns a tracker using the default double-click window.
func NewClickTracker() *ClickTracker {
	return &ClickTracker{Window: config.DoubleClickWindow}
}

// Press records a press on target and reports whether it completes a
// double click. A completed double click does not count as the first press
// of the next one.
func (c *ClickTracker) Press(target string, now time.Time) bool {
	if target != "" && target == c.target && now.Sub(c.at) <= c.Window {
		c.Reset()
		return true
	}
	c.target = target
	c.at = now
	return false
}

// Selected returns the target of the last unmatched press.
func (c *ClickTracker) Selected() string {
	return c.target
}

// Reset forgets the last press.
func (c *ClickTracker) Reset() {
	c.target = ""
	c.at = time.Time{}
}
