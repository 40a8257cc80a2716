// Package theme provides the color palette of the WinTube desktop.
//
// With no theme configured a fixed palette modelled on a classic blue
// desktop is used. Any bubbletint theme id can be selected instead, in which
// case the colors are derived from that theme's ANSI palette.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// If themeName is empty, the built-in palette is used. It reports an error
// when the name is unknown, in which case the default tint is selected.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q, using default", themeName)
	}
	return nil
}

// IsEnabled returns true if a bubbletint theme is active
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme.
// Returns nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

func pick(fallback string, fromTint func(t *tint.Tint) color.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	return fromTint(t)
}

// Desktop colors
func DesktopBg() color.Color {
	return pick("#0f766e", func(t *tint.Tint) color.Color { return t.Bg })
}

func DesktopFg() color.Color {
	return pick("#f0fdfa", func(t *tint.Tint) color.Color { return t.Fg })
}

func IconSelectedBg() color.Color {
	return pick("#1d4ed8", func(t *tint.Tint) color.Color { return t.Blue })
}

// Window chrome colors
func TitleBarFocused() color.Color {
	return pick("#2563eb", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

func TitleBarUnfocused() color.Color {
	return pick("#6b7280", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

func TitleText() color.Color {
	return pick("#ffffff", func(t *tint.Tint) color.Color { return t.BrightWhite })
}

func CloseButtonHover() color.Color {
	return pick("#dc2626", func(t *tint.Tint) color.Color { return t.Red })
}

func WindowBg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.Bg })
}

func WindowFg() color.Color {
	return pick("#111827", func(t *tint.Tint) color.Color { return t.Fg })
}

// WindowBorder returns the frame color of a window.
func WindowBorder(focused bool) color.Color {
	if focused {
		return TitleBarFocused()
	}
	return TitleBarUnfocused()
}

// Taskbar colors
func TaskbarBg() color.Color {
	return pick("#111827", func(t *tint.Tint) color.Color { return t.Black })
}

func TaskbarFg() color.Color {
	return pick("#f9fafb", func(t *tint.Tint) color.Color { return t.White })
}

func TaskbarButton() color.Color {
	return pick("#374151", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

func TaskbarButtonActive() color.Color {
	return pick("#2563eb", func(t *tint.Tint) color.Color { return t.Blue })
}

func TaskbarButtonMinimized() color.Color {
	return pick("#9ca3af", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

func StartButton() color.Color {
	return pick("#16a34a", func(t *tint.Tint) color.Color { return t.Green })
}

// Form and status colors
func Accent() color.Color {
	return pick("#2563eb", func(t *tint.Tint) color.Color { return t.Blue })
}

func AccentText() color.Color {
	return pick("#ffffff", func(t *tint.Tint) color.Color { return t.BrightWhite })
}

func ButtonFace() color.Color {
	return pick("#d1d5db", func(t *tint.Tint) color.Color { return t.White })
}

func Success() color.Color {
	return pick("#16a34a", func(t *tint.Tint) color.Color { return t.Green })
}

func Error() color.Color {
	return pick("#dc2626", func(t *tint.Tint) color.Color { return t.Red })
}

func Warning() color.Color {
	return pick("#d97706", func(t *tint.Tint) color.Color { return t.Yellow })
}

// Boot screen colors
func BootBg() color.Color {
	return lipgloss.Color("#000000")
}

func BootFg() color.Color {
	return lipgloss.Color("#e5e7eb")
}

func BootAccent() color.Color {
	return pick("#3b82f6", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

// Overlay colors
func OverlayBg() color.Color {
	return pick("#1f2937", func(t *tint.Tint) color.Color { return t.Black })
}

func OverlayBorder() color.Color {
	return pick("#60a5fa", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

func OverlayTitle() color.Color {
	return pick("#93c5fd", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

func Dim() color.Color {
	return lipgloss.Color("8")
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	return fmt.Sprintf("#%02x%02x%02x", r8, g8, b8)
}
