package app

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/theme"
)

// HelpRows returns one row per keybinding: section, keys, description.
func HelpRows(registry *config.KeybindRegistry) [][]string {
	var rows [][]string
	for _, section := range config.GetKeybindings(registry) {
		for i, b := range section.Bindings {
			title := ""
			if i == 0 {
				title = section.Title
			}
			rows = append(rows, []string{title, b.Key, b.Description})
		}
	}
	return rows
}

// KeybindTable renders rows as a bordered table.
func KeybindTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.OverlayTitle()).
		Padding(0, 1)
	sectionStyle := lipgloss.NewStyle().
		Foreground(theme.Accent()).
		Bold(true).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().
		Padding(0, 1)

	border := lipgloss.RoundedBorder()
	if config.UseASCIIOnly {
		border = lipgloss.ASCIIBorder()
	}

	t := table.New().
		Border(border).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.OverlayBorder())).
		Headers("Section", "Keys", "Action").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return sectionStyle
			}
			return cellStyle
		})
	return t.Render()
}

func (o *OS) renderHelp() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.OverlayTitle()).Render("Keyboard shortcuts")
	hint := lipgloss.NewStyle().Foreground(theme.Dim()).Render("esc or " + o.Keys.GetKeysForDisplay("toggle_help") + " to close")

	return lipgloss.NewStyle().
		Background(theme.OverlayBg()).
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.OverlayBorder()).
		BorderBackground(theme.OverlayBg()).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", KeybindTable(HelpRows(o.Keys)), "", hint))
}

// LogLines returns the log lines visible in a viewer of the given height,
// newest last, after applying the scroll offset.
func (o *OS) LogLines(height int) []string {
	if o.LogRing == nil || height <= 0 {
		return nil
	}
	lines := o.LogRing.Lines()
	end := max(len(lines)-o.LogScrollOffset, 0)
	start := max(end-height, 0)
	return lines[start:end]
}

func (o *OS) renderLogs(width, height int) string {
	boxWidth := max(min(width-4, 100), 20)
	boxHeight := max(min(height-4, 30), 6)
	inner := boxWidth - 4
	rows := boxHeight - 4

	var sb strings.Builder
	lines := o.LogLines(rows)
	if len(lines) == 0 {
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Dim()).Render("No log entries"))
	}
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(ansi.Truncate(ansi.Strip(line), inner, "…"))
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.OverlayTitle()).Render("Session log")
	hint := lipgloss.NewStyle().Foreground(theme.Dim()).Render("up/down scroll · esc to close")

	body := lipgloss.NewStyle().Width(inner).Height(rows).Render(sb.String())
	return lipgloss.NewStyle().
		Background(theme.OverlayBg()).
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.OverlayBorder()).
		BorderBackground(theme.OverlayBg()).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body, hint))
}
