package app

import (
	"charm.land/log/v2"

	"github.com/wintube-os/wintube/internal/downloader"
	"github.com/wintube-os/wintube/internal/sysmon"
	"github.com/wintube-os/wintube/internal/ui"
)

// DefaultApps returns the applications installed on a fresh desktop. The
// sampler feeds the system monitor; nil samples the host.
func DefaultApps(sampler sysmon.Sampler) []ui.AppSpec {
	return []ui.AppSpec{
		{
			ID:    downloader.AppID,
			Title: downloader.Title,
			Label: "YT Downloader",
			Glyph: []string{
				"╭──────╮",
				"│  ▶   │",
				"╰──────╯",
			},
			GlyphASCII: []string{
				"+------+",
				"|  >   |",
				"+------+",
			},
			New: func(logger *log.Logger) ui.App {
				return downloader.NewPanel(downloader.WithLogger(logger))
			},
		},
		{
			ID:    sysmon.AppID,
			Title: sysmon.Title,
			Label: "System Monitor",
			Glyph: []string{
				"┌──────┐",
				"│▁▃▅▇▅▃│",
				"└──┬┬──┘",
			},
			GlyphASCII: []string{
				"+------+",
				"|_.-=-.|",
				"+--++--+",
			},
			New: func(logger *log.Logger) ui.App {
				return sysmon.NewApp(sampler, logger)
			},
		},
	}
}
