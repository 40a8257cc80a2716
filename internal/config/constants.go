package config

import "time"

// =============================================================================
// Window Defaults
// =============================================================================

const (
	// DefaultWindowWidth is the width in cells of a newly opened window.
	DefaultWindowWidth = 64
	// DefaultWindowHeight is the height in cells of a newly opened window.
	DefaultWindowHeight = 20

	// SpawnMinX and SpawnRangeX bound the randomized horizontal offset of a
	// new window: X is drawn from [SpawnMinX, SpawnMinX+SpawnRangeX).
	SpawnMinX   = 5
	SpawnRangeX = 20
	// SpawnMinY and SpawnRangeY bound the vertical offset the same way.
	SpawnMinY   = 2
	SpawnRangeY = 5

	// FirstZIndex is the first stacking value handed out by the window manager.
	FirstZIndex = 10

	// TitleBarHeight is the number of rows used by the window title bar.
	TitleBarHeight = 1
	// WindowButtonWidth is the width of each title bar control.
	WindowButtonWidth = 3
)

// =============================================================================
// Layer Ordering
// =============================================================================

// Layers above every window. Window layers use their own z-index, which
// starts at FirstZIndex and only grows, so these are offset far above it.
const (
	ZIndexDesktop   = 0
	ZIndexIcons     = 1
	ZIndexTaskbar   = 1 << 28
	ZIndexStartMenu = ZIndexTaskbar + 1
	ZIndexOverlay   = ZIndexTaskbar + 2
)

// =============================================================================
// Taskbar
// =============================================================================

const (
	// TaskbarHeight is the number of rows reserved at the bottom of the screen.
	TaskbarHeight = 2
	// TaskbarButtonWidth is the maximum width of a window button.
	TaskbarButtonWidth = 22
	// StartButtonWidth is the width of the start button.
	StartButtonWidth = 9
	// ClockInterval is how often the taskbar clock re-renders.
	ClockInterval = time.Second
	// ClockWidth is the width reserved for the clock at the right edge.
	ClockWidth = 12
)

// =============================================================================
// Boot Sequence
// =============================================================================

const (
	// BootDuration is the total time the boot screen stays up.
	BootDuration = 4 * time.Second
	// BootProgressInterval is the delay between progress increments.
	BootProgressInterval = 35 * time.Millisecond
	// BootMessageInterval is the delay between status messages.
	BootMessageInterval = 500 * time.Millisecond
	// BootProgressMax is where the progress timer stops.
	BootProgressMax = 100
)

// =============================================================================
// Downloader Simulation
// =============================================================================

const (
	// DownloadDuration is the simulated time to "download" a file.
	DownloadDuration = 3 * time.Second
	// ConvertDuration is the simulated time to "convert" audio.
	ConvertDuration = 2 * time.Second
	// ProgressSampleInterval is how often progress is recomputed.
	ProgressSampleInterval = 50 * time.Millisecond
)

// =============================================================================
// Input
// =============================================================================

const (
	// DoubleClickWindow is the maximum delay between the two presses of a
	// double click on a desktop icon.
	DoubleClickWindow = 500 * time.Millisecond
	// NotificationDuration is how long a notification stays above the
	// taskbar.
	NotificationDuration = 3 * time.Second
)

// =============================================================================
// Scripts
// =============================================================================

const (
	// ScriptStepInterval is the pause between two script commands that do
	// not set their own delay.
	ScriptStepInterval = 80 * time.Millisecond
)

// =============================================================================
// System Monitor
// =============================================================================

const (
	// SysInfoInterval is how often CPU and memory usage are sampled.
	SysInfoInterval = time.Second
	// CPUHistoryLength is the number of samples kept for the CPU graph.
	CPUHistoryLength = 40
)

// =============================================================================
// Logging
// =============================================================================

const (
	// MaxLogEntries bounds the in-memory log ring shown by the log viewer.
	MaxLogEntries = 200
)

// =============================================================================
// Performance
// =============================================================================

const (
	// NormalFPS is the render rate requested from Bubble Tea.
	NormalFPS = 60
)

// =============================================================================
// Runtime Appearance
// =============================================================================

// These are set once from the loaded config and CLI flags by ApplyOverrides
// and read by the render path.
var (
	// UseASCIIOnly replaces box drawing and symbol glyphs with ASCII.
	UseASCIIOnly = false
	// HideClock removes the clock from the taskbar.
	HideClock = false
	// ShowSysInfo shows CPU and memory in the taskbar tray.
	ShowSysInfo = true
	// BootScreenEnabled controls whether the boot sequence runs at startup.
	BootScreenEnabled = true
)

// WindowControls returns the glyphs for the minimize, maximize and close
// buttons.
func WindowControls() (minimize, maximize, closeBtn string) {
	if UseASCIIOnly {
		return " _ ", " o ", " x "
	}
	return " ─ ", " □ ", " ✕ "
}
