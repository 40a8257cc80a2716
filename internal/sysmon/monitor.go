// Package sysmon samples host CPU and memory usage for the taskbar tray and
// the System Monitor app.
package sysmon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/sched"
)

const sampleTimeout = 500 * time.Millisecond

// Sample is one reading of host usage, in percent.
type Sample struct {
	CPU    float64
	Memory float64
	At     time.Time
}

// Sampler reads host usage.
type Sampler interface {
	Sample(ctx context.Context) (Sample, error)
}

// HostSampler reads the real host through gopsutil. CPU usage is the busy
// share of the time elapsed since this sampler's previous call, so every
// sampler keeps its own baseline and two monitors never skew each other.
// The first call reports usage since boot.
type HostSampler struct {
	mu   sync.Mutex
	prev cpu.TimesStat

	// times reads the aggregate CPU counters; nil reads the host.
	times func(ctx context.Context) (cpu.TimesStat, error)
}

// NewHostSampler returns a sampler with a fresh CPU baseline.
func NewHostSampler() *HostSampler {
	return &HostSampler{}
}

func (h *HostSampler) Sample(ctx context.Context) (Sample, error) {
	read := h.times
	if read == nil {
		read = hostTimes
	}
	cur, err := read(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("read cpu usage: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("read memory usage: %w", err)
	}

	h.mu.Lock()
	pct := busyPercent(h.prev, cur)
	h.prev = cur
	h.mu.Unlock()

	return Sample{CPU: pct, Memory: vm.UsedPercent, At: time.Now()}, nil
}

func hostTimes(ctx context.Context) (cpu.TimesStat, error) {
	all, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(all) == 0 {
		return cpu.TimesStat{}, errors.New("no cpu times reported")
	}
	return all[0], nil
}

func totalTime(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
}

// busyPercent is the non-idle share of the time between two readings.
// Counters that went backwards read as idle.
func busyPercent(prev, cur cpu.TimesStat) float64 {
	total := totalTime(cur) - totalTime(prev)
	if total <= 0 {
		return 0
	}
	idle := (cur.Idle + cur.Iowait) - (prev.Idle + prev.Iowait)
	pct := (total - idle) * 100 / total
	return min(max(pct, 0), 100)
}

// SampleMsg carries a reading back to the monitor that asked for it.
type SampleMsg struct {
	MonitorID int
	Sample    Sample
	Err       error
}

// Monitor keeps a rolling CPU history fed by a Sampler on a one second timer.
type Monitor struct {
	sampler Sampler
	timer   sched.Handle

	history []float64
	last    Sample
	err     error
}

// NewMonitor returns a stopped monitor. A nil sampler reads the host.
func NewMonitor(sampler Sampler) *Monitor {
	if sampler == nil {
		sampler = NewHostSampler()
	}
	return &Monitor{
		sampler: sampler,
		timer:   sched.New(config.SysInfoInterval),
	}
}

// Init takes a first sample and starts the timer.
func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.sample(), m.timer.Start())
}

// Stop cancels the timer. Samples already in flight are dropped.
func (m *Monitor) Stop() {
	m.timer.Stop()
}

// ID identifies the samples this monitor accepts.
func (m *Monitor) ID() int {
	return m.timer.ID()
}

// Running reports whether the monitor is sampling.
func (m *Monitor) Running() bool {
	return m.timer.Running()
}

// Update handles the monitor's ticks and samples.
func (m *Monitor) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sched.TickMsg:
		if !m.timer.Owns(msg) {
			return nil
		}
		return tea.Batch(m.sample(), m.timer.Next())

	case SampleMsg:
		if msg.MonitorID != m.timer.ID() || !m.timer.Running() {
			return nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return nil
		}
		m.err = nil
		m.Record(msg.Sample)
	}
	return nil
}

// Record appends a reading to the history.
func (m *Monitor) Record(s Sample) {
	m.last = s
	m.history = append(m.history, s.CPU)
	if over := len(m.history) - config.CPUHistoryLength; over > 0 {
		m.history = m.history[over:]
	}
}

// Last returns the latest reading.
func (m *Monitor) Last() Sample { return m.last }

// Err returns the error from the latest failed reading, if any.
func (m *Monitor) Err() error { return m.err }

// History returns the CPU readings, oldest first.
func (m *Monitor) History() []float64 { return m.history }

func (m *Monitor) sample() tea.Cmd {
	id, sampler := m.timer.ID(), m.sampler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sampleTimeout)
		defer cancel()
		s, err := sampler.Sample(ctx)
		return SampleMsg{MonitorID: id, Sample: s, Err: err}
	}
}

// Tray renders the compact reading shown in the taskbar.
func (m *Monitor) Tray() string {
	if m.err != nil {
		return "CPU --  MEM --"
	}
	return fmt.Sprintf("CPU %s %3.0f%%  MEM %3.0f%%", Sparkline(m.history, 8), m.last.CPU, m.last.Memory)
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

var sparkASCII = []rune("_.-=+*#@")

// Sparkline renders the last width values as bars. Shorter histories are
// padded on the left so the result is always width cells.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	blocks := sparkBlocks
	if config.UseASCIIOnly {
		blocks = sparkASCII
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		level := int(v / 100 * float64(len(blocks)))
		level = min(max(level, 0), len(blocks)-1)
		b.WriteRune(blocks[level])
	}
	return b.String()
}
