package sysmon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/wintube-os/wintube/internal/config"
)

type fakeSampler struct {
	sample Sample
	err    error
}

func (f fakeSampler) Sample(context.Context) (Sample, error) {
	return f.sample, f.err
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 4, "    "},
		{"padded", []float64{0, 100}, 4, "  ▁█"},
		{"keeps newest", []float64{0, 50, 100}, 2, "▅█"},
		{"clamps", []float64{-10, 250}, 2, "▁█"},
		{"zero width", []float64{50}, 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sparkline(tc.values, tc.width); got != tc.want {
				t.Errorf("Sparkline = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBusyPercent(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur cpu.TimesStat
		want      float64
	}{
		{"first reading", cpu.TimesStat{}, cpu.TimesStat{User: 30, Idle: 70}, 30},
		{"all busy", cpu.TimesStat{User: 10, Idle: 10}, cpu.TimesStat{User: 20, System: 10, Idle: 10}, 100},
		{"all idle", cpu.TimesStat{User: 10, Idle: 10}, cpu.TimesStat{User: 10, Idle: 30}, 0},
		{"iowait counts as idle", cpu.TimesStat{}, cpu.TimesStat{User: 50, Iowait: 50}, 50},
		{"no time passed", cpu.TimesStat{User: 5, Idle: 5}, cpu.TimesStat{User: 5, Idle: 5}, 0},
		{"counters reset", cpu.TimesStat{User: 50, Idle: 50}, cpu.TimesStat{User: 1, Idle: 1}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := busyPercent(tc.prev, tc.cur); got != tc.want {
				t.Errorf("busyPercent = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHostSamplersKeepSeparateBaselines(t *testing.T) {
	// Both samplers read the same counters: one busy second after a
	// common starting point.
	readings := []cpu.TimesStat{
		{User: 100, Idle: 100},
		{User: 101, Idle: 100},
	}
	var step int
	times := func(context.Context) (cpu.TimesStat, error) { return readings[step], nil }

	tray := &HostSampler{times: times}
	app := &HostSampler{times: times}
	ctx := context.Background()
	for _, h := range []*HostSampler{tray, app} {
		if _, err := h.Sample(ctx); err != nil {
			t.Skipf("host memory unavailable: %v", err)
		}
	}

	step = 1
	a, err := tray.Sample(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := app.Sample(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if a.CPU != 100 || b.CPU != 100 {
		t.Errorf("tray=%.1f%% app=%.1f%%, both should see the busy second", a.CPU, b.CPU)
	}
}

func TestNewMonitorOwnsSampler(t *testing.T) {
	a, b := NewMonitor(nil), NewMonitor(nil)
	if a.sampler == b.sampler {
		t.Error("monitors without a sampler must not share the host baseline")
	}
}

func TestRecordCapsHistory(t *testing.T) {
	m := NewMonitor(fakeSampler{})
	for i := range config.CPUHistoryLength + 5 {
		m.Record(Sample{CPU: float64(i)})
	}
	h := m.History()
	if len(h) != config.CPUHistoryLength {
		t.Fatalf("history length = %d, want %d", len(h), config.CPUHistoryLength)
	}
	if h[0] != 5 {
		t.Errorf("oldest value = %v, want 5", h[0])
	}
}

func TestMonitorSamplesOnTick(t *testing.T) {
	want := Sample{CPU: 42, Memory: 64, At: time.Now()}
	m := NewMonitor(fakeSampler{sample: want})
	m.Init()

	if cmd := m.Update(m.timer.Msg(time.Now())); cmd == nil {
		t.Fatal("tick should request a sample and the next tick")
	}

	msg := m.sample()()
	m.Update(msg)
	if got := m.Last(); got.CPU != 42 || got.Memory != 64 {
		t.Errorf("Last = %+v", got)
	}
	if !strings.Contains(m.Tray(), "42%") {
		t.Errorf("tray %q should show cpu usage", m.Tray())
	}
}

func TestMonitorIgnoresForeignAndStoppedSamples(t *testing.T) {
	m := NewMonitor(fakeSampler{})
	m.Init()

	m.Update(SampleMsg{MonitorID: m.timer.ID() + 1000, Sample: Sample{CPU: 99}})
	if len(m.History()) != 0 {
		t.Error("sample for another monitor was recorded")
	}

	pending := SampleMsg{MonitorID: m.timer.ID(), Sample: Sample{CPU: 99}}
	m.Stop()
	m.Update(pending)
	if len(m.History()) != 0 {
		t.Error("stopped monitor recorded a sample")
	}
}

func TestMonitorError(t *testing.T) {
	m := NewMonitor(fakeSampler{err: errors.New("boom")})
	m.Init()
	m.Update(m.sample()())
	if m.Err() == nil {
		t.Fatal("expected error to be kept")
	}
	if !strings.Contains(m.Tray(), "--") {
		t.Errorf("tray %q should show placeholders", m.Tray())
	}
}

func TestAppView(t *testing.T) {
	a := NewApp(fakeSampler{}, nil)
	a.Init()
	defer a.Close()
	a.Monitor().Record(Sample{CPU: 10, Memory: 20, At: time.Now()})

	out := a.View(50, 14)
	lines := strings.Split(out, "\n")
	if len(lines) != 14 {
		t.Fatalf("view has %d lines, want 14", len(lines))
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 50 {
			t.Errorf("line %d width = %d, want 50", i, w)
		}
	}
	if !strings.Contains(ansi.Strip(out), "CPU") {
		t.Error("view should show cpu usage")
	}
}

func TestAppCloseStopsMonitor(t *testing.T) {
	a := NewApp(fakeSampler{}, nil)
	a.Init()
	a.Close()
	if a.Monitor().Running() {
		t.Error("Close should stop sampling")
	}
}
