package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/config"
	"github.com/wintube-os/wintube/internal/wm"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		at        time.Time
		wantClock string
		wantDate  string
	}{
		{time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC), "03:04 PM", "01/02/2024"},
		{time.Date(2023, 12, 31, 0, 0, 59, 0, time.UTC), "12:00 AM", "12/31/2023"},
		{time.Date(2025, 7, 9, 11, 59, 0, 0, time.UTC), "11:59 AM", "07/09/2025"},
	}
	for _, tc := range tests {
		clock, date := FormatClock(tc.at)
		if clock != tc.wantClock || date != tc.wantDate {
			t.Errorf("FormatClock(%v) = %q %q, want %q %q", tc.at, clock, date, tc.wantClock, tc.wantDate)
		}
	}
}

func taskbarRecords() []wm.Record {
	return []wm.Record{
		{ID: "yt-downloader", Title: "WinTube Downloader", ZIndex: 12},
		{ID: "sysmon", Title: "System Monitor", ZIndex: 11, Minimized: true},
	}
}

func TestTaskbarHitTest(t *testing.T) {
	tb := NewTaskbar(nil)
	records := taskbarRecords()

	tests := []struct {
		name   string
		x      int
		want   TaskbarHit
		wantOK bool
	}{
		{"start button", 0, TaskbarHit{Start: true}, true},
		{"start button end", config.StartButtonWidth - 1, TaskbarHit{Start: true}, true},
		{"first window", 10, TaskbarHit{WindowID: "yt-downloader"}, true},
		{"gap", 31, TaskbarHit{}, false},
		{"minimized window", 32, TaskbarHit{WindowID: "sysmon"}, true},
		{"empty space", 70, TaskbarHit{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tb.HitTest(records, 80, tc.x)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("HitTest(%d) = %+v %v, want %+v %v", tc.x, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestTaskbarLayoutShrinksButtons(t *testing.T) {
	tb := NewTaskbar(nil)
	records := make([]wm.Record, 8)
	for i := range records {
		records[i] = wm.Record{ID: string(rune('a' + i)), Title: "w"}
	}
	buttons := tb.Layout(records, 80)
	if len(buttons) != len(records) {
		t.Fatalf("got %d buttons, want %d", len(buttons), len(records))
	}
	last := buttons[len(buttons)-1]
	if end := last.X + last.Width; end > 80-config.ClockWidth {
		t.Errorf("buttons overlap the clock: end at %d", end)
	}
}

func TestTaskbarLayoutKeepsEveryWindow(t *testing.T) {
	tb := NewTaskbar(nil)
	records := make([]wm.Record, 8)
	for i := range records {
		records[i] = wm.Record{ID: string(rune('a' + i)), Title: "Window " + string(rune('A'+i))}
	}

	for _, width := range []int{80, 50, 30, 20, config.StartButtonWidth + 1 + len(records)} {
		t.Run(fmt.Sprint(width), func(t *testing.T) {
			buttons := tb.Layout(records, width)
			if len(buttons) != len(records) {
				t.Fatalf("got %d buttons, want %d", len(buttons), len(records))
			}
			end := config.StartButtonWidth
			for i, b := range buttons {
				if b.Width < 1 || b.X < end || b.X+b.Width > width {
					t.Errorf("button %d spans [%d,%d) after %d on width %d", i, b.X, b.X+b.Width, end, width)
				}
				end = b.X + b.Width
				if hit, ok := tb.HitTest(records, width, b.X); !ok || hit.WindowID != records[i].ID {
					t.Errorf("click at %d hit %+v, want %s", b.X, hit, records[i].ID)
				}
			}

			for i, l := range strings.Split(tb.View(records, "a", width, false), "\n") {
				if w := ansi.StringWidth(l); w != width {
					t.Errorf("row %d width = %d, want %d", i, w, width)
				}
			}
		})
	}
}

func TestTaskbarClockTicks(t *testing.T) {
	now := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	tb := NewTaskbar(func() time.Time { return now })

	if cmd := tb.Init(); cmd == nil {
		t.Fatal("Init should start the clock")
	}
	if !tb.Now().Equal(now) {
		t.Fatalf("Now = %v, want %v", tb.Now(), now)
	}

	now = now.Add(time.Minute)
	if cmd := tb.Update(tb.clock.Msg(now)); cmd == nil {
		t.Error("clock should schedule its next tick")
	}
	if !tb.Now().Equal(now) {
		t.Errorf("Now = %v after tick, want %v", tb.Now(), now)
	}

	stale := tb.clock.Msg(now)
	tb.Stop()
	now = now.Add(time.Hour)
	if cmd := tb.Update(stale); cmd != nil {
		t.Error("stopped clock should not reschedule")
	}
	if tb.Now().Equal(now) {
		t.Error("stopped clock should not update")
	}
}

func TestTaskbarView(t *testing.T) {
	tb := NewTaskbar(func() time.Time { return time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC) })
	tb.Init()
	defer tb.Stop()

	out := tb.View(taskbarRecords(), "yt-downloader", 80, false)
	lines := strings.Split(out, "\n")
	if len(lines) != config.TaskbarHeight {
		t.Fatalf("taskbar has %d rows, want %d", len(lines), config.TaskbarHeight)
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 80 {
			t.Errorf("row %d width = %d, want 80", i, w)
		}
	}
	plain := ansi.Strip(out)
	for _, want := range []string{"Start", "WinTube Downloader", "System Monitor", "03:04 PM", "01/02/2024"} {
		if !strings.Contains(plain, want) {
			t.Errorf("taskbar missing %q", want)
		}
	}
}
