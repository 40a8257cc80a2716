package boot

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/wintube-os/wintube/internal/config"
)

func TestInitialState(t *testing.T) {
	m := New()
	if m.Progress() != 0 {
		t.Errorf("progress = %d, want 0", m.Progress())
	}
	if m.Message() != Messages[0] {
		t.Errorf("message = %q, want %q", m.Message(), Messages[0])
	}
}

func TestProgressStopsAtMax(t *testing.T) {
	m := New()
	m.Init()

	for i := 1; i <= config.BootProgressMax; i++ {
		cmd := m.Update(m.progressTimer.Msg(time.Now()))
		if m.Progress() != i {
			t.Fatalf("tick %d: progress = %d", i, m.Progress())
		}
		if i < config.BootProgressMax && cmd == nil {
			t.Fatalf("tick %d: expected next tick", i)
		}
		if i == config.BootProgressMax && cmd != nil {
			t.Fatal("progress timer should stop at max")
		}
	}
	if m.progressTimer.Running() {
		t.Error("progress timer still running")
	}
	if !m.messageTimer.Running() {
		t.Error("message timer should be independent")
	}
}

func TestTicksFastForward(t *testing.T) {
	m := New()
	if len(m.Ticks(time.Now())) != 0 {
		t.Fatal("stopped timers should have no ticks")
	}
	m.Init()

	rounds := 0
	for ticks := m.Ticks(time.Now()); len(ticks) > 0; ticks = m.Ticks(time.Now()) {
		for _, tick := range ticks {
			m.Update(tick)
		}
		rounds++
	}
	if rounds != config.BootProgressMax {
		t.Errorf("rounds = %d, want %d", rounds, config.BootProgressMax)
	}
	if m.Progress() != config.BootProgressMax || m.Message() != Messages[len(Messages)-1] {
		t.Errorf("progress %d message %q, want the end state", m.Progress(), m.Message())
	}
}

func TestMessagesAdvanceToLast(t *testing.T) {
	m := New()
	m.Init()

	for i := 1; i < len(Messages); i++ {
		m.Update(m.messageTimer.Msg(time.Now()))
		if m.Message() != Messages[i] {
			t.Fatalf("tick %d: message = %q, want %q", i, m.Message(), Messages[i])
		}
	}
	if m.messageTimer.Running() {
		t.Error("message timer should stop on the last message")
	}
	if m.Progress() != 0 {
		t.Error("message ticks should not touch progress")
	}
}

func TestStopIgnoresPendingTicks(t *testing.T) {
	m := New()
	m.Init()
	progressTick := m.progressTimer.Msg(time.Now())
	messageTick := m.messageTimer.Msg(time.Now())

	m.Stop()
	m.Update(progressTick)
	m.Update(messageTick)

	if m.Progress() != 0 || m.Message() != Messages[0] {
		t.Error("stopped boot screen advanced")
	}
	if m.Running() {
		t.Error("Running should be false after Stop")
	}
}

func TestViewShowsMessage(t *testing.T) {
	m := New()
	view := ansi.Strip(m.View(80, 24))
	if !strings.Contains(view, Messages[0]) {
		t.Error("view should contain the current message")
	}
	if got := strings.Count(view, "\n") + 1; got != 24 {
		t.Errorf("view has %d lines, want 24", got)
	}
}
