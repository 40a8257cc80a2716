// Package sched provides cancellable repeating timers for Bubble Tea models.
//
// A Handle produces TickMsg values through tea.Tick. Every message carries
// the handle id and the generation it was scheduled under. Stopping or
// restarting a handle bumps the generation, so ticks that are still in
// flight are recognised as stale and dropped by Owns. It is safe to pass
// every TickMsg to every handle.
package sched

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg is sent on every tick of a running handle.
type TickMsg struct {
	ID   int
	Gen  int
	Time time.Time
}

// Handle is a repeating timer that can be cancelled.
type Handle struct {
	id       int
	gen      int
	interval time.Duration
	running  bool
}

// New returns a stopped handle that ticks every interval once started.
func New(interval time.Duration) Handle {
	return Handle{id: nextID(), interval: interval}
}

// ID returns the handle identifier carried by its ticks.
func (h *Handle) ID() int { return h.id }

// Interval returns the tick interval.
func (h *Handle) Interval() time.Duration { return h.interval }

// Running reports whether the handle accepts ticks.
func (h *Handle) Running() bool { return h.running }

// Start begins a new generation and schedules its first tick. Ticks from
// any earlier generation are ignored from now on.
func (h *Handle) Start() tea.Cmd {
	h.gen++
	h.running = true
	return h.tick()
}

// Stop cancels the handle. Pending ticks become stale.
func (h *Handle) Stop() {
	h.gen++
	h.running = false
}

// Owns reports whether msg belongs to the current generation of h.
func (h *Handle) Owns(msg TickMsg) bool {
	return h.running && msg.ID == h.id && msg.Gen == h.gen
}

// Next schedules the following tick of the current generation. It returns
// nil when the handle is stopped.
func (h *Handle) Next() tea.Cmd {
	if !h.running {
		return nil
	}
	return h.tick()
}

// Msg builds the tick message the current generation would deliver at t.
func (h *Handle) Msg(t time.Time) TickMsg {
	return TickMsg{ID: h.id, Gen: h.gen, Time: t}
}

func (h *Handle) tick() tea.Cmd {
	id, gen := h.id, h.gen
	return tea.Tick(h.interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Gen: gen, Time: t}
	})
}
