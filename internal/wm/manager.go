// Package wm holds the window collection of the desktop shell: which windows
// are open, where they are, which are minimized and how they are stacked.
//
// Stacking uses a monotonically increasing allocation counter. Every focus
// hands out the next value, so the highest z-index among visible windows is
// always the most recently focused one. Minimizing never touches the
// z-index. Operations on unknown ids are silently ignored, except
// OpenOrFocus which creates the window.
package wm

import (
	"math/rand/v2"
	"slices"

	"github.com/wintube-os/wintube/internal/config"
)

// Position is the top-left corner of a window in screen cells. It may be
// negative or beyond the screen edge.
type Position struct {
	X, Y int
}

// Size is the outer size of a window in screen cells.
type Size struct {
	Width, Height int
}

// Record describes one open window.
type Record struct {
	ID        string
	Title     string
	Position  Position
	Size      Size
	ZIndex    int
	Minimized bool
}

// Contains reports whether the screen cell (x, y) lies inside the window.
func (r Record) Contains(x, y int) bool {
	return x >= r.Position.X && x < r.Position.X+r.Size.Width &&
		y >= r.Position.Y && y < r.Position.Y+r.Size.Height
}

// Manager owns the window records of one desktop session. It is not safe
// for concurrent use; the shell's update loop is its only writer.
type Manager struct {
	records []*Record
	nextZ   int
	size    Size
	rng     *rand.Rand
}

// Option configures a Manager.
type Option func(*Manager)

// WithRand sets the random source used for spawn offsets.
func WithRand(r *rand.Rand) Option {
	return func(m *Manager) { m.rng = r }
}

// WithDefaultSize sets the size of newly opened windows.
func WithDefaultSize(s Size) Option {
	return func(m *Manager) { m.size = s }
}

// WithFirstZIndex sets the first value handed out by the z-index counter.
func WithFirstZIndex(z int) Option {
	return func(m *Manager) { m.nextZ = z }
}

// NewManager returns an empty window manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		nextZ: config.FirstZIndex,
		size:  Size{Width: config.DefaultWindowWidth, Height: config.DefaultWindowHeight},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return m
}

func (m *Manager) allocZ() int {
	z := m.nextZ
	m.nextZ++
	return z
}

func (m *Manager) find(id string) *Record {
	for _, r := range m.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// OpenOrFocus creates the window id if it does not exist, or raises and
// un-minimizes it if it does. It reports whether a window was created.
// Every call consumes exactly one z-index.
func (m *Manager) OpenOrFocus(id, title string) (Record, bool) {
	if r := m.find(id); r != nil {
		r.ZIndex = m.allocZ()
		r.Minimized = false
		return *r, false
	}

	r := &Record{
		ID:    id,
		Title: title,
		Position: Position{
			X: config.SpawnMinX + m.rng.IntN(config.SpawnRangeX),
			Y: config.SpawnMinY + m.rng.IntN(config.SpawnRangeY),
		},
		Size:   m.size,
		ZIndex: m.allocZ(),
	}
	m.records = append(m.records, r)
	return *r, true
}

// Close removes the window id. It reports whether a window was removed.
func (m *Manager) Close(id string) bool {
	idx := slices.IndexFunc(m.records, func(r *Record) bool { return r.ID == id })
	if idx < 0 {
		return false
	}
	m.records = slices.Delete(m.records, idx, idx+1)
	return true
}

// Minimize hides the window id without changing its z-index.
func (m *Manager) Minimize(id string) bool {
	r := m.find(id)
	if r == nil {
		return false
	}
	r.Minimized = true
	return true
}

// Focus un-minimizes the window id and raises it above every other window.
func (m *Manager) Focus(id string) bool {
	r := m.find(id)
	if r == nil {
		return false
	}
	r.Minimized = false
	r.ZIndex = m.allocZ()
	return true
}

// Restore is Focus under the name used by the taskbar.
func (m *Manager) Restore(id string) bool {
	return m.Focus(id)
}

// Move places the top-left corner of the window id at pos. No clamping is
// applied.
func (m *Manager) Move(id string, pos Position) bool {
	r := m.find(id)
	if r == nil {
		return false
	}
	r.Position = pos
	return true
}

// Get returns a copy of the window id.
func (m *Manager) Get(id string) (Record, bool) {
	if r := m.find(id); r != nil {
		return *r, true
	}
	return Record{}, false
}

// Len returns the number of open windows, minimized ones included.
func (m *Manager) Len() int {
	return len(m.records)
}

// Records returns copies of every window in the order they were opened.
func (m *Manager) Records() []Record {
	out := make([]Record, len(m.records))
	for i, r := range m.records {
		out[i] = *r
	}
	return out
}

// Stack returns the visible windows from bottom to top.
func (m *Manager) Stack() []Record {
	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if !r.Minimized {
			out = append(out, *r)
		}
	}
	slices.SortFunc(out, func(a, b Record) int { return a.ZIndex - b.ZIndex })
	return out
}

// Topmost returns the visible window with the highest z-index. That window
// is the one receiving keyboard input.
func (m *Manager) Topmost() (Record, bool) {
	var top *Record
	for _, r := range m.records {
		if r.Minimized {
			continue
		}
		if top == nil || r.ZIndex > top.ZIndex {
			top = r
		}
	}
	if top == nil {
		return Record{}, false
	}
	return *top, true
}

// WindowAt returns the topmost visible window containing (x, y).
func (m *Manager) WindowAt(x, y int) (Record, bool) {
	stack := m.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Contains(x, y) {
			return stack[i], true
		}
	}
	return Record{}, false
}

// Cycle focuses the visible window delta steps away from the current
// topmost one, walking the windows in opening order and wrapping around.
// It returns the id of the newly focused window.
func (m *Manager) Cycle(delta int) (string, bool) {
	visible := make([]*Record, 0, len(m.records))
	for _, r := range m.records {
		if !r.Minimized {
			visible = append(visible, r)
		}
	}
	if len(visible) == 0 {
		return "", false
	}

	current := 0
	if top, ok := m.Topmost(); ok {
		current = slices.IndexFunc(visible, func(r *Record) bool { return r.ID == top.ID })
	}

	n := len(visible)
	next := ((current+delta)%n + n) % n
	id := visible[next].ID
	m.Focus(id)
	return id, true
}

// NextZIndex returns the value the next focus will receive.
func (m *Manager) NextZIndex() int {
	return m.nextZ
}
