package ui

import "github.com/wintube-os/wintube/internal/wm"

// Drag tracks a title-bar drag. The offset between the pointer and the
// window's top-left corner is captured on press and kept for the whole
// drag. Positions are not clamped, so a window can be dragged partially or
// entirely off-screen.
type Drag struct {
	Active   bool
	WindowID string
	OffsetX  int
	OffsetY  int
}

// Begin starts dragging window r from pointer position (x, y).
func (d *Drag) Begin(r wm.Record, x, y int) {
	d.Active = true
	d.WindowID = r.ID
	d.OffsetX = x - r.Position.X
	d.OffsetY = y - r.Position.Y
}

// Target returns where the window's top-left corner goes for pointer (x, y).
func (d *Drag) Target(x, y int) wm.Position {
	return wm.Position{X: x - d.OffsetX, Y: y - d.OffsetY}
}

// End stops the drag.
func (d *Drag) End() {
	*d = Drag{}
}
