// Package damage accumulates the screen regions that need repainting.
package damage

import (
	"fmt"
	"sync"
)

// Rect is an axis-aligned rectangle in output coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rectangle containing both r and o. An empty
// operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.Width, o.X+o.Width)
	y1 := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Tracker collects dirty rectangles until a consumer drains them.
type Tracker struct {
	mu    sync.Mutex
	rects []Rect
	total int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// MarkDirty records r for repaint. Empty rectangles are dropped.
func (t *Tracker) MarkDirty(r Rect) {
	if r.Empty() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rects = append(t.rects, r)
	t.total++
}

// Drain returns the pending rectangles in the order they were marked and
// clears them.
func (t *Tracker) Drain() []Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.rects
	t.rects = nil
	return out
}

// Pending returns how many rectangles await draining.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rects)
}

// Total returns how many rectangles were ever marked.
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}
