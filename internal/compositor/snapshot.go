package compositor

import (
	"github.com/Iron-Ham/tessel/internal/lifecycle"
	"github.com/Iron-Ham/tessel/internal/tree"
	"github.com/Iron-Ham/tessel/internal/view"
)

// NodeInfo describes one tree node at the time of a snapshot.
type NodeInfo struct {
	Handle  string   `json:"handle" yaml:"handle"`
	Kind    string   `json:"kind" yaml:"kind"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Layout  string   `json:"layout,omitempty" yaml:"layout,omitempty"`
	Depth   int      `json:"depth" yaml:"depth"`
	Box     tree.Box `json:"box" yaml:"box"`
	ViewID  string   `json:"view_id,omitempty" yaml:"view_id,omitempty"`
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	AppID   string   `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	Focused bool     `json:"focused,omitempty" yaml:"focused,omitempty"`
}

// ViewInfo describes one managed view.
type ViewInfo struct {
	ViewID        string    `json:"view_id" yaml:"view_id"`
	SurfaceID     string    `json:"surface_id" yaml:"surface_id"`
	Title         string    `json:"title" yaml:"title"`
	AppID         string    `json:"app_id" yaml:"app_id"`
	State         string    `json:"state" yaml:"state"`
	Pending       view.Size `json:"pending" yaml:"pending"`
	Committed     view.Size `json:"committed" yaml:"committed"`
	Node          string    `json:"node" yaml:"node"`
	Activated     bool      `json:"activated" yaml:"activated"`
	Subscriptions int       `json:"subscriptions" yaml:"subscriptions"`

	History []lifecycle.Transition `json:"history,omitempty" yaml:"history,omitempty"`
}

// Snapshot is a read-only copy of the compositor's state.
type Snapshot struct {
	Nodes   []NodeInfo `json:"nodes" yaml:"nodes"`
	Views   []ViewInfo `json:"views" yaml:"views"`
	Focused string     `json:"focused" yaml:"focused"`
}

// Snapshot captures the tree, focus and views.
func (c *Compositor) Snapshot() Snapshot {
	var snap Snapshot
	focused, hasFocus := c.Seat.Focused()
	if hasFocus {
		snap.Focused = focused.String()
	}

	c.Tree.Walk(c.Tree.Root(), func(h tree.Handle, depth int) {
		kind, _ := c.Tree.Kind(h)
		box, _ := c.Tree.Box(h)
		info := NodeInfo{
			Handle:  h.String(),
			Kind:    kind.String(),
			Name:    c.Tree.Name(h),
			Depth:   depth,
			Box:     box,
			Focused: hasFocus && h == focused,
		}
		if kind != tree.KindView {
			info.Layout = c.Tree.Layout(h).String()
		}
		if occ, ok := c.Tree.Occupant(h); ok {
			if v, ok := occ.(*view.View); ok {
				info.ViewID = v.ID()
				info.Title = v.Title()
				info.AppID = v.AppID()
			}
		}
		snap.Nodes = append(snap.Nodes, info)
	})

	for _, a := range c.Shell.Adapters() {
		v := a.View()
		snap.Views = append(snap.Views, ViewInfo{
			ViewID:        v.ID(),
			SurfaceID:     a.Surface().ID(),
			Title:         v.Title(),
			AppID:         v.AppID(),
			State:         a.State().String(),
			Pending:       v.Pending(),
			Committed:     v.Committed(),
			Node:          v.Node().String(),
			Activated:     v.Activated(),
			Subscriptions: a.Subscriptions(),
			History:       a.History(),
		})
	}
	return snap
}
