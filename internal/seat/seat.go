// Package seat tracks keyboard focus over the window tree.
package seat

import (
	"github.com/Iron-Ham/tessel/internal/logging"
	"github.com/Iron-Ham/tessel/internal/tree"
)

// Activatable is implemented by node occupants that want to learn when they
// gain or lose focus.
type Activatable interface {
	SetActivated(active bool) error
}

// Seat keeps a most-recent-first focus stack of tree nodes.
type Seat struct {
	name   string
	tree   *tree.Tree
	stack  []tree.Handle
	logger *logging.Logger
}

// New creates a seat over t.
func New(name string, t *tree.Tree, logger *logging.Logger) *Seat {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Seat{
		name:   name,
		tree:   t,
		logger: logger.WithComponent("seat").With("seat", name),
	}
}

// Name returns the seat name.
func (s *Seat) Name() string {
	return s.name
}

// prune drops handles whose nodes no longer exist.
func (s *Seat) prune() {
	kept := s.stack[:0]
	for _, h := range s.stack {
		if s.tree.Valid(h) {
			kept = append(kept, h)
		}
	}
	s.stack = kept
}

// Focused returns the node with active focus.
func (s *Seat) Focused() (tree.Handle, bool) {
	s.prune()
	if len(s.stack) == 0 {
		return tree.Handle{}, false
	}
	return s.stack[0], true
}

// FocusInactive returns the most recently focused live node under root,
// falling back to the tree's default workspace when none has been focused.
func (s *Seat) FocusInactive(root tree.Handle) tree.Handle {
	s.prune()
	for _, h := range s.stack {
		if s.tree.IsAncestor(root, h) {
			return h
		}
	}
	return s.tree.DefaultWorkspace()
}

// SetFocus gives h active focus. The previously focused view is deactivated
// and the newly focused one activated.
func (s *Seat) SetFocus(h tree.Handle) {
	if !s.tree.Valid(h) {
		s.logger.Warn("refusing focus on stale node", "node", h.String())
		return
	}

	prev, hadPrev := s.Focused()
	if hadPrev && prev == h {
		return
	}
	if hadPrev {
		s.activate(prev, false)
	}

	kept := s.stack[:0]
	for _, x := range s.stack {
		if x != h {
			kept = append(kept, x)
		}
	}
	s.stack = append([]tree.Handle{h}, kept...)
	s.activate(h, true)

	s.logger.Debug("focus changed", "node", h.String(), "previous", prev.String())
}

// Release drops h from the focus stack before its node is destroyed. If h
// held active focus its occupant is deactivated and Release reports true.
func (s *Seat) Release(h tree.Handle) bool {
	top, ok := s.Focused()
	wasFocused := ok && top == h
	if wasFocused {
		s.activate(h, false)
	}

	kept := s.stack[:0]
	for _, x := range s.stack {
		if x != h {
			kept = append(kept, x)
		}
	}
	s.stack = kept
	return wasFocused
}

// Refocus activates the node now at the top of the focus stack. It is used
// after the focused node was released.
func (s *Seat) Refocus() (tree.Handle, bool) {
	h, ok := s.Focused()
	if !ok {
		return tree.Handle{}, false
	}
	s.activate(h, true)
	s.logger.Debug("focus restored", "node", h.String())
	return h, true
}

func (s *Seat) activate(h tree.Handle, active bool) {
	occ, ok := s.tree.Occupant(h)
	if !ok {
		return
	}
	a, ok := occ.(Activatable)
	if !ok {
		return
	}
	if err := a.SetActivated(active); err != nil {
		s.logger.Warn("set activated failed", "node", h.String(), "active", active, "error", err.Error())
	}
}

// Stack returns a copy of the focus stack, most recent first.
func (s *Seat) Stack() []tree.Handle {
	s.prune()
	out := make([]tree.Handle, len(s.stack))
	copy(out, s.stack)
	return out
}
