// Package view defines the compositor's record of a client window and the
// capability contract through which shell variants are driven.
//
// A View is shell-agnostic. Everything that depends on the protocol variant
// goes through its Implementation, and every call checks first that the
// implementation belongs to the view's Kind.
package view

import (
	"fmt"

	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/logging"
	"github.com/Iron-Ham/tessel/internal/tree"
)

// Kind tags the shell protocol variant that produced a view.
type Kind string

const (
	KindXDGShellV6 Kind = "xdg_shell_v6"
	KindXDGShell   Kind = "xdg_shell"
	KindXWayland   Kind = "xwayland"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Property names a string attribute a view may expose.
type Property string

const (
	PropTitle    Property = "title"
	PropAppID    Property = "app_id"
	PropClass    Property = "class"
	PropInstance Property = "instance"
)

// Size is a width and height in surface-local units.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Implementation is the per-variant half of a view. A variant that cannot
// answer a property returns ok == false.
type Implementation interface {
	Kind() Kind
	Property(p Property) (string, bool)
	RequestSize(width, height int) error
	SetActivated(active bool) error
	Close() error
}

// Surface is the protocol object a shown view is bound to.
type Surface interface {
	ID() string
}

// View is one client window as the compositor sees it.
type View struct {
	id     string
	kind   Kind
	impl   Implementation
	logger *logging.Logger

	pending   Size
	committed Size
	x, y      float64
	activated bool

	surface Surface
	node    tree.Handle
}

// New creates a view of the given kind driven by impl.
func New(id string, kind Kind, impl Implementation, logger *logging.Logger) *View {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &View{
		id:     id,
		kind:   kind,
		impl:   impl,
		logger: logger.WithView(id),
	}
}

// ID returns the view's identity.
func (v *View) ID() string { return v.id }

// Kind returns the view's shell variant.
func (v *View) Kind() Kind { return v.kind }

// Pending returns the size last requested from the client.
func (v *View) Pending() Size { return v.pending }

// Committed returns the size the client last committed.
func (v *View) Committed() Size { return v.committed }

// SetCommitted records the size acknowledged by a commit.
func (v *View) SetCommitted(s Size) { v.committed = s }

// Position returns the view's layout coordinates.
func (v *View) Position() (x, y float64) { return v.x, v.y }

// Activated reports whether the view was last told it has focus.
func (v *View) Activated() bool { return v.activated }

// Surface returns the bound surface, or nil when the view is not shown.
func (v *View) Surface() Surface { return v.surface }

// Node returns the view's tree node. The zero handle means no node.
func (v *View) Node() tree.Handle { return v.node }

// Bind attaches the view to its surface and tree node when it is shown.
func (v *View) Bind(s Surface, node tree.Handle) {
	v.surface = s
	v.node = node
}

// Unbind clears both references when the view stops being shown.
func (v *View) Unbind() {
	v.surface = nil
	v.node = tree.Handle{}
}

// Bound reports whether the view holds a surface and a node.
func (v *View) Bound() bool {
	return v.surface != nil && !v.node.IsZero()
}

// check verifies that the implementation belongs to this view's kind.
func (v *View) check(op string) error {
	if v.impl == nil {
		err := errors.NewTypeAssertionError(op, v.kind.String(), "none").WithViewID(v.id)
		v.logger.Warn("capability call on view without implementation", "op", op, "error", err.Error())
		return err
	}
	if v.impl.Kind() != v.kind {
		err := errors.NewTypeAssertionError(op, v.impl.Kind().String(), v.kind.String()).WithViewID(v.id)
		v.logger.Warn("capability call on wrong shell variant", "op", op, "error", err.Error())
		return err
	}
	return nil
}

// Property returns the named property, read from the client on every call.
// A property the variant does not provide, or a variant mismatch, yields
// ok == false.
func (v *View) Property(p Property) (string, bool) {
	if v.check("get_prop") != nil {
		return "", false
	}
	return v.impl.Property(p)
}

// Title returns the current title, or "" if none is set.
func (v *View) Title() string {
	s, _ := v.Property(PropTitle)
	return s
}

// AppID returns the current application ID, or "" if none is set.
func (v *View) AppID() string {
	s, _ := v.Property(PropAppID)
	return s
}

// RequestSize records the pending size and asks the client to adopt it.
func (v *View) RequestSize(width, height int) error {
	if err := v.check("configure"); err != nil {
		return err
	}
	v.pending = Size{Width: width, Height: height}
	return v.impl.RequestSize(width, height)
}

// SetPosition places the view in layout coordinates. Nothing is sent to
// the client.
func (v *View) SetPosition(x, y float64) error {
	if err := v.check("set_position"); err != nil {
		return err
	}
	v.x, v.y = x, y
	return nil
}

// SetActivated tells the client whether it has keyboard focus.
func (v *View) SetActivated(active bool) error {
	if err := v.check("set_activated"); err != nil {
		return err
	}
	if err := v.impl.SetActivated(active); err != nil {
		return err
	}
	v.activated = active
	return nil
}

// Close asks the client to close the window.
func (v *View) Close() error {
	if err := v.check("close"); err != nil {
		return err
	}
	return v.impl.Close()
}
