package tree

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/logging"
)

// Kind identifies what a node represents.
type Kind int

const (
	// KindRoot is the single root of the tree. Its children are workspaces.
	KindRoot Kind = iota
	// KindWorkspace is a named top-level container.
	KindWorkspace
	// KindContainer is a split container nested inside a workspace.
	KindContainer
	// KindView is a leaf holding a window.
	KindView
)

// String returns a human-readable string for the kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindWorkspace:
		return "workspace"
	case KindContainer:
		return "container"
	case KindView:
		return "view"
	default:
		return "unknown"
	}
}

// Layout is the direction along which a container tiles its children.
type Layout int

const (
	// LayoutSplitH places children side by side.
	LayoutSplitH Layout = iota
	// LayoutSplitV stacks children top to bottom.
	LayoutSplitV
)

// String returns the configuration name of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutSplitH:
		return "splith"
	case LayoutSplitV:
		return "splitv"
	default:
		return "unknown"
	}
}

// ParseLayout converts a configuration name into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "splith", "":
		return LayoutSplitH, nil
	case "splitv":
		return LayoutSplitV, nil
	default:
		return LayoutSplitH, errors.NewValidationError("unknown layout").WithField("layout").WithValue(s)
	}
}

// Box is a node's rectangle in output coordinates.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Occupant is what a view node holds. The tree drives it during arrangement.
type Occupant interface {
	SetPosition(x, y float64) error
	RequestSize(width, height int) error
}

// Handle refers to a node slot in the arena. A handle whose node has been
// destroyed stays detectably stale even after the slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle, which never refers to a node.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// String formats the handle as "index:generation".
func (h Handle) String() string {
	if h.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", h.index, h.gen)
}

type node struct {
	gen      uint32
	live     bool
	kind     Kind
	name     string
	layout   Layout
	parent   Handle
	children []Handle
	occupant Occupant
	box      Box
}

// Tree is the window-management hierarchy: root, workspaces, containers and
// view leaves, stored in a generation-checked arena. It is not safe for
// concurrent use; all calls happen on the compositor's dispatch loop.
type Tree struct {
	nodes     []node
	free      []uint32
	root      Handle
	workspace Handle
	logger    *logging.Logger
}

// New creates a tree whose root covers a width x height output and holds one
// workspace with the given name and layout.
func New(width, height int, workspace string, layout Layout, logger *logging.Logger) *Tree {
	if logger == nil {
		logger = logging.NopLogger()
	}
	t := &Tree{logger: logger.WithComponent("tree")}

	t.root = t.alloc(node{kind: KindRoot, name: "root", layout: LayoutSplitH})
	t.nodes[t.root.index].box = Box{Width: width, Height: height}

	t.workspace = t.alloc(node{kind: KindWorkspace, name: workspace, layout: layout, parent: t.root})
	t.nodes[t.root.index].children = []Handle{t.workspace}
	t.nodes[t.workspace.index].box = Box{Width: width, Height: height}

	return t
}

// Root returns the root node.
func (t *Tree) Root() Handle {
	return t.root
}

// DefaultWorkspace returns the workspace created with the tree.
func (t *Tree) DefaultWorkspace() Handle {
	return t.workspace
}

func (t *Tree) alloc(n node) Handle {
	n.live = true
	if len(t.free) > 0 {
		idx := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		n.gen = t.nodes[idx].gen + 1
		t.nodes[idx] = n
		return Handle{index: idx, gen: n.gen}
	}
	n.gen = 1
	t.nodes = append(t.nodes, n)
	return Handle{index: uint32(len(t.nodes) - 1), gen: 1}
}

func (t *Tree) release(h Handle) {
	n := &t.nodes[h.index]
	gen := n.gen
	*n = node{gen: gen}
	t.free = append(t.free, h.index)
}

// lookup resolves a handle or explains why it cannot be resolved.
func (t *Tree) lookup(h Handle) (*node, error) {
	if h.IsZero() || int(h.index) >= len(t.nodes) {
		return nil, errors.NewTreeError("lookup", errors.ErrNodeNotFound).WithHandle(h.String())
	}
	n := &t.nodes[h.index]
	if !n.live || n.gen != h.gen {
		return nil, errors.NewTreeError("lookup", errors.ErrStaleHandle).WithHandle(h.String())
	}
	return n, nil
}

// Valid reports whether h refers to a live node.
func (t *Tree) Valid(h Handle) bool {
	_, err := t.lookup(h)
	return err == nil
}

// Kind returns the kind of the node at h.
func (t *Tree) Kind(h Handle) (Kind, error) {
	n, err := t.lookup(h)
	if err != nil {
		return 0, err
	}
	return n.kind, nil
}

// Name returns the node's name (workspace name; empty for other kinds).
func (t *Tree) Name(h Handle) string {
	n, err := t.lookup(h)
	if err != nil {
		return ""
	}
	return n.name
}

// Layout returns the node's layout.
func (t *Tree) Layout(h Handle) Layout {
	n, err := t.lookup(h)
	if err != nil {
		return LayoutSplitH
	}
	return n.layout
}

// Parent returns the parent of h. The root and stale handles have none.
func (t *Tree) Parent(h Handle) (Handle, bool) {
	n, err := t.lookup(h)
	if err != nil || n.parent.IsZero() {
		return Handle{}, false
	}
	return n.parent, true
}

// Children returns a copy of h's children in order.
func (t *Tree) Children(h Handle) []Handle {
	n, err := t.lookup(h)
	if err != nil {
		return nil
	}
	out := make([]Handle, len(n.children))
	copy(out, n.children)
	return out
}

// Occupant returns what a view node holds.
func (t *Tree) Occupant(h Handle) (Occupant, bool) {
	n, err := t.lookup(h)
	if err != nil || n.kind != KindView {
		return nil, false
	}
	return n.occupant, true
}

// Box returns the rectangle assigned to h by the last arrangement.
func (t *Tree) Box(h Handle) (Box, bool) {
	n, err := t.lookup(h)
	if err != nil {
		return Box{}, false
	}
	return n.box, true
}

// Len returns the number of live nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes) - len(t.free)
}

// IsAncestor reports whether ancestor is h itself or one of its ancestors.
func (t *Tree) IsAncestor(ancestor, h Handle) bool {
	for cur := h; t.Valid(cur); {
		if cur == ancestor {
			return true
		}
		parent, ok := t.Parent(cur)
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}

// CreateNode places a new view leaf for occ relative to anchor.
//
// A workspace or container anchor receives the node as its last child. A
// view anchor receives it as its next sibling, inside the anchor's parent.
// The root is not a placement target; a root anchor resolves to the default
// workspace.
func (t *Tree) CreateNode(anchor Handle, occ Occupant) (Handle, error) {
	if occ == nil {
		return Handle{}, errors.NewTreeError("create node", errors.NewValidationError("occupant is required"))
	}
	a, err := t.lookup(anchor)
	if err != nil {
		return Handle{}, errors.NewTreeError("create node", errors.ErrInvalidAnchor).WithHandle(anchor.String())
	}

	var parent Handle
	insertAt := -1
	switch a.kind {
	case KindRoot:
		parent = t.workspace
	case KindWorkspace, KindContainer:
		parent = anchor
	case KindView:
		parent = a.parent
		insertAt = indexOf(t.nodes[parent.index].children, anchor) + 1
	}

	h := t.alloc(node{kind: KindView, parent: parent, occupant: occ})
	p := &t.nodes[parent.index]
	if insertAt < 0 || insertAt > len(p.children) {
		p.children = append(p.children, h)
	} else {
		p.children = append(p.children[:insertAt], append([]Handle{h}, p.children[insertAt:]...)...)
	}

	t.logger.Debug("node created",
		"node", h.String(),
		"parent", parent.String(),
		"anchor", anchor.String())
	return h, nil
}

// NewContainer creates an empty split container under a workspace or
// container parent.
func (t *Tree) NewContainer(parent Handle, layout Layout) (Handle, error) {
	p, err := t.lookup(parent)
	if err != nil {
		return Handle{}, errors.NewTreeError("new container", errors.ErrInvalidAnchor).WithHandle(parent.String())
	}
	if p.kind != KindWorkspace && p.kind != KindContainer {
		return Handle{}, errors.NewTreeError("new container", errors.ErrInvalidAnchor).WithHandle(parent.String())
	}

	h := t.alloc(node{kind: KindContainer, layout: layout, parent: parent})
	t.nodes[parent.index].children = append(t.nodes[parent.index].children, h)
	return h, nil
}

// DestroyNode detaches h from its parent and frees it and its descendants.
// Afterwards every handle to those nodes is stale. The root and workspaces
// cannot be destroyed.
func (t *Tree) DestroyNode(h Handle) error {
	n, err := t.lookup(h)
	if err != nil {
		return errors.NewTreeError("destroy node", errors.Unwrap(err)).WithHandle(h.String())
	}
	if n.kind == KindRoot || n.kind == KindWorkspace {
		return errors.NewTreeError("destroy node", errors.ErrInvalidAnchor).WithHandle(h.String())
	}

	p := &t.nodes[n.parent.index]
	if i := indexOf(p.children, h); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	t.destroySubtree(h)

	t.logger.Debug("node destroyed", "node", h.String())
	return nil
}

func (t *Tree) destroySubtree(h Handle) {
	for _, c := range t.nodes[h.index].children {
		t.destroySubtree(c)
	}
	t.release(h)
}

// Arrange recomputes boxes for h's subtree and pushes the resulting
// geometry to every view occupant in it. Occupant errors are logged and do
// not stop the arrangement.
func (t *Tree) Arrange(h Handle) error {
	n, err := t.lookup(h)
	if err != nil {
		return errors.NewTreeError("arrange", errors.Unwrap(err)).WithHandle(h.String())
	}
	if n.kind == KindView {
		t.applyOccupant(h)
		return nil
	}
	t.arrangeChildren(h)
	return nil
}

func (t *Tree) arrangeChildren(h Handle) {
	n := &t.nodes[h.index]
	count := len(n.children)
	if count == 0 {
		return
	}

	box := n.box
	for i, c := range n.children {
		child := &t.nodes[c.index]
		switch n.layout {
		case LayoutSplitV:
			y0 := box.Y + box.Height*i/count
			y1 := box.Y + box.Height*(i+1)/count
			child.box = Box{X: box.X, Y: y0, Width: box.Width, Height: y1 - y0}
		default:
			x0 := box.X + box.Width*i/count
			x1 := box.X + box.Width*(i+1)/count
			child.box = Box{X: x0, Y: box.Y, Width: x1 - x0, Height: box.Height}
		}

		if child.kind == KindView {
			t.applyOccupant(c)
		} else {
			t.arrangeChildren(c)
		}
	}
}

func (t *Tree) applyOccupant(h Handle) {
	n := &t.nodes[h.index]
	if n.occupant == nil {
		return
	}
	if err := n.occupant.SetPosition(float64(n.box.X), float64(n.box.Y)); err != nil {
		t.logger.Warn("set position failed", "node", h.String(), "error", err.Error())
	}
	if err := n.occupant.RequestSize(n.box.Width, n.box.Height); err != nil {
		t.logger.Warn("request size failed", "node", h.String(), "error", err.Error())
	}
}

// Walk visits h's subtree depth-first, parents before children.
func (t *Tree) Walk(h Handle, fn func(h Handle, depth int)) {
	t.walk(h, 0, fn)
}

func (t *Tree) walk(h Handle, depth int, fn func(Handle, int)) {
	if !t.Valid(h) {
		return
	}
	fn(h, depth)
	for _, c := range t.nodes[h.index].children {
		t.walk(c, depth+1, fn)
	}
}

func indexOf(hs []Handle, h Handle) int {
	for i, x := range hs {
		if x == h {
			return i
		}
	}
	return -1
}
