package seat

import (
	"testing"

	"github.com/Iron-Ham/tessel/internal/tree"
)

type fakeOccupant struct {
	active  bool
	changes int
}

func (f *fakeOccupant) SetPosition(x, y float64) error { return nil }
func (f *fakeOccupant) RequestSize(w, h int) error     { return nil }
func (f *fakeOccupant) SetActivated(active bool) error {
	f.active = active
	f.changes++
	return nil
}

func setup() (*tree.Tree, *Seat) {
	tr := tree.New(100, 100, "1", tree.LayoutSplitH, nil)
	return tr, New("seat0", tr, nil)
}

func TestFocusInactive_FallsBackToWorkspace(t *testing.T) {
	tr, s := setup()
	if got := s.FocusInactive(tr.Root()); got != tr.DefaultWorkspace() {
		t.Errorf("FocusInactive() = %v, want default workspace", got)
	}
	if _, ok := s.Focused(); ok {
		t.Error("Focused() should report nothing on a fresh seat")
	}
}

func TestSetFocus_ActivatesAndDeactivates(t *testing.T) {
	tr, s := setup()
	a := &fakeOccupant{}
	b := &fakeOccupant{}
	ah, _ := tr.CreateNode(tr.DefaultWorkspace(), a)
	bh, _ := tr.CreateNode(ah, b)

	s.SetFocus(ah)
	if !a.active {
		t.Error("a should be active")
	}

	s.SetFocus(bh)
	if a.active || !b.active {
		t.Errorf("after focusing b: a.active=%v b.active=%v", a.active, b.active)
	}
	if got, _ := s.Focused(); got != bh {
		t.Errorf("Focused() = %v, want %v", got, bh)
	}
	if got := s.FocusInactive(tr.Root()); got != bh {
		t.Errorf("FocusInactive() = %v, want %v", got, bh)
	}

	s.SetFocus(bh)
	if b.changes != 1 {
		t.Errorf("refocusing the focused node should be a no-op, changes = %d", b.changes)
	}
}

func TestFocusInactive_SkipsDestroyedNodes(t *testing.T) {
	tr, s := setup()
	ah, _ := tr.CreateNode(tr.DefaultWorkspace(), &fakeOccupant{})
	bh, _ := tr.CreateNode(ah, &fakeOccupant{})
	s.SetFocus(ah)
	s.SetFocus(bh)

	if err := tr.DestroyNode(bh); err != nil {
		t.Fatalf("DestroyNode() error = %v", err)
	}

	if got := s.FocusInactive(tr.Root()); got != ah {
		t.Errorf("FocusInactive() = %v, want %v", got, ah)
	}
	if len(s.Stack()) != 1 {
		t.Errorf("Stack() = %v, stale entries should be pruned", s.Stack())
	}
}

func TestFocusInactive_RespectsRoot(t *testing.T) {
	tr, s := setup()
	c, _ := tr.NewContainer(tr.DefaultWorkspace(), tree.LayoutSplitV)
	inner, _ := tr.CreateNode(c, &fakeOccupant{})
	outer, _ := tr.CreateNode(tr.DefaultWorkspace(), &fakeOccupant{})
	s.SetFocus(inner)
	s.SetFocus(outer)

	if got := s.FocusInactive(c); got != inner {
		t.Errorf("FocusInactive(container) = %v, want %v", got, inner)
	}
}

func TestSetFocus_StaleHandleIgnored(t *testing.T) {
	tr, s := setup()
	h, _ := tr.CreateNode(tr.DefaultWorkspace(), &fakeOccupant{})
	tr.DestroyNode(h)

	s.SetFocus(h)
	if _, ok := s.Focused(); ok {
		t.Error("stale handle should not receive focus")
	}
}

func TestRelease_FocusedNodeHandsFocusBack(t *testing.T) {
	tr, s := setup()
	ws := tr.DefaultWorkspace()
	a, b := &fakeOccupant{}, &fakeOccupant{}
	na, _ := tr.CreateNode(ws, a)
	nb, _ := tr.CreateNode(ws, b)
	s.SetFocus(na)
	s.SetFocus(nb)

	if !s.Release(nb) {
		t.Fatal("Release() of the focused node should report true")
	}
	if b.active {
		t.Error("released node should be deactivated")
	}
	if err := tr.DestroyNode(nb); err != nil {
		t.Fatalf("DestroyNode() error = %v", err)
	}

	got, ok := s.Refocus()
	if !ok || got != na {
		t.Fatalf("Refocus() = %v, %v, want A's node", got, ok)
	}
	if !a.active {
		t.Error("Refocus() should activate A")
	}
}

func TestRelease_UnfocusedNode(t *testing.T) {
	tr, s := setup()
	ws := tr.DefaultWorkspace()
	a, b := &fakeOccupant{}, &fakeOccupant{}
	na, _ := tr.CreateNode(ws, a)
	nb, _ := tr.CreateNode(ws, b)
	s.SetFocus(na)
	s.SetFocus(nb)
	changes := a.changes

	if s.Release(na) {
		t.Error("Release() of an unfocused node should report false")
	}
	if a.changes != changes {
		t.Error("releasing an unfocused node must not touch its activation")
	}
	if stack := s.Stack(); len(stack) != 1 || stack[0] != nb {
		t.Errorf("Stack() = %v, want [B]", stack)
	}
	if !b.active {
		t.Error("B should stay active")
	}
}

func TestRefocus_EmptyStack(t *testing.T) {
	_, s := setup()
	if _, ok := s.Refocus(); ok {
		t.Error("Refocus() on an empty stack should report false")
	}
}
