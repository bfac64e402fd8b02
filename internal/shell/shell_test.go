package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Iron-Ham/tessel/internal/damage"
	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/event"
	"github.com/Iron-Ham/tessel/internal/lifecycle"
	"github.com/Iron-Ham/tessel/internal/logging"
	"github.com/Iron-Ham/tessel/internal/protocol"
	"github.com/Iron-Ham/tessel/internal/seat"
	"github.com/Iron-Ham/tessel/internal/tree"
	"github.com/Iron-Ham/tessel/internal/view"
)

type harness struct {
	t      *testing.T
	tree   *tree.Tree
	seat   *seat.Seat
	damage *damage.Tracker
	notify *event.Bus
	shell  *Shell
	server *protocol.Server
	events []event.Event
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{t: t}
	h.tree = tree.New(1000, 800, "1", tree.LayoutSplitH, nil)
	h.seat = seat.New("seat0", h.tree, nil)
	h.damage = damage.NewTracker()
	h.notify = event.NewBus()
	h.notify.SubscribeAll(func(e event.Event) { h.events = append(h.events, e) })
	h.shell = New(Services{
		Tree:   h.tree,
		Seat:   h.seat,
		Damage: h.damage,
		Notify: h.notify,
	}, opts)
	h.server = protocol.NewServer(nil)
	return h
}

// create makes a surface and hands it to the shell the way the compositor does.
func (h *harness) create(id string, role protocol.Role, title string) (*protocol.Surface, *Adapter, error) {
	h.t.Helper()
	surf, err := h.server.CreateSurface(id, role, title, "app."+id)
	if err != nil {
		h.t.Fatalf("CreateSurface(%s) error = %v", id, err)
	}
	a, err := h.shell.HandleNewSurface(surf)
	return surf, a, err
}

func (h *harness) mustCreate(id string) (*protocol.Surface, *Adapter) {
	h.t.Helper()
	surf, a, err := h.create(id, protocol.RoleToplevel, strings.ToUpper(id))
	if err != nil {
		h.t.Fatalf("HandleNewSurface(%s) error = %v", id, err)
	}
	return surf, a
}

// nodesFor counts view nodes in the tree whose occupant is v.
func (h *harness) nodesFor(v *view.View) int {
	count := 0
	h.tree.Walk(h.tree.Root(), func(n tree.Handle, _ int) {
		if occ, ok := h.tree.Occupant(n); ok && occ == tree.Occupant(v) {
			count++
		}
	})
	return count
}

func (h *harness) checkInvariants(a *Adapter) {
	h.t.Helper()
	shown := a.State() == lifecycle.StateShown
	v := a.View()

	if got := h.nodesFor(v); (shown && got != 1) || (!shown && got != 0) {
		h.t.Errorf("state %s: view has %d nodes", a.State(), got)
	}
	if shown != (v.Surface() != nil) {
		h.t.Errorf("state %s: surface ref set = %v", a.State(), v.Surface() != nil)
	}
	if shown != !v.Node().IsZero() {
		h.t.Errorf("state %s: node ref = %v", a.State(), v.Node())
	}
	if shown && !h.tree.Valid(v.Node()) {
		h.t.Errorf("shown view holds stale node %v", v.Node())
	}
}

func (h *harness) eventTypes() []string {
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.EventType()
	}
	return out
}

func TestHandleNewSurface_Toplevel(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")

	if a.State() != lifecycle.StateCreated {
		t.Errorf("State() = %s, want created", a.State())
	}
	if a.Subscriptions() != 4 || surf.Signals().SubscriptionCount() != 4 {
		t.Errorf("subscriptions: adapter=%d bus=%d, want 4", a.Subscriptions(), surf.Signals().SubscriptionCount())
	}
	if surf.Pings() != 1 {
		t.Errorf("Pings() = %d, want 1", surf.Pings())
	}
	if !surf.Maximized() {
		t.Error("surface should be asked to maximize")
	}
	if _, err := uuid.Parse(a.View().ID()); err != nil {
		t.Errorf("view ID %q is not a UUID: %v", a.View().ID(), err)
	}
	if a.View().Kind() != view.KindXDGShellV6 {
		t.Errorf("Kind() = %s", a.View().Kind())
	}
	if got, ok := h.shell.Adapter("a"); !ok || got != a {
		t.Error("adapter should be registered")
	}
	if types := h.eventTypes(); len(types) != 1 || types[0] != event.TypeViewCreated {
		t.Errorf("events = %v", types)
	}
	h.checkInvariants(a)
}

func TestHandleNewSurface_OptionsOff(t *testing.T) {
	h := newHarness(t, Options{})
	surf, _ := h.mustCreate("a")

	if surf.Pings() != 0 || surf.Maximized() {
		t.Errorf("pings = %d, maximized = %v; both should be off", surf.Pings(), surf.Maximized())
	}
}

func TestHandleNewSurface_UnsupportedRole(t *testing.T) {
	var buf bytes.Buffer
	h := newHarness(t, DefaultOptions())
	h.shell = New(Services{
		Tree:   h.tree,
		Seat:   h.seat,
		Damage: h.damage,
		Notify: h.notify,
		Logger: logging.NewWriterLogger(&buf, "DEBUG"),
	}, DefaultOptions())

	surf, a, err := h.create("p", protocol.RolePopup, "menu")

	if a != nil {
		t.Error("no adapter should be created for a popup")
	}
	if !errors.Is(err, errors.ErrUnsupportedRole) {
		t.Fatalf("error = %v, want unsupported role", err)
	}
	if errors.GetSeverity(err) != errors.SeverityDebug {
		t.Errorf("severity = %s, want debug", errors.GetSeverity(err))
	}
	if surf.Signals().SubscriptionCount() != 0 {
		t.Error("declined surface must have no subscriptions")
	}
	if h.shell.Len() != 0 {
		t.Error("declined surface must not be registered")
	}
	if surf.Pings() != 0 || surf.Maximized() {
		t.Error("declined surface must not be pinged or maximized")
	}

	surf.Map()
	if len(h.tree.Children(h.tree.DefaultWorkspace())) != 0 {
		t.Error("mapping a declined surface must not create a node")
	}
	if types := h.eventTypes(); len(types) != 1 || types[0] != event.TypeSurfaceDecline {
		t.Errorf("events = %v", types)
	}
	if !strings.Contains(buf.String(), "declining surface") {
		t.Errorf("expected a debug log line, got %q", buf.String())
	}
}

func TestHandleNewSurface_AllocationFailure(t *testing.T) {
	opts := DefaultOptions()
	opts.NewID = func() (uuid.UUID, error) { return uuid.Nil, errors.New("entropy exhausted") }
	h := newHarness(t, opts)

	surf, a, err := h.create("a", protocol.RoleToplevel, "A")

	if a != nil {
		t.Error("no adapter should be returned")
	}
	if !errors.Is(err, errors.ErrAllocation) || !errors.IsFatal(err) {
		t.Fatalf("error = %v, want fatal allocation error", err)
	}
	if surf.Signals().SubscriptionCount() != 0 {
		t.Errorf("bus has %d subscriptions after failed creation", surf.Signals().SubscriptionCount())
	}
	if h.shell.Len() != 0 {
		t.Error("failed creation must not be registered")
	}
	if surf.Pings() != 0 {
		t.Error("failed creation must not ping")
	}

	surf.Map()
	if h.tree.Len() != 2 {
		t.Errorf("tree has %d nodes, want only root and workspace", h.tree.Len())
	}
}

func TestHandleNewSurface_Duplicate(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, _ := h.mustCreate("a")

	if _, err := h.shell.HandleNewSurface(surf); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("error = %v, want invalid input", err)
	}
	if surf.Signals().SubscriptionCount() != 4 {
		t.Errorf("subscriptions = %d, want 4", surf.Signals().SubscriptionCount())
	}
}

func TestAdapter_NodeIffShown(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")

	steps := []struct {
		name string
		do   func()
		want lifecycle.State
	}{
		{"map", surf.Map, lifecycle.StateShown},
		{"commit", func() { surf.Commit(300, 200) }, lifecycle.StateShown},
		{"unmap", surf.Unmap, lifecycle.StateHidden},
		{"commit hidden", func() { surf.Commit(320, 200) }, lifecycle.StateHidden},
		{"remap", surf.Map, lifecycle.StateShown},
		{"destroy", surf.Destroy, lifecycle.StateDestroyed},
	}

	for _, step := range steps {
		step.do()
		if a.State() != step.want {
			t.Fatalf("after %s: state = %s, want %s", step.name, a.State(), step.want)
		}
		h.checkInvariants(a)
	}
}

func TestAdapter_DestroyReleasesSubscriptions(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")
	surf.Map()

	surf.Destroy()

	if a.Subscriptions() != 0 || surf.Signals().SubscriptionCount() != 0 {
		t.Errorf("subscriptions after destroy: adapter=%d bus=%d", a.Subscriptions(), surf.Signals().SubscriptionCount())
	}
	if _, ok := h.shell.Adapter("a"); ok {
		t.Error("adapter should be removed from the registry")
	}
	if len(h.tree.Children(h.tree.DefaultWorkspace())) != 0 {
		t.Error("destroy while shown should remove the node")
	}

	before := len(h.events)
	surf.Destroy()
	surf.Map()
	surf.Commit(10, 10)
	surf.Unmap()
	if len(h.events) != before {
		t.Errorf("signals after destroy produced events: %v", h.eventTypes()[before:])
	}
	if len(a.History()) == 0 || a.History()[len(a.History())-1].To != lifecycle.StateDestroyed {
		t.Error("history should end in destroyed")
	}
}

func TestAdapter_DestroyWithoutMap(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")

	surf.Destroy()

	if a.State() != lifecycle.StateDestroyed {
		t.Errorf("State() = %s", a.State())
	}
	if h.damage.Total() != 0 {
		t.Error("destroying an unmapped view should not raise damage")
	}
	h.checkInvariants(a)
}

func TestAdapter_RequestSizeThenCommit(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")

	if err := a.View().RequestSize(800, 600); err != nil {
		t.Fatalf("RequestSize() error = %v", err)
	}
	if w, hgt, _ := surf.Configured(); w != 800 || hgt != 600 {
		t.Errorf("surface configured %dx%d", w, hgt)
	}
	surf.Commit(800, 600)

	if a.View().Committed() != (view.Size{Width: 800, Height: 600}) {
		t.Errorf("Committed() = %v, want 800x600", a.View().Committed())
	}
	if a.State() != lifecycle.StateCreated {
		t.Errorf("State() = %s, commit must not change state", a.State())
	}
	if h.damage.Total() != 0 {
		t.Error("commit before map must not raise damage")
	}
}

func TestAdapter_CommitWhileShownDamagesUnion(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, _ := h.mustCreate("a")
	surf.Commit(400, 300)
	surf.Map()
	h.damage.Drain()

	surf.Commit(500, 200)

	got := h.damage.Drain()
	if len(got) != 1 {
		t.Fatalf("damage = %v, want one rect", got)
	}
	want := damage.Rect{X: 0, Y: 0, Width: 500, Height: 300}
	if got[0] != want {
		t.Errorf("damage = %v, want %v", got[0], want)
	}
}

func TestAdapter_MapDamagesAndFocuses(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")

	surf.Map()

	if focused, ok := h.seat.Focused(); !ok || focused != a.View().Node() {
		t.Errorf("Focused() = %v, want %v", focused, a.View().Node())
	}
	if !surf.Activated() || !a.View().Activated() {
		t.Error("focused view should be activated")
	}
	rects := h.damage.Drain()
	if len(rects) != 1 || rects[0] != (damage.Rect{Width: 1000, Height: 800}) {
		t.Errorf("map damage = %v, want the full workspace box", rects)
	}
	if w, hgt, _ := surf.Configured(); w != 1000 || hgt != 800 {
		t.Errorf("arrangement requested %dx%d", w, hgt)
	}
}

func TestAdapter_UnmapDamagesBeforeRemoval(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, _ := h.mustCreate("a")
	surf.Commit(640, 480)
	surf.Map()
	h.damage.Drain()

	surf.Unmap()

	rects := h.damage.Drain()
	if len(rects) != 1 || rects[0] != (damage.Rect{Width: 640, Height: 480}) {
		t.Errorf("unmap damage = %v", rects)
	}
}

func TestAdapter_TitleIsLive(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")

	surf.SetTitle("Editor")

	if got := a.View().Title(); got != "Editor" {
		t.Errorf("Title() = %q, want Editor", got)
	}
	if got, ok := a.View().Property(view.PropAppID); !ok || got != "app.a" {
		t.Errorf("Property(app_id) = %q, %v", got, ok)
	}
	for _, p := range []view.Property{view.PropClass, view.PropInstance} {
		if _, ok := a.View().Property(p); ok {
			t.Errorf("Property(%s) should not apply to this shell", p)
		}
	}
}

func TestAdapter_SiblingPlacement(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	x := h.tree.DefaultWorkspace()

	surfA, a := h.mustCreate("a")
	surfA.Map()
	nodeA := a.View().Node()
	if parent, _ := h.tree.Parent(nodeA); parent != x {
		t.Fatalf("A's parent = %v, want workspace %v", parent, x)
	}
	if focused, _ := h.seat.Focused(); focused != nodeA {
		t.Fatalf("focus = %v, want A", focused)
	}

	surfB, b := h.mustCreate("b")
	surfB.Map()
	nodeB := b.View().Node()
	if parent, _ := h.tree.Parent(nodeB); parent != x {
		t.Errorf("B's parent = %v, want A's parent %v", parent, x)
	}
	if children := h.tree.Children(x); len(children) != 2 || children[0] != nodeA || children[1] != nodeB {
		t.Errorf("children = %v, want [A B]", children)
	}
	if focused, _ := h.seat.Focused(); focused != nodeB {
		t.Errorf("focus = %v, want B", focused)
	}
	if surfA.Activated() || !surfB.Activated() {
		t.Error("focus change should deactivate A and activate B")
	}

	surfB.Unmap()
	if h.tree.Valid(nodeB) {
		t.Error("B's node should be destroyed")
	}
	_, _, configuresBefore := surfB.Configured()
	if err := h.tree.Arrange(x); err != nil {
		t.Fatalf("Arrange() error = %v", err)
	}
	if _, _, n := surfB.Configured(); n != configuresBefore {
		t.Error("re-arranging the parent touched B")
	}
	if children := h.tree.Children(x); len(children) != 1 || children[0] != nodeA {
		t.Errorf("children = %v, want [A]", children)
	}
	h.checkInvariants(a)
	h.checkInvariants(b)
}

func TestAdapter_ProtocolViolations(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")

	surf.Unmap()
	if a.State() != lifecycle.StateCreated {
		t.Errorf("unmap in created changed state to %s", a.State())
	}

	surf.Map()
	node := a.View().Node()
	surf.Map()
	if a.View().Node() != node || h.nodesFor(a.View()) != 1 {
		t.Error("second map must not create another node")
	}

	var ignored []event.SignalIgnoredEvent
	for _, e := range h.events {
		if ev, ok := e.(event.SignalIgnoredEvent); ok {
			ignored = append(ignored, ev)
		}
	}
	if len(ignored) != 2 {
		t.Fatalf("ignored signals = %d, want 2", len(ignored))
	}
	if ignored[0].Signal != "unmap" || ignored[0].State != "created" {
		t.Errorf("first ignored = %+v", ignored[0])
	}
	if ignored[1].Signal != "map" || ignored[1].State != "shown" {
		t.Errorf("second ignored = %+v", ignored[1])
	}
}

// failingTree wraps a tree and refuses to create nodes.
type failingTree struct {
	*tree.Tree
}

func (f failingTree) CreateNode(tree.Handle, tree.Occupant) (tree.Handle, error) {
	return tree.Handle{}, errors.NewTreeError("create node", errors.ErrInvalidAnchor)
}

func TestAdapter_MapAbandonedWhenNodeCreationFails(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.shell = New(Services{
		Tree:   failingTree{h.tree},
		Seat:   h.seat,
		Damage: h.damage,
		Notify: h.notify,
	}, DefaultOptions())
	surf, a := h.mustCreate("a")

	surf.Map()

	if a.State() != lifecycle.StateCreated {
		t.Errorf("State() = %s, want created", a.State())
	}
	if a.View().Bound() {
		t.Error("failed map must not bind references")
	}
	if h.damage.Total() != 0 {
		t.Error("failed map must not raise damage")
	}
	h.checkInvariants(a)

	surf.Destroy()
	if a.State() != lifecycle.StateDestroyed {
		t.Errorf("destroy after failed map: State() = %s", a.State())
	}
}

func TestAdapter_DestroyWhileShownRestoresFocus(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surfA, a := h.mustCreate("a")
	surfA.Map()
	surfB, _ := h.mustCreate("b")
	surfB.Map()

	surfB.Destroy()

	if got := h.seat.FocusInactive(h.tree.Root()); got != a.View().Node() {
		t.Errorf("FocusInactive() = %v, want A's node", got)
	}
	if h.shell.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.shell.Len())
	}
	if !surfA.Activated() || !a.View().Activated() {
		t.Error("A should be activated once B is gone")
	}
	if surfB.Activated() {
		t.Error("destroyed B should be deactivated")
	}
	got := h.eventTypes()
	want := []string{event.TypeViewFocused, event.TypeViewDestroyed}
	tail := got[len(got)-2:]
	if tail[0] != want[0] || tail[1] != want[1] {
		t.Errorf("last notifications = %v, want %v", tail, want)
	}
	if focused := h.events[len(h.events)-2].(event.ViewEvent); focused.ViewID != a.View().ID() {
		t.Errorf("focus notification names %s, want A", focused.ViewID)
	}
}

func TestAdapter_UnmapFocusedHandsActivationBack(t *testing.T) {
	tests := []struct {
		name     string
		teardown func(*protocol.Surface)
	}{
		{"unmap", func(s *protocol.Surface) { s.Unmap() }},
		{"destroy", func(s *protocol.Surface) { s.Destroy() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, DefaultOptions())
			surfA, a := h.mustCreate("a")
			surfA.Map()
			surfB, _ := h.mustCreate("b")
			surfB.Map()

			tt.teardown(surfB)

			if focused, ok := h.seat.Focused(); !ok || focused != a.View().Node() {
				t.Errorf("Focused() = %v, %v, want A's node", focused, ok)
			}
			if !surfA.Activated() || !a.View().Activated() {
				t.Error("A should be activated")
			}
			if surfB.Activated() {
				t.Error("B should be deactivated")
			}
		})
	}
}

func TestAdapter_UnmapUnfocusedKeepsFocus(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surfA, _ := h.mustCreate("a")
	surfA.Map()
	surfB, b := h.mustCreate("b")
	surfB.Map()
	before := len(h.events)

	surfA.Unmap()

	if focused, _ := h.seat.Focused(); focused != b.View().Node() {
		t.Errorf("Focused() = %v, want B's node", focused)
	}
	if !surfB.Activated() {
		t.Error("B should stay activated")
	}
	for _, e := range h.events[before:] {
		if e.EventType() == event.TypeViewFocused {
			t.Error("unmapping an unfocused view must not move focus")
		}
	}
}

func TestAdapter_CloseReachesSurface(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	surf, a := h.mustCreate("a")

	if err := a.View().Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if surf.CloseRequests() != 1 {
		t.Errorf("CloseRequests() = %d, want 1", surf.CloseRequests())
	}
}

func TestShell_AdaptersInCreationOrder(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.mustCreate("b")
	surfA, _ := h.mustCreate("a")
	h.mustCreate("c")

	surfA.Destroy()

	adapters := h.shell.Adapters()
	if len(adapters) != 2 || adapters[0].Surface().ID() != "b" || adapters[1].Surface().ID() != "c" {
		t.Errorf("Adapters() order wrong: %d entries", len(adapters))
	}
}
