package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "surface.map", "view.focused")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Base provides common fields for all events.
// Embed it in concrete event types to satisfy the Event interface.
type Base struct {
	eventType string
	timestamp time.Time
}

func (e Base) EventType() string    { return e.eventType }
func (e Base) Timestamp() time.Time { return e.timestamp }

// NewBase creates a Base with the current time.
func NewBase(eventType string) Base {
	return Base{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// Event type identifiers.
const (
	// Per-surface lifecycle signals, published on the surface's own bus.
	TypeSurfaceCommit  = "surface.commit"
	TypeSurfaceMap     = "surface.map"
	TypeSurfaceUnmap   = "surface.unmap"
	TypeSurfaceDestroy = "surface.destroy"

	// Shell global announcement of a new surface.
	TypeNewSurface = "shell.new_surface"

	// Compositor notifications about views.
	TypeViewCreated    = "view.created"
	TypeViewMapped     = "view.mapped"
	TypeViewUnmapped   = "view.unmapped"
	TypeViewDestroyed  = "view.destroyed"
	TypeViewFocused    = "view.focused"
	TypeViewCommitted  = "view.committed"
	TypeSignalIgnored  = "signal.ignored"
	TypeSurfaceDecline = "surface.declined"
)

// SignalTypes lists the four lifecycle signals an adapter subscribes to.
func SignalTypes() []string {
	return []string{TypeSurfaceCommit, TypeSurfaceMap, TypeSurfaceUnmap, TypeSurfaceDestroy}
}

// -----------------------------------------------------------------------------
// Surface Signals
// -----------------------------------------------------------------------------

// CommitEvent carries the surface state finalized by a commit.
type CommitEvent struct {
	Base
	SurfaceID string
	Width     int // Size the surface reports after the commit
	Height    int
}

// NewCommitEvent creates a CommitEvent.
func NewCommitEvent(surfaceID string, width, height int) CommitEvent {
	return CommitEvent{
		Base:      NewBase(TypeSurfaceCommit),
		SurfaceID: surfaceID,
		Width:     width,
		Height:    height,
	}
}

// SignalEvent is a payload-free lifecycle signal (map, unmap, destroy).
type SignalEvent struct {
	Base
	SurfaceID string
}

// NewMapEvent creates a map signal.
func NewMapEvent(surfaceID string) SignalEvent {
	return SignalEvent{Base: NewBase(TypeSurfaceMap), SurfaceID: surfaceID}
}

// NewUnmapEvent creates an unmap signal.
func NewUnmapEvent(surfaceID string) SignalEvent {
	return SignalEvent{Base: NewBase(TypeSurfaceUnmap), SurfaceID: surfaceID}
}

// NewDestroyEvent creates a destroy signal.
func NewDestroyEvent(surfaceID string) SignalEvent {
	return SignalEvent{Base: NewBase(TypeSurfaceDestroy), SurfaceID: surfaceID}
}

// -----------------------------------------------------------------------------
// View Notifications
// -----------------------------------------------------------------------------

// ViewEvent reports a view lifecycle step. Node is the tree handle in its
// string form, empty when the view has no node.
type ViewEvent struct {
	Base
	ViewID    string
	SurfaceID string
	Node      string
}

func newViewEvent(eventType, viewID, surfaceID, node string) ViewEvent {
	return ViewEvent{
		Base:      NewBase(eventType),
		ViewID:    viewID,
		SurfaceID: surfaceID,
		Node:      node,
	}
}

// NewViewCreatedEvent is emitted once the adapter and view exist and are subscribed.
func NewViewCreatedEvent(viewID, surfaceID string) ViewEvent {
	return newViewEvent(TypeViewCreated, viewID, surfaceID, "")
}

// NewViewMappedEvent is emitted when a view enters the shown state.
func NewViewMappedEvent(viewID, surfaceID, node string) ViewEvent {
	return newViewEvent(TypeViewMapped, viewID, surfaceID, node)
}

// NewViewUnmappedEvent is emitted when a view leaves the shown state.
func NewViewUnmappedEvent(viewID, surfaceID, node string) ViewEvent {
	return newViewEvent(TypeViewUnmapped, viewID, surfaceID, node)
}

// NewViewDestroyedEvent is emitted when a view is released.
func NewViewDestroyedEvent(viewID, surfaceID string) ViewEvent {
	return newViewEvent(TypeViewDestroyed, viewID, surfaceID, "")
}

// NewViewFocusedEvent is emitted when a seat moves active focus to a view's node.
func NewViewFocusedEvent(viewID, node string) ViewEvent {
	return newViewEvent(TypeViewFocused, viewID, "", node)
}

// ViewCommittedEvent reports a geometry commit and whether it raised damage.
type ViewCommittedEvent struct {
	Base
	ViewID  string
	Width   int
	Height  int
	Damaged bool
}

// NewViewCommittedEvent creates a ViewCommittedEvent.
func NewViewCommittedEvent(viewID string, width, height int, damaged bool) ViewCommittedEvent {
	return ViewCommittedEvent{
		Base:    NewBase(TypeViewCommitted),
		ViewID:  viewID,
		Width:   width,
		Height:  height,
		Damaged: damaged,
	}
}

// SignalIgnoredEvent reports a signal dropped as a protocol violation.
type SignalIgnoredEvent struct {
	Base
	SurfaceID string
	Signal    string
	State     string
}

// NewSignalIgnoredEvent creates a SignalIgnoredEvent.
func NewSignalIgnoredEvent(surfaceID, signal, state string) SignalIgnoredEvent {
	return SignalIgnoredEvent{
		Base:      NewBase(TypeSignalIgnored),
		SurfaceID: surfaceID,
		Signal:    signal,
		State:     state,
	}
}

// SurfaceDeclinedEvent reports a new surface whose role is not managed.
type SurfaceDeclinedEvent struct {
	Base
	SurfaceID string
	Role      string
}

// NewSurfaceDeclinedEvent creates a SurfaceDeclinedEvent.
func NewSurfaceDeclinedEvent(surfaceID, role string) SurfaceDeclinedEvent {
	return SurfaceDeclinedEvent{
		Base:      NewBase(TypeSurfaceDecline),
		SurfaceID: surfaceID,
		Role:      role,
	}
}
