// Package event provides the synchronous pub-sub bus that carries surface
// lifecycle signals and compositor notifications.
//
// Two kinds of bus exist at runtime. Every protocol surface owns a [Bus] on
// which it publishes its four lifecycle signals; the shell adapter for that
// surface subscribes to them and keeps the subscription IDs so it can
// remove each one exactly once. The compositor owns a second bus on which
// the adapter publishes view notifications for observers such as the
// scenario runner.
//
// # Main Types
//
//   - [Event]: interface providing EventType() and Timestamp()
//   - [Base]: embeddable implementation of Event
//   - [Bus]: synchronous dispatcher with subscription IDs
//
// # Event Categories
//
// Surface signals:
//   - [CommitEvent]: "surface.commit", carries the reported size
//   - [SignalEvent]: "surface.map", "surface.unmap", "surface.destroy"
//
// View notifications:
//   - [ViewEvent]: created, mapped, unmapped, destroyed, focused
//   - [ViewCommittedEvent]: geometry acknowledged by a commit
//   - [SignalIgnoredEvent]: a signal dropped as a protocol violation
//   - [SurfaceDeclinedEvent]: a surface whose role is not managed
//
// # Dispatch
//
// Publish runs handlers to completion before returning, so a lifecycle
// signal and every mutation it causes happen within one call. A handler
// may unsubscribe itself or others while an event is being delivered; the
// change takes effect for the next Publish.
//
//	bus := event.NewBus()
//	id := bus.Subscribe(event.TypeSurfaceMap, func(e event.Event) {
//	    sig := e.(event.SignalEvent)
//	    fmt.Println("mapped", sig.SurfaceID)
//	})
//	bus.Publish(event.NewMapEvent("s-1"))
//	bus.Unsubscribe(id)
package event
