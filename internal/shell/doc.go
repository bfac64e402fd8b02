// Package shell adapts a window-shell protocol's surface lifecycle to the
// compositor's view, tree and focus model.
//
// The Shell receives every new surface. Toplevel surfaces get an Adapter,
// which owns a View and four subscriptions on the surface's signal bus.
// Other roles are declined and leave nothing behind.
//
// # Lifecycle
//
// Each signal passes through the adapter's lifecycle.Machine:
//
//	commit   any live state   record the committed size; damage if shown
//	map      created, hidden  place a tree node next to inactive focus,
//	                          arrange its parent, focus it, damage it
//	unmap    shown            damage, destroy the node, clear references
//	destroy  any live state   unsubscribe, tear down a node if still
//	                          shown, drop the adapter from the registry
//
// A signal that arrives in the wrong state is logged and ignored.
//
// # Collaborators
//
// The tree, seat and damage sink are passed in through Services. Nothing in
// this package reaches for globals, so tests can run several shells side by
// side.
//
// # Concurrency
//
// Shell and Adapter are not safe for concurrent use. Surface signals are
// published synchronously and every handler runs to completion on the
// compositor's dispatch loop, the same loop that owns the tree and seat.
// The replay watcher builds a fresh compositor for each run rather than
// sharing one across goroutines.
package shell
