package shell

import (
	"github.com/Iron-Ham/tessel/internal/damage"
	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/event"
	"github.com/Iron-Ham/tessel/internal/lifecycle"
	"github.com/Iron-Ham/tessel/internal/logging"
	"github.com/Iron-Ham/tessel/internal/view"
)

// Adapter binds one toplevel surface to its View. It holds the four
// subscriptions on the surface's signal bus until the surface is destroyed.
type Adapter struct {
	shell   *Shell
	surface Surface
	view    *view.View
	machine *lifecycle.Machine
	subs    []string
	logger  *logging.Logger
}

func newAdapter(s *Shell, surf Surface) (*Adapter, error) {
	id, err := s.opts.NewID()
	if err != nil {
		return nil, errors.NewAllocationError("view", err).WithSurfaceID(surf.ID())
	}

	logger := s.logger.WithSurface(surf.ID()).WithView(id.String())
	impl := &xdgV6Toplevel{surface: surf}
	return &Adapter{
		shell:   s,
		surface: surf,
		view:    view.New(id.String(), view.KindXDGShellV6, impl, logger),
		machine: lifecycle.NewMachine(),
		logger:  logger,
	}, nil
}

// View returns the adapter's view.
func (a *Adapter) View() *view.View { return a.view }

// Surface returns the protocol surface the adapter was created for.
func (a *Adapter) Surface() Surface { return a.surface }

// State returns the view's lifecycle state.
func (a *Adapter) State() lifecycle.State { return a.machine.State() }

// History returns the view's recent lifecycle transitions.
func (a *Adapter) History() []lifecycle.Transition { return a.machine.History() }

// Subscriptions returns how many signal subscriptions the adapter holds.
func (a *Adapter) Subscriptions() int { return len(a.subs) }

func (a *Adapter) subscribe() {
	bus := a.surface.Signals()
	a.subs = []string{
		bus.Subscribe(event.TypeSurfaceCommit, a.handleCommit),
		bus.Subscribe(event.TypeSurfaceMap, a.handleMap),
		bus.Subscribe(event.TypeSurfaceUnmap, a.handleUnmap),
		bus.Subscribe(event.TypeSurfaceDestroy, a.handleDestroy),
	}
}

func (a *Adapter) unsubscribe() {
	bus := a.surface.Signals()
	for _, id := range a.subs {
		if !bus.Unsubscribe(id) {
			a.logger.Warn("subscription already removed", "subscription", id)
		}
	}
	a.subs = nil
}

// fire runs a signal through the lifecycle machine and logs anything that
// went wrong. Signal handlers never return errors.
func (a *Adapter) fire(sig lifecycle.Signal, effect func() error) {
	err := a.machine.Fire(sig, effect)
	if err == nil {
		return
	}

	var pv *errors.ProtocolViolationError
	if errors.As(err, &pv) {
		pv.WithSurfaceID(a.surface.ID())
		logError(a.logger, "signal ignored", err, "signal", sig.String())
		a.shell.notify(event.NewSignalIgnoredEvent(a.surface.ID(), sig.String(), pv.State))
		return
	}
	logError(a.logger, "signal handling failed", err, "signal", sig.String())
}

// rect returns the view's on-screen rectangle. Before the first commit the
// pending size stands in for the committed one.
func (a *Adapter) rect() damage.Rect {
	x, y := a.view.Position()
	size := a.view.Committed()
	if size.Width <= 0 || size.Height <= 0 {
		size = a.view.Pending()
	}
	return damage.Rect{X: int(x), Y: int(y), Width: size.Width, Height: size.Height}
}

func (a *Adapter) damageRect(r damage.Rect) {
	if a.shell.services.Damage != nil {
		a.shell.services.Damage.MarkDirty(r)
	}
}

func (a *Adapter) handleCommit(event.Event) {
	a.fire(lifecycle.SignalCommit, func() error {
		old := a.rect()
		w, h := a.surface.Size()
		a.view.SetCommitted(view.Size{Width: w, Height: h})

		shown := a.machine.State() == lifecycle.StateShown
		if shown {
			a.damageRect(old.Union(a.rect()))
		}
		a.shell.notify(event.NewViewCommittedEvent(a.view.ID(), w, h, shown))
		return nil
	})
}

func (a *Adapter) handleMap(event.Event) {
	a.fire(lifecycle.SignalMap, func() error {
		services := a.shell.services
		anchor := services.Seat.FocusInactive(services.Tree.Root())

		node, err := services.Tree.CreateNode(anchor, a.view)
		if err != nil {
			return errors.Wrap(err, "map abandoned")
		}
		a.view.Bind(a.surface, node)

		if parent, ok := services.Tree.Parent(node); ok {
			if err := services.Tree.Arrange(parent); err != nil {
				logError(a.logger, "arrange failed", err, "node", parent.String())
			}
		}
		services.Seat.SetFocus(node)
		a.damageRect(a.rect())

		a.logger.Info("view mapped", "node", node.String(), "anchor", anchor.String())
		a.shell.notify(event.NewViewMappedEvent(a.view.ID(), a.surface.ID(), node.String()))
		a.shell.notify(event.NewViewFocusedEvent(a.view.ID(), node.String()))
		return nil
	})
}

func (a *Adapter) handleUnmap(event.Event) {
	a.fire(lifecycle.SignalUnmap, func() error {
		node := a.teardownNode()
		a.logger.Info("view unmapped", "node", node)
		a.shell.notify(event.NewViewUnmappedEvent(a.view.ID(), a.surface.ID(), node))
		return nil
	})
}

// teardownNode damages the view, releases its focus, destroys its node and
// clears both references. If the view held focus the seat hands it to the
// next node on its stack. It returns the destroyed node's handle as a string.
func (a *Adapter) teardownNode() string {
	services := a.shell.services
	a.damageRect(a.rect())
	node := a.view.Node()

	focused := services.Seat.Release(node)
	if err := services.Tree.DestroyNode(node); err != nil {
		logError(a.logger, "destroy node failed", err, "node", node.String())
	}
	a.view.Unbind()

	if focused {
		a.restoreFocus()
	}
	return node.String()
}

func (a *Adapter) restoreFocus() {
	services := a.shell.services
	next, ok := services.Seat.Refocus()
	if !ok {
		return
	}
	occ, ok := services.Tree.Occupant(next)
	if !ok {
		return
	}
	if v, ok := occ.(*view.View); ok {
		a.shell.notify(event.NewViewFocusedEvent(v.ID(), next.String()))
	}
}

func (a *Adapter) handleDestroy(event.Event) {
	a.fire(lifecycle.SignalDestroy, func() error {
		a.unsubscribe()
		if a.machine.State() == lifecycle.StateShown {
			node := a.teardownNode()
			a.logger.Debug("destroyed while shown", "node", node)
		}
		a.shell.remove(a.surface.ID())

		a.logger.Info("view destroyed")
		a.shell.notify(event.NewViewDestroyedEvent(a.view.ID(), a.surface.ID()))
		return nil
	})
}
