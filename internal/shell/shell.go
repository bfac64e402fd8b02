package shell

import (
	"github.com/google/uuid"

	"github.com/Iron-Ham/tessel/internal/damage"
	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/event"
	"github.com/Iron-Ham/tessel/internal/logging"
	"github.com/Iron-Ham/tessel/internal/tree"
)

// RoleToplevel is the only role the shell manages.
const RoleToplevel = "toplevel"

// Surface is the protocol object the adapter drives.
type Surface interface {
	ID() string
	Role() string
	Signals() *event.Bus
	Title() string
	AppID() string
	Size() (width, height int)
	SetSize(width, height int)
	SetActivated(active bool)
	SetMaximized(maximized bool)
	Ping()
	Close()
}

// Tree is the part of the window tree the adapter uses.
type Tree interface {
	Root() tree.Handle
	CreateNode(anchor tree.Handle, occupant tree.Occupant) (tree.Handle, error)
	DestroyNode(h tree.Handle) error
	Arrange(h tree.Handle) error
	Parent(h tree.Handle) (tree.Handle, bool)
	Occupant(h tree.Handle) (tree.Occupant, bool)
}

// Seat is the part of focus tracking the adapter uses.
type Seat interface {
	FocusInactive(root tree.Handle) tree.Handle
	SetFocus(h tree.Handle)
	Release(h tree.Handle) bool
	Refocus() (tree.Handle, bool)
}

// Damage receives regions that need repainting.
type Damage interface {
	MarkDirty(r damage.Rect)
}

// Services bundles the collaborators a Shell works against.
type Services struct {
	Tree   Tree
	Seat   Seat
	Damage Damage
	Logger *logging.Logger
	// Notify receives view notifications. May be nil.
	Notify *event.Bus
}

// Options tunes what happens when a surface is adopted.
type Options struct {
	MaximizeOnCreate bool
	PingOnCreate     bool
	// NewID allocates view identities. Defaults to uuid.NewRandom.
	NewID func() (uuid.UUID, error)
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		MaximizeOnCreate: true,
		PingOnCreate:     true,
		NewID:            uuid.NewRandom,
	}
}

// Shell owns the adapters for all managed surfaces.
type Shell struct {
	services Services
	opts     Options
	adapters map[string]*Adapter
	order    []string
	logger   *logging.Logger
}

// New creates a shell over the given collaborators.
func New(services Services, opts Options) *Shell {
	if services.Logger == nil {
		services.Logger = logging.NopLogger()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewRandom
	}
	return &Shell{
		services: services,
		opts:     opts,
		adapters: make(map[string]*Adapter),
		logger:   services.Logger.WithComponent("shell"),
	}
}

// HandleNewSurface adopts a surface that just received a shell role.
//
// A non-toplevel role returns an UnsupportedRoleError and creates nothing.
// For a toplevel, the adapter and view are built in full before any
// subscription is made, so an AllocationError leaves no trace.
func (s *Shell) HandleNewSurface(surf Surface) (*Adapter, error) {
	logger := s.logger.WithSurface(surf.ID())

	if surf.Role() != RoleToplevel {
		err := errors.NewUnsupportedRoleError(surf.Role()).WithSurfaceID(surf.ID())
		logger.Debug("declining surface", "role", surf.Role())
		s.notify(event.NewSurfaceDeclinedEvent(surf.ID(), surf.Role()))
		return nil, err
	}

	_, exists := s.adapters[surf.ID()]
	if exists {
		return nil, errors.NewValidationError("surface already managed").WithField("surface").WithValue(surf.ID())
	}

	a, err := newAdapter(s, surf)
	if err != nil {
		logger.Error("failed to create view", "error", err.Error())
		return nil, err
	}

	logger.Debug("new toplevel",
		"view_id", a.view.ID(),
		"title", surf.Title(),
		"app_id", surf.AppID())

	a.subscribe()

	s.adapters[surf.ID()] = a
	s.order = append(s.order, surf.ID())

	if s.opts.PingOnCreate {
		surf.Ping()
	}
	if s.opts.MaximizeOnCreate {
		surf.SetMaximized(true)
	}

	s.notify(event.NewViewCreatedEvent(a.view.ID(), surf.ID()))
	return a, nil
}

// Adapter returns the adapter managing the given surface.
func (s *Shell) Adapter(surfaceID string) (*Adapter, bool) {
	a, ok := s.adapters[surfaceID]
	return a, ok
}

// Adapters returns the live adapters in creation order.
func (s *Shell) Adapters() []*Adapter {
	out := make([]*Adapter, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.adapters[id])
	}
	return out
}

// Len returns the number of live adapters.
func (s *Shell) Len() int {
	return len(s.adapters)
}

func (s *Shell) remove(surfaceID string) {
	delete(s.adapters, surfaceID)
	for i, id := range s.order {
		if id == surfaceID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Shell) notify(e event.Event) {
	if s.services.Notify != nil {
		s.services.Notify.Publish(e)
	}
}

// logError writes err at the level matching its severity.
func logError(logger *logging.Logger, msg string, err error, args ...any) {
	args = append(args, "error", err.Error())
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug, errors.SeverityInfo:
		logger.Debug(msg, args...)
	case errors.SeverityWarning:
		logger.Warn(msg, args...)
	default:
		logger.Error(msg, args...)
	}
}
