// Package protocol simulates the client side of a window-shell protocol.
//
// A Server plays the shell global: creating a surface announces it with a
// NewSurfaceEvent on the server bus. Each Surface owns its own bus on which
// its commit, map, unmap and destroy signals are published. Nothing here
// speaks a wire format; scenarios and tests drive surfaces directly.
package protocol

import (
	"sort"
	"sync"

	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/event"
	"github.com/Iron-Ham/tessel/internal/logging"
)

// NewSurfaceEvent announces a surface that just received a shell role.
type NewSurfaceEvent struct {
	event.Base
	Surface *Surface
}

// Server is the simulated shell global.
type Server struct {
	mu       sync.Mutex
	bus      *event.Bus
	surfaces map[string]*Surface
	logger   *logging.Logger
}

// NewServer creates a server with an empty surface registry.
func NewServer(logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithComponent("protocol")
	bus := event.NewBus()
	bus.SetLogger(logger)
	return &Server{
		bus:      bus,
		surfaces: make(map[string]*Surface),
		logger:   logger,
	}
}

// Bus returns the bus carrying NewSurfaceEvent announcements.
func (s *Server) Bus() *event.Bus {
	return s.bus
}

// CreateSurface registers a surface with the given role and initial
// properties, then announces it.
func (s *Server) CreateSurface(id string, role Role, title, appID string) (*Surface, error) {
	if id == "" {
		return nil, errors.NewValidationError("surface id is required").WithField("surface")
	}

	s.mu.Lock()
	if _, exists := s.surfaces[id]; exists {
		s.mu.Unlock()
		return nil, errors.NewValidationError("surface already exists").WithField("surface").WithValue(id)
	}
	surf := newSurface(id, role, s.logger)
	surf.title = title
	surf.appID = appID
	s.surfaces[id] = surf
	s.mu.Unlock()

	s.logger.Debug("surface created", "surface_id", id, "role", string(role))
	s.bus.Publish(NewSurfaceEvent{Base: event.NewBase(event.TypeNewSurface), Surface: surf})
	return surf, nil
}

// Surface looks up a live surface by ID.
func (s *Server) Surface(id string) (*Surface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	surf, ok := s.surfaces[id]
	if !ok {
		return nil, errors.NewNotFoundError("surface", id)
	}
	return surf, nil
}

// DestroySurface destroys the surface and removes it from the registry.
func (s *Server) DestroySurface(id string) error {
	s.mu.Lock()
	surf, ok := s.surfaces[id]
	delete(s.surfaces, id)
	s.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError("surface", id)
	}
	surf.Destroy()
	return nil
}

// SurfaceIDs returns the IDs of live surfaces, sorted.
func (s *Server) SurfaceIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.surfaces))
	for id := range s.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
