package protocol

import (
	"sync"

	"github.com/Iron-Ham/tessel/internal/event"
	"github.com/Iron-Ham/tessel/internal/logging"
)

// Role is the shell role a surface was given by its client.
type Role string

const (
	RoleToplevel Role = "toplevel"
	RolePopup    Role = "popup"
	RoleNone     Role = "none"
)

// ParseRole maps a scenario or wire name to a Role. Unknown names are kept
// as is so that the shell can decline them.
func ParseRole(s string) Role {
	if s == "" {
		return RoleNone
	}
	return Role(s)
}

// Surface is a simulated shell surface. Compositor-facing methods mirror the
// requests a shell can send; client-facing methods (SetTitle, Commit, Map,
// Unmap, Destroy) play the part of the remote client and publish lifecycle
// signals on the surface's bus.
type Surface struct {
	mu sync.Mutex

	id     string
	role   Role
	bus    *event.Bus
	logger *logging.Logger

	title  string
	appID  string
	width  int
	height int

	configuredW int
	configuredH int
	configures  int
	activated   bool
	maximized   bool
	pings       int
	closeReqs   int
	destroyed   bool
}

func newSurface(id string, role Role, logger *logging.Logger) *Surface {
	bus := event.NewBus()
	bus.SetLogger(logger)
	return &Surface{
		id:     id,
		role:   role,
		bus:    bus,
		logger: logger.WithSurface(id),
	}
}

// ID returns the surface identifier.
func (s *Surface) ID() string { return s.id }

// Role returns the role name.
func (s *Surface) Role() string { return string(s.role) }

// Signals returns the bus on which the surface publishes its lifecycle
// signals.
func (s *Surface) Signals() *event.Bus { return s.bus }

// Title returns the title the client last set.
func (s *Surface) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// AppID returns the application ID the client last set.
func (s *Surface) AppID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appID
}

// Size returns the size of the last committed buffer.
func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// SetSize sends a configure asking the client for a new size.
func (s *Surface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configuredW, s.configuredH = width, height
	s.configures++
	s.logger.Debug("configure", "width", width, "height", height)
}

// SetActivated sends the activated state to the client.
func (s *Surface) SetActivated(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activated = active
}

// SetMaximized sends the maximized state to the client.
func (s *Surface) SetMaximized(maximized bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maximized = maximized
}

// Ping sends a liveness ping. No reply is awaited.
func (s *Surface) Ping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings++
}

// Close asks the client to close the surface.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeReqs++
	s.logger.Debug("close requested")
}

// Configured returns the last requested size and how many configures were sent.
func (s *Surface) Configured() (width, height, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configuredW, s.configuredH, s.configures
}

// Activated reports the last activated state sent.
func (s *Surface) Activated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activated
}

// Maximized reports the last maximized state sent.
func (s *Surface) Maximized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maximized
}

// Pings returns how many pings were sent.
func (s *Surface) Pings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pings
}

// CloseRequests returns how many close requests were sent.
func (s *Surface) CloseRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeReqs
}

// Destroyed reports whether the client destroyed the surface.
func (s *Surface) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// SetTitle changes the title as the client would.
func (s *Surface) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// SetAppID changes the application ID as the client would.
func (s *Surface) SetAppID(appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appID = appID
}

// Commit finalizes a buffer of the given size and publishes the commit signal.
func (s *Surface) Commit(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
	s.bus.Publish(event.NewCommitEvent(s.id, width, height))
}

// Map publishes the map signal.
func (s *Surface) Map() {
	s.bus.Publish(event.NewMapEvent(s.id))
}

// Unmap publishes the unmap signal.
func (s *Surface) Unmap() {
	s.bus.Publish(event.NewUnmapEvent(s.id))
}

// Destroy marks the surface destroyed and publishes the destroy signal.
// Calling it again republishes the signal, which lets tests check that
// nothing is still listening.
func (s *Surface) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.mu.Unlock()
	s.bus.Publish(event.NewDestroyEvent(s.id))
}
