// Package compositor wires the simulated protocol server, the window tree,
// the seat, the damage tracker and the shell into one running unit.
package compositor

import (
	"github.com/Iron-Ham/tessel/internal/config"
	"github.com/Iron-Ham/tessel/internal/damage"
	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/event"
	"github.com/Iron-Ham/tessel/internal/logging"
	"github.com/Iron-Ham/tessel/internal/protocol"
	"github.com/Iron-Ham/tessel/internal/seat"
	"github.com/Iron-Ham/tessel/internal/shell"
	"github.com/Iron-Ham/tessel/internal/tree"
)

// Options configures a Compositor.
type Options struct {
	Width     int
	Height    int
	Workspace string
	Layout    tree.Layout
	SeatName  string
	Shell     shell.Options
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.Default())
	return opts
}

// OptionsFromConfig converts loaded configuration into Options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	layout, err := tree.ParseLayout(cfg.Tree.Layout)
	if err != nil {
		return Options{}, err
	}
	shellOpts := shell.DefaultOptions()
	shellOpts.MaximizeOnCreate = cfg.Shell.MaximizeOnCreate
	shellOpts.PingOnCreate = cfg.Shell.PingOnCreate
	return Options{
		Width:     cfg.Output.Width,
		Height:    cfg.Output.Height,
		Workspace: cfg.Tree.Workspace,
		Layout:    layout,
		SeatName:  cfg.Seat.Name,
		Shell:     shellOpts,
	}, nil
}

// Compositor owns every collaborator of one simulated session.
type Compositor struct {
	Server *protocol.Server
	Tree   *tree.Tree
	Seat   *seat.Seat
	Damage *damage.Tracker
	Shell  *shell.Shell
	// Notify carries view notifications published by the shell.
	Notify *event.Bus

	logger *logging.Logger
	subID  string
}

// New builds a compositor and starts listening for new surfaces.
func New(opts Options, logger *logging.Logger) *Compositor {
	if logger == nil {
		logger = logging.NopLogger()
	}

	t := tree.New(opts.Width, opts.Height, opts.Workspace, opts.Layout, logger)
	st := seat.New(opts.SeatName, t, logger)
	dmg := damage.NewTracker()
	notify := event.NewBus()
	notify.SetLogger(logger)

	c := &Compositor{
		Server: protocol.NewServer(logger),
		Tree:   t,
		Seat:   st,
		Damage: dmg,
		Notify: notify,
		logger: logger.WithComponent("compositor"),
	}
	c.Shell = shell.New(shell.Services{
		Tree:   t,
		Seat:   st,
		Damage: dmg,
		Logger: logger,
		Notify: notify,
	}, opts.Shell)

	c.subID = c.Server.Bus().Subscribe(event.TypeNewSurface, c.handleNewSurface)
	return c
}

func (c *Compositor) handleNewSurface(e event.Event) {
	ev, ok := e.(protocol.NewSurfaceEvent)
	if !ok {
		c.logger.Warn("unexpected new surface payload", "type", e.EventType())
		return
	}
	if _, err := c.Shell.HandleNewSurface(ev.Surface); err != nil {
		c.logger.Log(levelFor(err), "surface not adopted",
			"surface_id", ev.Surface.ID(),
			"error", err.Error())
	}
}

func levelFor(err error) string {
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug, errors.SeverityInfo:
		return logging.LevelDebug
	case errors.SeverityWarning:
		return logging.LevelWarn
	default:
		return logging.LevelError
	}
}

// Close destroys every remaining surface and stops listening for new ones.
func (c *Compositor) Close() {
	for _, id := range c.Server.SurfaceIDs() {
		if err := c.Server.DestroySurface(id); err != nil {
			c.logger.Warn("destroy on close failed", "surface_id", id, "error", err.Error())
		}
	}
	c.Server.Bus().Unsubscribe(c.subID)
}
