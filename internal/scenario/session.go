package scenario

import (
	"fmt"

	"github.com/Iron-Ham/tessel/internal/compositor"
	"github.com/Iron-Ham/tessel/internal/damage"
	"github.com/Iron-Ham/tessel/internal/errors"
	"github.com/Iron-Ham/tessel/internal/event"
	"github.com/Iron-Ham/tessel/internal/logging"
	"github.com/Iron-Ham/tessel/internal/protocol"
	"github.com/Iron-Ham/tessel/internal/shell"
)

// StepResult records what one step did.
type StepResult struct {
	Index    int           `json:"index" yaml:"index"`
	Step     string        `json:"step" yaml:"step"`
	Events   []string      `json:"events,omitempty" yaml:"events,omitempty"`
	Damage   []damage.Rect `json:"damage,omitempty" yaml:"damage,omitempty"`
	State    string        `json:"state" yaml:"state"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Failures []string      `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Session replays a scenario one step at a time on its own compositor.
type Session struct {
	scenario *Scenario
	comp     *compositor.Compositor
	surfaces map[string]*protocol.Surface
	adapters map[string]*shell.Adapter
	next     int
	pending  []string
	logger   *logging.Logger
}

// NewSession prepares a compositor for s. The scenario's output size, if
// given, overrides opts.
func NewSession(s *Scenario, opts compositor.Options, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if s.Output != nil {
		opts.Width = s.Output.Width
		opts.Height = s.Output.Height
	}
	sess := &Session{
		scenario: s,
		comp:     compositor.New(opts, logger),
		surfaces: make(map[string]*protocol.Surface),
		adapters: make(map[string]*shell.Adapter),
		logger:   logger.WithComponent("scenario").With("scenario", s.Name),
	}
	sess.comp.Notify.SubscribeAll(func(e event.Event) {
		sess.pending = append(sess.pending, describeEvent(e))
	})
	return sess
}

// Compositor returns the compositor the session drives.
func (s *Session) Compositor() *compositor.Compositor { return s.comp }

// Scenario returns the scenario being replayed.
func (s *Session) Scenario() *Scenario { return s.scenario }

// Done reports whether every step has run.
func (s *Session) Done() bool { return s.next >= len(s.scenario.Steps) }

// Position returns the index of the next step to run.
func (s *Session) Position() int { return s.next }

// Close tears the compositor down.
func (s *Session) Close() { s.comp.Close() }

// Step runs the next step. It returns false once the scenario is exhausted.
func (s *Session) Step() (StepResult, bool) {
	if s.Done() {
		return StepResult{}, false
	}
	idx := s.next
	step := s.scenario.Steps[idx]
	s.next++

	s.pending = nil
	s.comp.Damage.Drain()

	res := StepResult{Index: idx, Step: step.Describe()}
	if err := s.apply(step); err != nil {
		res.Error = err.Error()
		s.logger.Warn("step failed", "index", idx, "step", res.Step, "error", err.Error())
	}
	res.Events = s.pending
	res.Damage = s.comp.Damage.Drain()
	res.State = s.stateOf(step.Surface)
	if step.Expect != nil {
		res.Failures = s.check(step, res)
	}
	return res, true
}

func (s *Session) apply(step Step) error {
	if step.Op == OpCreate {
		surf, err := s.comp.Server.CreateSurface(step.Surface, protocol.ParseRole(step.role()), step.Title, step.AppID)
		if err != nil {
			return err
		}
		s.surfaces[step.Surface] = surf
		if a, ok := s.comp.Shell.Adapter(step.Surface); ok {
			s.adapters[step.Surface] = a
		}
		return nil
	}

	surf, ok := s.surfaces[step.Surface]
	if !ok {
		return errors.NewNotFoundError("surface", step.Surface)
	}

	switch step.Op {
	case OpMap:
		surf.Map()
	case OpCommit:
		surf.Commit(step.Width, step.Height)
	case OpUnmap:
		surf.Unmap()
	case OpDestroy:
		// A surface destroyed earlier is no longer registered; replay the
		// signal on it directly.
		if err := s.comp.Server.DestroySurface(step.Surface); err != nil {
			surf.Destroy()
		}
	case OpTitle:
		surf.SetTitle(step.Title)
	case OpAppID:
		surf.SetAppID(step.AppID)
	case OpRequestSize, OpActivate, OpClose:
		a, ok := s.adapters[step.Surface]
		if !ok {
			return errors.NewNotFoundError("view for surface", step.Surface)
		}
		switch step.Op {
		case OpRequestSize:
			return a.View().RequestSize(step.Width, step.Height)
		case OpActivate:
			return a.View().SetActivated(step.active())
		default:
			return a.View().Close()
		}
	}
	return nil
}

func (s *Session) stateOf(surfaceID string) string {
	a, ok := s.adapters[surfaceID]
	if !ok {
		return "none"
	}
	return a.State().String()
}

// focusedSurface returns the surface whose view holds seat focus.
func (s *Session) focusedSurface() string {
	h, ok := s.comp.Seat.Focused()
	if !ok {
		return "none"
	}
	for id, a := range s.adapters {
		if a.View().Node() == h {
			return id
		}
	}
	return "none"
}

func (s *Session) check(step Step, res StepResult) []string {
	var failures []string
	exp := step.Expect

	if exp.State != "" && exp.State != res.State {
		failures = append(failures, fmt.Sprintf("state: got %s, want %s", res.State, exp.State))
	}
	if exp.Focused != "" {
		if got := s.focusedSurface(); got != exp.Focused {
			failures = append(failures, fmt.Sprintf("focused: got %s, want %s", got, exp.Focused))
		}
	}
	if exp.Title != "" {
		got := ""
		if a, ok := s.adapters[step.Surface]; ok {
			got = a.View().Title()
		}
		if got != exp.Title {
			failures = append(failures, fmt.Sprintf("title: got %q, want %q", got, exp.Title))
		}
	}
	if exp.Damage != nil && len(res.Damage) != *exp.Damage {
		failures = append(failures, fmt.Sprintf("damage: got %d rects, want %d", len(res.Damage), *exp.Damage))
	}
	return failures
}

func describeEvent(e event.Event) string {
	switch ev := e.(type) {
	case event.ViewEvent:
		switch {
		case ev.SurfaceID == "":
			return fmt.Sprintf("%s node=%s", ev.EventType(), ev.Node)
		case ev.Node == "":
			return fmt.Sprintf("%s surface=%s", ev.EventType(), ev.SurfaceID)
		default:
			return fmt.Sprintf("%s surface=%s node=%s", ev.EventType(), ev.SurfaceID, ev.Node)
		}
	case event.ViewCommittedEvent:
		return fmt.Sprintf("%s %dx%d damaged=%v", ev.EventType(), ev.Width, ev.Height, ev.Damaged)
	case event.SignalIgnoredEvent:
		return fmt.Sprintf("%s surface=%s signal=%s state=%s", ev.EventType(), ev.SurfaceID, ev.Signal, ev.State)
	case event.SurfaceDeclinedEvent:
		return fmt.Sprintf("%s surface=%s role=%s", ev.EventType(), ev.SurfaceID, ev.Role)
	default:
		return e.EventType()
	}
}
