// Package scenario loads, validates and replays YAML scripts of surface
// lifecycle events against a fresh compositor.
//
// A scenario is a list of steps. Each step plays one client action (create,
// map, commit, unmap, destroy, title, app_id) or one compositor request
// (request_size, activate, close) and may carry expectations that are
// checked after the step runs.
//
//	name: two windows
//	steps:
//	  - {op: create, surface: a, title: Editor}
//	  - {op: map, surface: a, expect: {state: shown, focused: a}}
package scenario

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/tessel/internal/errors"
)

// Op names a scenario step.
type Op string

const (
	OpCreate      Op = "create"
	OpMap         Op = "map"
	OpCommit      Op = "commit"
	OpUnmap       Op = "unmap"
	OpDestroy     Op = "destroy"
	OpTitle       Op = "title"
	OpAppID       Op = "app_id"
	OpRequestSize Op = "request_size"
	OpActivate    Op = "activate"
	OpClose       Op = "close"
)

// ValidOps returns every supported op.
func ValidOps() []Op {
	return []Op{
		OpCreate, OpMap, OpCommit, OpUnmap, OpDestroy,
		OpTitle, OpAppID, OpRequestSize, OpActivate, OpClose,
	}
}

// Scenario is one replayable script.
type Scenario struct {
	Name   string  `yaml:"name"`
	Output *Output `yaml:"output,omitempty"`
	Steps  []Step  `yaml:"steps"`

	// Path is the file the scenario was loaded from.
	Path string `yaml:"-"`
}

// Output overrides the configured output size.
type Output struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Step is a single action.
type Step struct {
	Op      Op      `yaml:"op"`
	Surface string  `yaml:"surface"`
	Role    string  `yaml:"role,omitempty"`
	Title   string  `yaml:"title,omitempty"`
	AppID   string  `yaml:"app_id,omitempty"`
	Width   int     `yaml:"width,omitempty"`
	Height  int     `yaml:"height,omitempty"`
	Active  *bool   `yaml:"active,omitempty"`
	Expect  *Expect `yaml:"expect,omitempty"`
}

// Expect lists checks made after a step. Empty fields are not checked.
type Expect struct {
	// State is the lifecycle state of the step's surface, or "none" when the
	// surface has no adapter.
	State string `yaml:"state,omitempty"`
	// Focused is the surface holding focus, or "none".
	Focused string `yaml:"focused,omitempty"`
	Title   string `yaml:"title,omitempty"`
	// Damage is the number of rectangles the step raised.
	Damage *int `yaml:"damage,omitempty"`
}

// Describe returns a short human-readable form of the step.
func (s Step) Describe() string {
	switch s.Op {
	case OpCreate:
		return fmt.Sprintf("create %s (%s)", s.Surface, s.role())
	case OpCommit, OpRequestSize:
		return fmt.Sprintf("%s %s %dx%d", s.Op, s.Surface, s.Width, s.Height)
	case OpTitle:
		return fmt.Sprintf("title %s %q", s.Surface, s.Title)
	case OpAppID:
		return fmt.Sprintf("app_id %s %q", s.Surface, s.AppID)
	case OpActivate:
		return fmt.Sprintf("activate %s %v", s.Surface, s.active())
	default:
		return fmt.Sprintf("%s %s", s.Op, s.Surface)
	}
}

func (s Step) role() string {
	if s.Role == "" {
		return "toplevel"
	}
	return s.Role
}

func (s Step) active() bool {
	return s.Active == nil || *s.Active
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scenario %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid scenario %s", path)
	}
	s.Path = path
	return s, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.NewValidationError("malformed YAML").WithCause(err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step is well formed and that surfaces are
// created before they are used. Steps on a destroyed surface are allowed so
// that scenarios can replay late signals.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return errors.NewValidationError("scenario has no steps").WithField("steps")
	}
	if s.Output != nil && (s.Output.Width <= 0 || s.Output.Height <= 0) {
		return errors.NewValidationError("output size must be positive").
			WithField("output").
			WithValue(fmt.Sprintf("%dx%d", s.Output.Width, s.Output.Height))
	}

	created := make(map[string]bool)
	for i, step := range s.Steps {
		field := fmt.Sprintf("steps[%d]", i)
		if !slices.Contains(ValidOps(), step.Op) {
			return errors.NewValidationError("unknown op").WithField(field + ".op").WithValue(string(step.Op))
		}
		if step.Surface == "" {
			return errors.NewValidationError("surface is required").WithField(field + ".surface")
		}

		switch step.Op {
		case OpCreate:
			if created[step.Surface] {
				return errors.NewValidationError("surface created twice").WithField(field + ".surface").WithValue(step.Surface)
			}
			created[step.Surface] = true
			continue
		case OpCommit, OpRequestSize:
			if step.Width <= 0 || step.Height <= 0 {
				return errors.NewValidationError("width and height must be positive").
					WithField(field).
					WithValue(fmt.Sprintf("%dx%d", step.Width, step.Height))
			}
		}

		if !created[step.Surface] {
			return errors.NewValidationError("surface used before create").WithField(field + ".surface").WithValue(step.Surface)
		}
	}
	return nil
}
