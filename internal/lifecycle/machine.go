// Package lifecycle defines the state machine a view follows from surface
// creation to destruction.
//
// A view starts Created, enters Shown on map, returns to Hidden on unmap and
// may be shown again. Destroy is accepted from every non-terminal state and
// leads to Destroyed, which accepts nothing. Commit never changes the state.
package lifecycle

import (
	"slices"
	"time"

	"github.com/Iron-Ham/tessel/internal/errors"
)

// State is a view's lifecycle state.
type State string

const (
	// StateCreated is the state after the adapter and view were allocated.
	StateCreated State = "created"
	// StateShown means the view is mapped and holds a tree node.
	StateShown State = "shown"
	// StateHidden means the view was unmapped and may be mapped again.
	StateHidden State = "hidden"
	// StateDestroyed is terminal.
	StateDestroyed State = "destroyed"
)

// AllStates returns every state in lifecycle order.
func AllStates() []State {
	return []State{StateCreated, StateShown, StateHidden, StateDestroyed}
}

// IsTerminal returns true if no signal is accepted in this state.
func (s State) IsTerminal() bool {
	return s == StateDestroyed
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// Signal is a protocol event that may move a view between states.
type Signal string

const (
	SignalCommit  Signal = "commit"
	SignalMap     Signal = "map"
	SignalUnmap   Signal = "unmap"
	SignalDestroy Signal = "destroy"
)

// String returns the string representation of the signal.
func (s Signal) String() string {
	return string(s)
}

// AcceptedSignals lists, per state, the signals whose precondition holds.
var AcceptedSignals = map[State][]Signal{
	StateCreated: {SignalCommit, SignalMap, SignalDestroy},
	StateShown:   {SignalCommit, SignalUnmap, SignalDestroy},
	StateHidden:  {SignalCommit, SignalMap, SignalDestroy},

	StateDestroyed: {},
}

// Accepts reports whether sig may be fired in state s.
func Accepts(s State, sig Signal) bool {
	accepted, ok := AcceptedSignals[s]
	if !ok {
		return false
	}
	return slices.Contains(accepted, sig)
}

// Target returns the state reached by firing sig from s. Commit keeps the
// current state.
func Target(s State, sig Signal) State {
	switch sig {
	case SignalMap:
		return StateShown
	case SignalUnmap:
		return StateHidden
	case SignalDestroy:
		return StateDestroyed
	default:
		return s
	}
}

// Transition records one accepted signal.
type Transition struct {
	From   State     `json:"from"`
	To     State     `json:"to"`
	Signal Signal    `json:"signal"`
	At     time.Time `json:"at"`
}

// DefaultHistorySize is how many transitions a Machine keeps.
const DefaultHistorySize = 32

// Machine tracks one view's state. It is not safe for concurrent use; a
// view's signals are delivered one at a time on the compositor's dispatch
// loop.
type Machine struct {
	state      State
	history    []Transition
	maxHistory int
	now        func() time.Time
}

// NewMachine returns a machine in StateCreated.
func NewMachine() *Machine {
	return &Machine{
		state:      StateCreated,
		maxHistory: DefaultHistorySize,
		now:        time.Now,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// History returns the most recent accepted transitions, oldest first.
func (m *Machine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// Fire checks sig against the current state, runs effect and commits the
// transition if effect returns nil.
//
// A signal that is not accepted returns a ProtocolViolationError without
// running effect. An effect error is returned as is and leaves the state
// unchanged. While effect runs State still reports the source state.
func (m *Machine) Fire(sig Signal, effect func() error) error {
	from := m.State()
	if !Accepts(from, sig) {
		return errors.NewProtocolViolationError(sig.String(), from.String())
	}

	if effect != nil {
		if err := effect(); err != nil {
			return err
		}
	}

	to := Target(from, sig)
	m.state = to
	m.history = append(m.history, Transition{From: from, To: to, Signal: sig, At: m.now()})
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
	return nil
}
