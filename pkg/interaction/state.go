// Package interaction tracks pointer drags of modules and of the grid as
// explicit state machines. Sessions hold their own state; nothing here is
// global.
package interaction

import (
	"errors"
	"fmt"

	"github.com/yijongkuk/mdmd/pkg/geo"
)

// State is the phase of a drag session.
type State int

const (
	Idle State = iota
	Tracking
	Dragging
	Committing
	Cancelled
)

var stateNames = [...]string{
	Idle:       "idle",
	Tracking:   "tracking",
	Dragging:   "dragging",
	Committing: "committing",
	Cancelled:  "cancelled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("interaction: unknown state %q", b)
}

// DragThreshold is how far, in meters, the pointer must travel before a
// press becomes a drag.
const DragThreshold = 0.25

// ErrInvalidTransition is returned when an event arrives in a state that
// cannot accept it.
var ErrInvalidTransition = errors.New("interaction: invalid state transition")

var transitions = map[State][]State{
	Idle:       {Tracking},
	Tracking:   {Dragging, Committing, Cancelled},
	Dragging:   {Dragging, Committing, Cancelled},
	Committing: {Idle},
	Cancelled:  {Idle},
}

// BoundaryFunc returns the containment polygon for a floor, or nil when the
// floor cannot be built on.
type BoundaryFunc func(floor int) geo.Ring

type machine struct {
	state State
	start geo.Point2D
}

func (m *machine) to(next State) error {
	for _, s := range transitions[m.state] {
		if s == next {
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, m.state, next)
}

// active reports whether a press is in progress.
func (m *machine) active() bool {
	return m.state == Tracking || m.state == Dragging
}

// moved advances Tracking to Dragging once the pointer leaves the threshold.
func (m *machine) moved(at geo.Point2D) error {
	if !m.active() {
		return fmt.Errorf("%w: move while %s", ErrInvalidTransition, m.state)
	}
	if m.state == Tracking && at.Distance(m.start) < DragThreshold {
		return nil
	}
	return m.to(Dragging)
}

// reset returns a finished session to Idle. Resetting an idle session is a
// no-op.
func (m *machine) reset() error {
	if m.state == Idle {
		return nil
	}
	return m.to(Idle)
}
