// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package scheduler

import "fmt"

// State is a phase of a run.
type State int

const (
	StateConfiguring State = iota
	StateParsing
	StateDispatching
	StateDraining
	StateReporting
	StateDone
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateParsing:
		return "parsing"
	case StateDispatching:
		return "dispatching"
	case StateDraining:
		return "draining"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is possible from s.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateConfiguring:
		return to == StateParsing || to == StateFailed
	case StateParsing:
		return to == StateDispatching || to == StateFailed
	case StateDispatching:
		return to == StateDraining
	case StateDraining:
		return to == StateReporting
	case StateReporting:
		return to == StateDone
	default:
		return false
	}
}

// transition moves s.state from its current value to to, or returns an error
// and leaves it unchanged.
func (s *Scheduler) transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !isAllowedTransition(s.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
	}

	s.state = to

	return nil
}
