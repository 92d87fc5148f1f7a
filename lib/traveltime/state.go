// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package traveltime

import "github.com/urbanlogiq/london-travel-time/lib/schematic"

// State is the client-side view of a job's progress. It extends the
// evaluator's status with Submitted, the state between the submission
// response and the first poll.
type State uint8

const (
	StateSubmitted State = iota
	StatePending
	StateRunning
	StateComplete
	StateError
)

func (state State) String() string {
	switch state {
	case StateSubmitted:
		return "submitted"
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions follow state.
func (state State) IsTerminal() bool {
	return state == StateComplete || state == StateError
}

func stateOf(status schematic.Status) State {
	switch status {
	case schematic.StatusPending:
		return StatePending
	case schematic.StatusRunning:
		return StateRunning
	case schematic.StatusComplete:
		return StateComplete
	default:
		return StateError
	}
}
