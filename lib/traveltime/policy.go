// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package traveltime

import (
	"errors"
	"time"
)

// PollPolicy bounds how the orchestrator waits for a job. Zero fields
// take the corresponding value from DefaultPollPolicy.
type PollPolicy struct {
	// Initial is the wait after the first non-terminal poll.
	Initial time.Duration

	// Max caps the wait between polls.
	Max time.Duration

	// Multiplier scales the wait after each non-terminal poll. Must be
	// at least 1.
	Multiplier float64

	// Timeout is the longest the orchestrator waits for a terminal
	// status, measured from submission.
	Timeout time.Duration
}

// DefaultPollPolicy starts at half a second, doubles, and gives up
// after 30 minutes.
var DefaultPollPolicy = PollPolicy{
	Initial:    500 * time.Millisecond,
	Max:        15 * time.Second,
	Multiplier: 2,
	Timeout:    30 * time.Minute,
}

func (policy PollPolicy) withDefaults() PollPolicy {
	if policy.Initial == 0 {
		policy.Initial = DefaultPollPolicy.Initial
	}
	if policy.Max == 0 {
		policy.Max = max(DefaultPollPolicy.Max, policy.Initial)
	}
	if policy.Multiplier == 0 {
		policy.Multiplier = DefaultPollPolicy.Multiplier
	}
	if policy.Timeout == 0 {
		policy.Timeout = DefaultPollPolicy.Timeout
	}
	return policy
}

func (policy PollPolicy) validate() error {
	switch {
	case policy.Initial < 0:
		return errors.New("poll initial interval is negative")
	case policy.Max < policy.Initial:
		return errors.New("poll max interval is shorter than the initial interval")
	case policy.Multiplier < 1:
		return errors.New("poll multiplier is less than 1")
	case policy.Timeout < 0:
		return errors.New("poll timeout is negative")
	}
	return nil
}

// next returns the wait that follows delay.
func (policy PollPolicy) next(delay time.Duration) time.Duration {
	scaled := time.Duration(float64(delay) * policy.Multiplier)
	if scaled > policy.Max || scaled < delay {
		return policy.Max
	}
	return scaled
}
