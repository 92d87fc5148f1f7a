// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package traveltime runs a travel time job against the UrbanLogiq
// schematic evaluator from start to finish.
//
// An [Orchestrator] authenticates, encodes the parameter rows as an
// Arrow table, submits a single-task run spec, and polls the job until
// it reaches a terminal status. Polling starts immediately after
// submission and then backs off exponentially between checks, bounded
// by [PollPolicy]. A job that completes has its first task's worklog
// downloaded into the output directory; a job that fails is reported
// as a [*JobFailedError].
//
// The package performs no I/O of its own beyond what its [API] does.
// Time is read through a [clock.Clock] so tests can drive the poll
// loop without sleeping.
package traveltime
