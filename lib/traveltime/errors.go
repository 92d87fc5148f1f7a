// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package traveltime

import (
	"errors"
	"fmt"
	"time"

	"github.com/urbanlogiq/london-travel-time/lib/objectid"
	"github.com/urbanlogiq/london-travel-time/lib/schematic"
)

// ErrNoTasks is returned when a job completes without any tasks to
// take an output from.
var ErrNoTasks = errors.New("traveltime: completed job has no tasks")

// JobFailedError reports a job the evaluator moved to the Error status.
type JobFailedError struct {
	JobID objectid.ID
}

func (err *JobFailedError) Error() string {
	return fmt.Sprintf("traveltime: job %s failed", err.JobID)
}

// PollTimeoutError reports a job that was still not terminal when the
// poll policy's timeout elapsed.
type PollTimeoutError struct {
	JobID objectid.ID

	// Timeout is the configured maximum wait.
	Timeout time.Duration

	// LastStatus is the status seen on the final poll.
	LastStatus schematic.Status

	Polls int
}

func (err *PollTimeoutError) Error() string {
	return fmt.Sprintf("traveltime: job %s still %s after %v (%d polls)",
		err.JobID, err.LastStatus, err.Timeout, err.Polls)
}
