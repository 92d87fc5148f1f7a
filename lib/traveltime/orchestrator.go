// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package traveltime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urbanlogiq/london-travel-time/lib/clock"
	"github.com/urbanlogiq/london-travel-time/lib/objectid"
	"github.com/urbanlogiq/london-travel-time/lib/paramtable"
	"github.com/urbanlogiq/london-travel-time/lib/schematic"
	"github.com/urbanlogiq/london-travel-time/lib/ulapi"
)

// API is the subset of *ulapi.Client the orchestrator drives.
type API interface {
	Token(ctx context.Context, credentials ulapi.Credentials) (string, error)
	SubmitJob(ctx context.Context, token string, spec schematic.RunSpec) (objectid.ID, error)
	GetJob(ctx context.Context, token string, jobID objectid.ID) (*schematic.Job, error)
	DownloadWorklog(ctx context.Context, token string, worklog objectid.ID, format ulapi.Format, directory string) (*ulapi.Download, error)
}

// Config holds everything one run needs.
type Config struct {
	// API performs the remote calls. Required.
	API API

	Credentials ulapi.Credentials

	// Schematic identifies the travel time job definition. Required.
	Schematic objectid.ID

	// Format selects the result rendering. FormatDefault downloads the
	// catalog's native Arrow stream.
	Format ulapi.Format

	// OutputDirectory receives the result file. Defaults to ".".
	OutputDirectory string

	// Compression is applied to the parameter table's record batch.
	Compression paramtable.Compression

	Poll PollPolicy

	// Clock defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result describes a finished run.
type Result struct {
	JobID     objectid.ID
	WorklogID objectid.ID

	// Path, Bytes and Digest describe the written file; see
	// ulapi.Download.
	Path   string
	Bytes  int64
	Digest string

	// Polls is the number of status requests made.
	Polls int
}

// Orchestrator runs travel time jobs. It holds no per-run state and
// may be reused.
type Orchestrator struct {
	api             API
	credentials     ulapi.Credentials
	schematic       objectid.ID
	format          ulapi.Format
	outputDirectory string
	compression     paramtable.Compression
	poll            PollPolicy
	clock           clock.Clock
	logger          *slog.Logger
}

// New validates config and creates an Orchestrator.
func New(config Config) (*Orchestrator, error) {
	if config.API == nil {
		return nil, errors.New("traveltime: API is required")
	}
	if config.Schematic.IsNil() {
		return nil, errors.New("traveltime: schematic id is required")
	}

	poll := config.Poll.withDefaults()
	if err := poll.validate(); err != nil {
		return nil, fmt.Errorf("traveltime: %w", err)
	}

	outputDirectory := config.OutputDirectory
	if outputDirectory == "" {
		outputDirectory = "."
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		api:             config.API,
		credentials:     config.Credentials,
		schematic:       config.Schematic,
		format:          config.Format,
		outputDirectory: outputDirectory,
		compression:     config.Compression,
		poll:            poll,
		clock:           clk,
		logger:          logger,
	}, nil
}

// Run submits one job for rows, waits for it, and downloads its
// result. The job is submitted exactly once; every failure aborts the
// run.
func (orchestrator *Orchestrator) Run(ctx context.Context, rows []paramtable.Row) (*Result, error) {
	if len(rows) == 0 {
		return nil, errors.New("traveltime: no parameter rows")
	}

	token, err := orchestrator.api.Token(ctx, orchestrator.credentials)
	if err != nil {
		return nil, err
	}

	table, err := paramtable.Encode(rows, paramtable.WithCompression(orchestrator.compression))
	if err != nil {
		return nil, err
	}
	spec := schematic.NewTravelTimeRunSpec(orchestrator.schematic, table)

	jobID, err := orchestrator.api.SubmitJob(ctx, token, spec)
	if err != nil {
		return nil, err
	}
	logger := orchestrator.logger.With("job_id", jobID.String())
	logger.Info("job state", "state", StateSubmitted.String(), "rows", len(rows), "table_bytes", len(table))

	job, polls, err := orchestrator.await(ctx, logger, token, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == schematic.StatusError {
		return nil, &JobFailedError{JobID: jobID}
	}
	if len(job.Tasks) == 0 {
		return nil, fmt.Errorf("%w (job %s)", ErrNoTasks, jobID)
	}

	worklogID, err := job.Tasks[0].Output.ID()
	if err != nil {
		return nil, fmt.Errorf("traveltime: job %s task output: %w", jobID, err)
	}
	logger.Info("job output", "worklog_id", worklogID.String(), "tasks", len(job.Tasks))

	download, err := orchestrator.api.DownloadWorklog(ctx, token, worklogID, orchestrator.format, orchestrator.outputDirectory)
	if err != nil {
		return nil, err
	}

	return &Result{
		JobID:     jobID,
		WorklogID: worklogID,
		Path:      download.Path,
		Bytes:     download.Bytes,
		Digest:    download.Digest,
		Polls:     polls,
	}, nil
}

// await polls jobID until it is terminal, the poll timeout passes, or
// ctx is done. It returns the terminal job and the number of polls.
func (orchestrator *Orchestrator) await(ctx context.Context, logger *slog.Logger, token string, jobID objectid.ID) (*schematic.Job, int, error) {
	deadline := orchestrator.clock.Now().Add(orchestrator.poll.Timeout)
	delay := orchestrator.poll.Initial
	state := StateSubmitted

	for polls := 1; ; polls++ {
		job, err := orchestrator.api.GetJob(ctx, token, jobID)
		if err != nil {
			return nil, polls, fmt.Errorf("traveltime: polling job %s: %w", jobID, err)
		}

		if next := stateOf(job.Status); next != state {
			logger.Info("job state", "from", state.String(), "state", next.String(), "polls", polls)
			state = next
		}
		if state.IsTerminal() {
			return job, polls, nil
		}

		remaining := deadline.Sub(orchestrator.clock.Now())
		if remaining <= 0 {
			return nil, polls, &PollTimeoutError{
				JobID:      jobID,
				Timeout:    orchestrator.poll.Timeout,
				LastStatus: job.Status,
				Polls:      polls,
			}
		}

		wait := min(delay, remaining)
		logger.Debug("waiting for job", "state", state.String(), "wait", wait)
		select {
		case <-ctx.Done():
			return nil, polls, fmt.Errorf("traveltime: waiting for job %s: %w", jobID, context.Cause(ctx))
		case <-orchestrator.clock.After(wait):
		}
		delay = orchestrator.poll.next(delay)
	}
}
