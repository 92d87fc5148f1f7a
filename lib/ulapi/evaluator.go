// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package ulapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/urbanlogiq/london-travel-time/lib/codec"
	"github.com/urbanlogiq/london-travel-time/lib/objectid"
	"github.com/urbanlogiq/london-travel-time/lib/schematic"
)

// SubmitJob posts spec to the schematic evaluator and returns the id of
// the created job.
func (client *Client) SubmitJob(ctx context.Context, token string, spec schematic.RunSpec) (objectid.ID, error) {
	body, err := schematic.MarshalRunSpec(spec)
	if err != nil {
		return objectid.Nil, err
	}

	response, err := client.do(ctx, http.MethodPost, client.endpoint("schematicevaluator", "jobs"), client.apiHeaders(token), body)
	if err != nil {
		return objectid.Nil, err
	}

	client.logMessage(ctx, "job submission", response)

	jobID, err := schematic.UnmarshalObjectID(response)
	if err != nil {
		return objectid.Nil, fmt.Errorf("ulapi: job submission response: %w", err)
	}

	client.logger.Info("submitted job", "job_id", jobID.String(), "run_spec_bytes", len(body))
	return jobID, nil
}

// GetJob fetches the current state of a job.
func (client *Client) GetJob(ctx context.Context, token string, jobID objectid.ID) (*schematic.Job, error) {
	response, err := client.do(ctx, http.MethodGet, client.endpoint("schematicevaluator", "jobs", jobID.String()), client.apiHeaders(token), nil)
	if err != nil {
		return nil, err
	}

	client.logMessage(ctx, "job status", response)

	job, err := schematic.UnmarshalJob(response)
	if err != nil {
		return nil, fmt.Errorf("ulapi: job %s status response: %w", jobID, err)
	}
	return job, nil
}

// logMessage logs the diagnostic notation of an evaluator response at
// debug level. Undecodable messages are skipped; the caller reports
// them.
func (client *Client) logMessage(ctx context.Context, kind string, data []byte) {
	if !client.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	payload, err := codec.SplitSizePrefixed(data)
	if err != nil {
		return
	}
	notation, err := codec.Diagnose(payload)
	if err != nil {
		return
	}
	client.logger.Debug("evaluator response", "kind", kind, "cbor", notation)
}
