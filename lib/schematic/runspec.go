// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package schematic

import (
	"fmt"

	"github.com/urbanlogiq/london-travel-time/lib/codec"
	"github.com/urbanlogiq/london-travel-time/lib/objectid"
)

// ParamsKey is the parameter name the travel time schematic reads its
// table from.
const ParamsKey = "params"

// NewTravelTimeRunSpec builds the run spec for a travel time job: a
// single task consuming a single parameter table stored under
// ParamsKey. paramsTable is an encoded lib/paramtable stream.
func NewTravelTimeRunSpec(schematicID objectid.ID, paramsTable []byte) RunSpec {
	return RunSpec{
		Schematic:    NewObjectId(schematicID),
		ParamIndices: []ParamIndices{{Idxs: []int32{0}}},
		Params:       []TaskParameter{{Key: ParamsKey, Value: paramsTable}},
	}
}

// MarshalRunSpec validates spec and encodes it as a size-prefixed
// message.
func MarshalRunSpec(spec RunSpec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	data, err := codec.MarshalSizePrefixed(spec)
	if err != nil {
		return nil, fmt.Errorf("schematic: encoding run spec: %w", err)
	}
	return data, nil
}

// UnmarshalRunSpec decodes and validates a size-prefixed run spec.
func UnmarshalRunSpec(data []byte) (RunSpec, error) {
	var spec RunSpec
	if err := codec.UnmarshalSizePrefixed(data, &spec); err != nil {
		return RunSpec{}, fmt.Errorf("schematic: decoding run spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return RunSpec{}, err
	}
	return spec, nil
}

// MarshalObjectID encodes id as a size-prefixed ObjectId message.
func MarshalObjectID(id objectid.ID) ([]byte, error) {
	data, err := codec.MarshalSizePrefixed(NewObjectId(id))
	if err != nil {
		return nil, fmt.Errorf("schematic: encoding object id: %w", err)
	}
	return data, nil
}

// UnmarshalObjectID decodes a size-prefixed ObjectId message, as
// returned by job submission.
func UnmarshalObjectID(data []byte) (objectid.ID, error) {
	var record ObjectId
	if err := codec.UnmarshalSizePrefixed(data, &record); err != nil {
		return objectid.Nil, fmt.Errorf("schematic: decoding object id: %w", err)
	}
	return record.ID()
}

// MarshalJob encodes job as a size-prefixed message.
func MarshalJob(job Job) ([]byte, error) {
	data, err := codec.MarshalSizePrefixed(job)
	if err != nil {
		return nil, fmt.Errorf("schematic: encoding job: %w", err)
	}
	return data, nil
}

// UnmarshalJob decodes a size-prefixed Job message. The job id must be
// well-formed and the status known. Task outputs are checked only once
// the job is Complete; earlier they may not be assigned yet.
func UnmarshalJob(data []byte) (*Job, error) {
	var job Job
	if err := codec.UnmarshalSizePrefixed(data, &job); err != nil {
		return nil, fmt.Errorf("schematic: decoding job: %w", err)
	}
	if _, err := job.ID.ID(); err != nil {
		return nil, fmt.Errorf("schematic: job id: %w", err)
	}
	if !job.Status.IsKnown() {
		return nil, fmt.Errorf("schematic: job has unknown status %s", job.Status)
	}
	if job.Status != StatusComplete {
		return &job, nil
	}
	for index, task := range job.Tasks {
		if _, err := task.Output.ID(); err != nil {
			return nil, fmt.Errorf("schematic: task %d output: %w", index, err)
		}
	}
	return &job, nil
}
