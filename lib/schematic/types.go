// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package schematic

import (
	"fmt"

	"github.com/urbanlogiq/london-travel-time/lib/objectid"
)

// ObjectId is the wire record for a 16-byte identifier.
type ObjectId struct {
	B []byte `cbor:"b"`
}

// NewObjectId wraps id in its wire record.
func NewObjectId(id objectid.ID) ObjectId {
	return ObjectId{B: id.Bytes()}
}

// ID validates the record and returns the identifier. Returns an
// *objectid.FormatError unless B is exactly 16 bytes.
func (o ObjectId) ID() (objectid.ID, error) {
	return objectid.FromBytes(o.B)
}

// TaskParameter is a named, pre-encoded parameter table.
type TaskParameter struct {
	Key   string `cbor:"key"`
	Value []byte `cbor:"value"`
}

// ParamIndices lists the parameter tables one task consumes, as
// indices into RunSpec.Params.
type ParamIndices struct {
	Idxs []int32 `cbor:"idxs"`
}

// RunSpec describes a job to execute: which schematic to evaluate and
// the parameters for each of its tasks.
type RunSpec struct {
	Schematic ObjectId `cbor:"schematic"`

	// ParamIndices has one entry per task, in task order.
	ParamIndices []ParamIndices `cbor:"param_indices"`

	Params []TaskParameter `cbor:"params"`
}

// Validate checks the structural invariants of a run specification:
// the schematic id is 16 bytes, every task has an index entry, and
// every index addresses a parameter table.
func (spec RunSpec) Validate() error {
	if _, err := spec.Schematic.ID(); err != nil {
		return fmt.Errorf("schematic: run spec schematic: %w", err)
	}
	if len(spec.ParamIndices) == 0 {
		return fmt.Errorf("schematic: run spec has no tasks")
	}
	for task, indices := range spec.ParamIndices {
		for _, index := range indices.Idxs {
			if index < 0 || int(index) >= len(spec.Params) {
				return fmt.Errorf("schematic: task %d references parameter %d, run spec has %d", task, index, len(spec.Params))
			}
		}
	}
	for position, parameter := range spec.Params {
		if parameter.Key == "" {
			return fmt.Errorf("schematic: parameter %d has no key", position)
		}
	}
	return nil
}

// TaskCount returns the number of tasks the run spec describes.
func (spec RunSpec) TaskCount() int {
	return len(spec.ParamIndices)
}

// Status is the evaluator's job state.
type Status uint8

const (
	StatusPending Status = iota
	StatusRunning
	StatusComplete
	StatusError
)

// String returns the status name as the evaluator spells it.
func (status Status) String() string {
	switch status {
	case StatusPending:
		return "Pending"
	case StatusRunning:
		return "Running"
	case StatusComplete:
		return "Complete"
	case StatusError:
		return "Error"
	default:
		return fmt.Sprintf("Status(%d)", uint8(status))
	}
}

// IsTerminal reports whether the job will not change state again.
func (status Status) IsTerminal() bool {
	return status == StatusComplete || status == StatusError
}

// IsKnown reports whether status is one of the four defined values.
func (status Status) IsKnown() bool {
	return status <= StatusError
}

// Task is one unit of a job's work.
type Task struct {
	// Output identifies the worklog grouping the task's result data.
	Output ObjectId `cbor:"output"`
}

// Job is the evaluator's view of a submitted run spec.
type Job struct {
	ID     ObjectId `cbor:"id"`
	Status Status   `cbor:"status"`
	Tasks  []Task   `cbor:"tasks"`
}
