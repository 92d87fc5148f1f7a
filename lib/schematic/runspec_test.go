// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package schematic

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/urbanlogiq/london-travel-time/lib/codec"
	"github.com/urbanlogiq/london-travel-time/lib/objectid"
	"github.com/urbanlogiq/london-travel-time/lib/paramtable"
)

var testSchematic = objectid.MustParse("6d1c0f5e-8a3b-4c2d-9e7f-0a1b2c3d4e5f")

func TestTravelTimeRunSpecRoundtrip(t *testing.T) {
	start := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	rows := []paramtable.Row{
		{Realm: "london", NodeID: "a", StartTime: start, EndTime: start.Add(time.Hour), Interval: 15},
		{Realm: "london", NodeID: "b", StartTime: start, EndTime: start.Add(2 * time.Hour), Interval: 60},
	}
	table, err := paramtable.Encode(rows)
	if err != nil {
		t.Fatalf("paramtable.Encode: %v", err)
	}

	spec := NewTravelTimeRunSpec(testSchematic, table)
	if spec.TaskCount() != 1 {
		t.Errorf("TaskCount = %d, want 1", spec.TaskCount())
	}

	data, err := MarshalRunSpec(spec)
	if err != nil {
		t.Fatalf("MarshalRunSpec: %v", err)
	}

	decoded, err := UnmarshalRunSpec(data)
	if err != nil {
		t.Fatalf("UnmarshalRunSpec: %v", err)
	}

	schematicID, err := decoded.Schematic.ID()
	if err != nil {
		t.Fatalf("Schematic.ID: %v", err)
	}
	if schematicID != testSchematic {
		t.Errorf("schematic = %s, want %s", schematicID, testSchematic)
	}
	if len(decoded.ParamIndices) != 1 || len(decoded.ParamIndices[0].Idxs) != 1 || decoded.ParamIndices[0].Idxs[0] != 0 {
		t.Errorf("ParamIndices = %+v, want [[0]]", decoded.ParamIndices)
	}
	if len(decoded.Params) != 1 || decoded.Params[0].Key != "params" {
		t.Fatalf("Params = %+v, want one parameter keyed %q", decoded.Params, "params")
	}
	if !bytes.Equal(decoded.Params[0].Value, table) {
		t.Error("parameter table bytes changed in transit")
	}

	decodedRows, err := paramtable.Decode(decoded.Params[0].Value)
	if err != nil {
		t.Fatalf("paramtable.Decode: %v", err)
	}
	if len(decodedRows) != 2 || decodedRows[1].NodeID != "b" {
		t.Errorf("decoded rows = %+v", decodedRows)
	}
}

func TestMarshalRunSpecDeterministic(t *testing.T) {
	spec := NewTravelTimeRunSpec(testSchematic, []byte{1, 2, 3})
	first, err := MarshalRunSpec(spec)
	if err != nil {
		t.Fatalf("MarshalRunSpec: %v", err)
	}
	second, err := MarshalRunSpec(spec)
	if err != nil {
		t.Fatalf("MarshalRunSpec: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("MarshalRunSpec is not deterministic")
	}
}

func TestRunSpecValidate(t *testing.T) {
	valid := NewTravelTimeRunSpec(testSchematic, []byte{1})

	tests := []struct {
		name   string
		mutate func(*RunSpec)
	}{
		{"short schematic", func(spec *RunSpec) { spec.Schematic.B = spec.Schematic.B[:15] }},
		{"no tasks", func(spec *RunSpec) { spec.ParamIndices = nil }},
		{"index out of range", func(spec *RunSpec) { spec.ParamIndices[0].Idxs = []int32{1} }},
		{"negative index", func(spec *RunSpec) { spec.ParamIndices[0].Idxs = []int32{-1} }},
		{"no params", func(spec *RunSpec) { spec.Params = nil }},
		{"unnamed param", func(spec *RunSpec) { spec.Params[0].Key = "" }},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid run spec: %v", err)
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			spec := NewTravelTimeRunSpec(testSchematic, []byte{1})
			test.mutate(&spec)
			if err := spec.Validate(); err == nil {
				t.Error("Validate succeeded, want error")
			}
			if _, err := MarshalRunSpec(spec); err == nil {
				t.Error("MarshalRunSpec succeeded on invalid spec")
			}
		})
	}
}

func TestObjectIDMessageRoundtrip(t *testing.T) {
	id := objectid.New()
	data, err := MarshalObjectID(id)
	if err != nil {
		t.Fatalf("MarshalObjectID: %v", err)
	}
	decoded, err := UnmarshalObjectID(data)
	if err != nil {
		t.Fatalf("UnmarshalObjectID: %v", err)
	}
	if decoded != id {
		t.Errorf("got %s, want %s", decoded, id)
	}
}

func TestUnmarshalObjectIDWrongLength(t *testing.T) {
	data, err := codec.MarshalSizePrefixed(ObjectId{B: []byte{1, 2, 3}})
	if err != nil {
		t.Fatalf("MarshalSizePrefixed: %v", err)
	}
	_, err = UnmarshalObjectID(data)
	var formatError *objectid.FormatError
	if !errors.As(err, &formatError) {
		t.Errorf("error = %v, want *objectid.FormatError", err)
	}
}

func TestJobRoundtrip(t *testing.T) {
	worklog := objectid.New()
	job := Job{
		ID:     NewObjectId(objectid.New()),
		Status: StatusComplete,
		Tasks:  []Task{{Output: NewObjectId(worklog)}},
	}

	data, err := MarshalJob(job)
	if err != nil {
		t.Fatalf("MarshalJob: %v", err)
	}
	decoded, err := UnmarshalJob(data)
	if err != nil {
		t.Fatalf("UnmarshalJob: %v", err)
	}

	if decoded.Status != StatusComplete {
		t.Errorf("Status = %s, want Complete", decoded.Status)
	}
	output, err := decoded.Tasks[0].Output.ID()
	if err != nil {
		t.Fatalf("task output: %v", err)
	}
	if output != worklog {
		t.Errorf("task output = %s, want %s", output, worklog)
	}
}

func TestUnmarshalJobPendingWithoutOutputs(t *testing.T) {
	data, err := MarshalJob(Job{
		ID:     NewObjectId(objectid.New()),
		Status: StatusPending,
		Tasks:  []Task{{}},
	})
	if err != nil {
		t.Fatalf("MarshalJob: %v", err)
	}
	job, err := UnmarshalJob(data)
	if err != nil {
		t.Fatalf("UnmarshalJob: %v", err)
	}
	if job.Status != StatusPending {
		t.Errorf("Status = %s, want Pending", job.Status)
	}
}

func TestUnmarshalJobRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		job  Job
	}{
		{"bad id", Job{ID: ObjectId{B: []byte{1}}, Status: StatusRunning}},
		{"unknown status", Job{ID: NewObjectId(objectid.New()), Status: Status(9)}},
		{"complete with bad output", Job{
			ID:     NewObjectId(objectid.New()),
			Status: StatusComplete,
			Tasks:  []Task{{Output: ObjectId{B: make([]byte, 8)}}},
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := codec.MarshalSizePrefixed(test.job)
			if err != nil {
				t.Fatalf("MarshalSizePrefixed: %v", err)
			}
			if _, err := UnmarshalJob(data); err == nil {
				t.Error("UnmarshalJob succeeded, want error")
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		status   Status
		name     string
		terminal bool
	}{
		{StatusPending, "Pending", false},
		{StatusRunning, "Running", false},
		{StatusComplete, "Complete", true},
		{StatusError, "Error", true},
	}
	for _, test := range tests {
		if got := test.status.String(); got != test.name {
			t.Errorf("String() = %q, want %q", got, test.name)
		}
		if got := test.status.IsTerminal(); got != test.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", test.name, got, test.terminal)
		}
	}
	if Status(7).IsKnown() {
		t.Error("Status(7).IsKnown() = true")
	}
}
