// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package schematic defines the schematic evaluator's message records
// and builds the run specification for a travel time job.
//
// A [RunSpec] is submitted to the evaluator, which answers with the
// [ObjectId] of the created [Job]. Polling the job returns a Job whose
// [Status] eventually becomes Complete or Error; each completed [Task]
// names the worklog holding its output.
//
// All messages travel size-prefixed (see lib/codec).
package schematic
