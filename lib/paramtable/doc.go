// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package paramtable encodes travel time job parameters as an Apache
// Arrow IPC stream.
//
// A travel time job takes one parameter table with a row per queried
// road segment and time window. The table has five columns:
//
//	realm       utf8           realm the node belongs to
//	ul_node_id  utf8           worldgraph node id
//	start_time  timestamp[ms]  window start
//	end_time    timestamp[ms]  window end
//	interval    int32          aggregation interval
//
// [Encode] writes the rows as a single record batch in the Arrow
// streaming format, so the bytes can be parsed by any Arrow
// implementation without access to [Row]. [Decode] is its inverse and is
// used by tests and by the fake evaluator to check what was submitted.
package paramtable
