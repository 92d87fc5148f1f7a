// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/urbanlogiq/london-travel-time/lib/paramtable"
)

type paramsFile struct {
	Params []paramEntry `json:"params"`
}

type paramEntry struct {
	NodeID    string      `json:"ul_node_id"`
	StartTime json.Number `json:"start_time"`
	EndTime   json.Number `json:"end_time"`
	Interval  json.Number `json:"interval"`
}

// LoadParams reads the parameter rows in the JSONC file at path and
// stamps each with realm. Times are Unix milliseconds and the interval
// is in minutes. Numbers written with a fractional part are truncated
// toward zero.
func LoadParams(path, realm string) ([]paramtable.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()
	var file paramsFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("params: parsing %s: %w", path, err)
	}
	if len(file.Params) == 0 {
		return nil, fmt.Errorf("params: %s has no entries under \"params\"", path)
	}

	rows := make([]paramtable.Row, 0, len(file.Params))
	for i, entry := range file.Params {
		row, err := entry.row(realm)
		if err != nil {
			return nil, fmt.Errorf("params: %s: entry %d: %w", path, i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (entry paramEntry) row(realm string) (paramtable.Row, error) {
	if entry.NodeID == "" {
		return paramtable.Row{}, errors.New("ul_node_id is required")
	}
	start, err := integer("start_time", entry.StartTime, math.MinInt64, math.MaxInt64)
	if err != nil {
		return paramtable.Row{}, err
	}
	end, err := integer("end_time", entry.EndTime, math.MinInt64, math.MaxInt64)
	if err != nil {
		return paramtable.Row{}, err
	}
	interval, err := integer("interval", entry.Interval, math.MinInt32, math.MaxInt32)
	if err != nil {
		return paramtable.Row{}, err
	}

	return paramtable.Row{
		Realm:     realm,
		NodeID:    entry.NodeID,
		StartTime: time.UnixMilli(start).UTC(),
		EndTime:   time.UnixMilli(end).UTC(),
		Interval:  int32(interval),
	}, nil
}

// integer converts a JSON number to an int64 within [low, high].
func integer(key string, number json.Number, low, high int64) (int64, error) {
	if number == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	if value, err := number.Int64(); err == nil {
		if value < low || value > high {
			return 0, fmt.Errorf("%s %d is out of range", key, value)
		}
		return value, nil
	}

	value, err := number.Float64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	value = math.Trunc(value)
	if value < float64(low) || value > float64(high) || value >= 0x1p63 {
		return 0, fmt.Errorf("%s %s is out of range", key, number)
	}
	return int64(value), nil
}
