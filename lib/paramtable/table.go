// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package paramtable

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Column names, in schema order. These are read by the remote
// schematic and must not change.
const (
	ColumnRealm     = "realm"
	ColumnNodeID    = "ul_node_id"
	ColumnStartTime = "start_time"
	ColumnEndTime   = "end_time"
	ColumnInterval  = "interval"
)

const (
	realmIndex = iota
	nodeIDIndex
	startTimeIndex
	endTimeIndex
	intervalIndex
)

// Row is one parameter row. StartTime and EndTime are carried at
// millisecond precision; finer precision is truncated by Encode.
type Row struct {
	Realm     string
	NodeID    string
	StartTime time.Time
	EndTime   time.Time
	Interval  int32
}

// Schema returns the Arrow schema of a parameter table.
func Schema() *arrow.Schema {
	timestamp := &arrow.TimestampType{Unit: arrow.Millisecond}
	return arrow.NewSchema([]arrow.Field{
		{Name: ColumnRealm, Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: ColumnNodeID, Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: ColumnStartTime, Type: timestamp, Nullable: true},
		{Name: ColumnEndTime, Type: timestamp, Nullable: true},
		{Name: ColumnInterval, Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	}, nil)
}

// EncodeError reports a failure while building or serializing a
// parameter table.
type EncodeError struct {
	// Op names the step that failed ("write", "close", "read").
	Op  string
	Err error
}

func (err *EncodeError) Error() string {
	return fmt.Sprintf("paramtable: %s: %v", err.Op, err.Err)
}

func (err *EncodeError) Unwrap() error { return err.Err }

// Encode serializes rows as an Arrow IPC stream containing the schema
// and exactly one record batch. An empty rows slice produces a valid
// stream with a zero-length batch.
func Encode(rows []Row, options ...Option) ([]byte, error) {
	settings := resolve(options)
	schema := Schema()

	builder := array.NewRecordBuilder(settings.allocator, schema)
	defer builder.Release()

	realms := builder.Field(realmIndex).(*array.StringBuilder)
	nodeIDs := builder.Field(nodeIDIndex).(*array.StringBuilder)
	startTimes := builder.Field(startTimeIndex).(*array.TimestampBuilder)
	endTimes := builder.Field(endTimeIndex).(*array.TimestampBuilder)
	intervals := builder.Field(intervalIndex).(*array.Int32Builder)

	for _, field := range builder.Fields() {
		field.Reserve(len(rows))
	}

	for _, row := range rows {
		realms.Append(row.Realm)
		nodeIDs.Append(row.NodeID)
		startTimes.Append(arrow.Timestamp(row.StartTime.UnixMilli()))
		endTimes.Append(arrow.Timestamp(row.EndTime.UnixMilli()))
		intervals.Append(row.Interval)
	}

	record := builder.NewRecord()
	defer record.Release()

	var buffer bytes.Buffer
	writerOptions := []ipc.Option{
		ipc.WithSchema(schema),
		ipc.WithAllocator(settings.allocator),
	}
	writerOptions = append(writerOptions, settings.compression.writerOptions()...)

	writer := ipc.NewWriter(&buffer, writerOptions...)
	if err := writer.Write(record); err != nil {
		writer.Close()
		return nil, &EncodeError{Op: "write", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &EncodeError{Op: "close", Err: err}
	}

	return buffer.Bytes(), nil
}

// Decode parses an Arrow IPC stream produced by Encode. Rows from all
// record batches are returned in stream order. Returns an error if the
// stream's schema is not the parameter table schema or if any value is
// null.
func Decode(data []byte, options ...Option) ([]Row, error) {
	settings := resolve(options)

	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(settings.allocator))
	if err != nil {
		return nil, &EncodeError{Op: "read", Err: err}
	}
	defer reader.Release()

	if !reader.Schema().Equal(Schema()) {
		return nil, &EncodeError{
			Op:  "read",
			Err: fmt.Errorf("unexpected schema %s", reader.Schema()),
		}
	}

	rows := []Row{}
	for reader.Next() {
		batch, err := decodeRecord(reader.Record())
		if err != nil {
			return nil, &EncodeError{Op: "read", Err: err}
		}
		rows = append(rows, batch...)
	}
	if err := reader.Err(); err != nil {
		return nil, &EncodeError{Op: "read", Err: err}
	}

	return rows, nil
}

func decodeRecord(record arrow.Record) ([]Row, error) {
	for index := range int(record.NumCols()) {
		if nulls := record.Column(index).NullN(); nulls > 0 {
			return nil, fmt.Errorf("column %q has %d null values", record.ColumnName(index), nulls)
		}
	}

	realms := record.Column(realmIndex).(*array.String)
	nodeIDs := record.Column(nodeIDIndex).(*array.String)
	startTimes := record.Column(startTimeIndex).(*array.Timestamp)
	endTimes := record.Column(endTimeIndex).(*array.Timestamp)
	intervals := record.Column(intervalIndex).(*array.Int32)

	// String values alias the record's buffers, which the reader
	// releases on the next batch.
	rows := make([]Row, record.NumRows())
	for i := range rows {
		rows[i] = Row{
			Realm:     strings.Clone(realms.Value(i)),
			NodeID:    strings.Clone(nodeIDs.Value(i)),
			StartTime: time.UnixMilli(int64(startTimes.Value(i))).UTC(),
			EndTime:   time.UnixMilli(int64(endTimes.Value(i))).UTC(),
			Interval:  intervals.Value(i),
		}
	}
	return rows, nil
}

// Option configures Encode and Decode.
type Option func(*settings)

type settings struct {
	allocator   memory.Allocator
	compression Compression
}

func resolve(options []Option) settings {
	result := settings{allocator: memory.DefaultAllocator}
	for _, option := range options {
		option(&result)
	}
	return result
}

// WithAllocator sets the Arrow memory allocator. Tests pass a
// memory.CheckedAllocator to verify that every buffer is released.
func WithAllocator(allocator memory.Allocator) Option {
	return func(s *settings) { s.allocator = allocator }
}

// WithCompression compresses record batch bodies. Decode detects
// compression from the stream and needs no matching option.
func WithCompression(compression Compression) Option {
	return func(s *settings) { s.compression = compression }
}
