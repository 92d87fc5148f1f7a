// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package paramtable

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/ipc"
)

// Compression selects the Arrow IPC body compression codec.
type Compression uint8

const (
	// CompressionNone writes uncompressed buffers. This is what the
	// remote evaluator has always been sent and remains the default.
	CompressionNone Compression = iota

	// CompressionLZ4 uses the LZ4 frame codec.
	CompressionLZ4

	// CompressionZstd uses the zstd codec.
	CompressionZstd
)

// String returns the configuration name of the codec.
func (compression Compression) String() string {
	switch compression {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", compression)
	}
}

// ParseCompression parses a codec name as written in configuration.
// The empty string means none.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("paramtable: unknown compression %q (want none, lz4, or zstd)", name)
	}
}

func (compression Compression) writerOptions() []ipc.Option {
	switch compression {
	case CompressionLZ4:
		return []ipc.Option{ipc.WithLZ4()}
	case CompressionZstd:
		return []ipc.Option{ipc.WithZstd()}
	default:
		return nil
	}
}
