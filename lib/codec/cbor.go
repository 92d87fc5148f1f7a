// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// PrefixSize is the length of the size prefix in bytes.
const PrefixSize = 4

// ErrTruncated is returned when a size-prefixed message is shorter than
// its prefix claims.
var ErrTruncated = errors.New("codec: truncated size-prefixed message")

var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Responses come from a remote server; refuse duplicate keys
		// rather than letting the last one win silently.
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// MarshalSizePrefixed encodes v and prepends its length as a 4-byte
// little-endian integer.
func MarshalSizePrefixed(v any) ([]byte, error) {
	payload, err := encMode.Marshal(v)
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("codec: message of %d bytes exceeds size prefix range", len(payload))
	}

	message := make([]byte, PrefixSize+len(payload))
	binary.LittleEndian.PutUint32(message, uint32(len(payload)))
	copy(message[PrefixSize:], payload)
	return message, nil
}

// UnmarshalSizePrefixed decodes one size-prefixed message from data
// into v. Bytes after the message are rejected: a response body holds
// exactly one message.
func UnmarshalSizePrefixed(data []byte, v any) error {
	payload, err := SplitSizePrefixed(data)
	if err != nil {
		return err
	}
	return decMode.Unmarshal(payload, v)
}

// SplitSizePrefixed validates the size prefix of data and returns the
// payload it frames.
func SplitSizePrefixed(data []byte) ([]byte, error) {
	if len(data) < PrefixSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncated, len(data), PrefixSize)
	}
	size := uint64(binary.LittleEndian.Uint32(data))
	available := uint64(len(data) - PrefixSize)
	if size > available {
		return nil, fmt.Errorf("%w: prefix declares %d bytes, %d present", ErrTruncated, size, available)
	}
	if size < available {
		return nil, fmt.Errorf("codec: %d trailing bytes after size-prefixed message", available-size)
	}
	return data[PrefixSize:], nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for data.
// Used in debug logging of evaluator responses.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
