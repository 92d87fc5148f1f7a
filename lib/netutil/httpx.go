// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP response helpers for the UrbanLogiq API
// client.
//
// Message responses (tokens, job ids, job status) are read whole with
// [ReadResponse] or [DecodeResponse], bounded at [MaxResponseSize] so a
// misbehaving server cannot exhaust memory. Result artifacts can be
// large and are streamed with io.Copy instead; [DecodedBody] undoes a
// zstd Content-Encoding on either kind. [ErrorSnippet] captures the
// start of an error response for diagnostics, and
// [FilenameFromContentDisposition] extracts the download file name.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// MaxResponseSize bounds message response reads: 64 MB. Job status
// messages are a few hundred bytes; the bound exists only to stop a
// pathological response.
const MaxResponseSize int64 = 64 << 20

// ErrorSnippetSize is how much of an error response body ErrorSnippet
// keeps.
const ErrorSnippetSize = 512

// ReadResponse reads a message response body up to MaxResponseSize
// bytes. Returns an error if the body is larger.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}

// DecodeResponse reads a JSON response body (up to MaxResponseSize
// bytes) and decodes it into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorSnippet returns the first ErrorSnippetSize bytes of an error
// response body as a string. Read errors are ignored; a partial body is
// still useful in an error message. A multi-byte character cut by the
// limit is dropped.
func ErrorSnippet(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, ErrorSnippetSize))
	for back := 1; back < utf8.UTFMax && back <= len(data); back++ {
		start := len(data) - back
		if utf8.RuneStart(data[start]) {
			if !utf8.FullRune(data[start:]) {
				data = data[:start]
			}
			break
		}
	}
	return string(data)
}
