// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstdMaxWindow bounds the decoder window so a hostile frame header
// cannot demand an arbitrarily large allocation.
const zstdMaxWindow = 64 << 20

// DecodedBody returns a reader over the response body with its
// Content-Encoding removed. Identity and zstd encodings are supported;
// gzip is already handled by net/http when it negotiated it. Any other
// encoding is an error. Closing the returned reader closes the response
// body.
func DecodedBody(response *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(response.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return response.Body, nil
	case "zstd":
		decoder, err := zstd.NewReader(response.Body,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxWindow(zstdMaxWindow),
		)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		return &zstdBody{decoder: decoder, body: response.Body}, nil
	default:
		return nil, fmt.Errorf("unsupported Content-Encoding %q", encoding)
	}
}

type zstdBody struct {
	decoder *zstd.Decoder
	body    io.Closer
}

func (z *zstdBody) Read(p []byte) (int, error) { return z.decoder.Read(p) }

func (z *zstdBody) Close() error {
	z.decoder.Close()
	return z.body.Close()
}
