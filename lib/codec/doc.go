// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the binary message encoding used for schematic
// evaluator requests and responses.
//
// Messages are CBOR maps encoded with Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. The same logical message always produces
// identical bytes, so request bodies can be compared byte-for-byte in
// tests.
//
// On the wire each message is size-prefixed: a 4-byte little-endian
// unsigned length followed by exactly that many bytes of CBOR. The
// evaluator endpoints accept and return size-prefixed messages only.
//
//	body, err := codec.MarshalSizePrefixed(runSpec)
//	err = codec.UnmarshalSizePrefixed(responseBody, &job)
//
// Struct fields carry `cbor` tags. Field names follow the evaluator's
// record layouts (ObjectId.b, TaskParameter.key, and so on) rather than
// Go naming.
package codec
