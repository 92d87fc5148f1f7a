// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package objectid converts between the 16-byte object identifiers used
// by the UrbanLogiq API and their canonical textual form.
//
// Every object in the remote data catalog (schematics, jobs, worklogs)
// is addressed by a 16-byte ObjectId. URLs and configuration files carry
// the same identifier as lowercase dashed hex in 8-4-4-4-12 groups, the
// layout of an RFC 9562 UUID. The bytes are not required to carry a UUID
// version or variant; [ToGUID] and [FromGUID] are exact inverses for any
// 16 bytes.
package objectid
