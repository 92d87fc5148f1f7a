// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package ulapi is a client for the parts of the UrbanLogiq REST API
// used to run a schematic evaluator job:
//
//   - [Client.Token] exchanges a client id and user credentials for a
//     bearer token (Azure AD B2C resource-owner password grant).
//   - [Client.SubmitJob] posts a run spec to the schematic evaluator and
//     returns the new job's id.
//   - [Client.GetJob] fetches the job's current status.
//   - [Client.DownloadWorklog] streams a worklog's data from the data
//     catalog into a local file.
//
// Every call is a single HTTP request. Responses with a status outside
// [200, 400) become a [*RequestError]; nothing is retried. Evaluator
// messages are size-prefixed CBOR (lib/codec, lib/schematic).
//
// The client never logs or returns request query strings: the token
// request carries the user's password there.
package ulapi
