// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [WriteFile] places a fixture file in a fresh t.TempDir() and returns
// its path; it is how config and params fixtures are written. [DirNames]
// lists a directory's entries, for asserting exactly which files a
// download left behind (including stray temporary files).
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package depends on no other packages of this module.
package testutil
