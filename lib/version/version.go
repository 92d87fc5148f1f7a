// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which build of travel-time is running.
//
// Release builds stamp the variables below with -ldflags:
//
//	go build -ldflags "-X github.com/urbanlogiq/london-travel-time/lib/version.Commit=$(git rev-parse --short HEAD)" ./cmd/travel-time
//
// Without a stamp, the commit falls back to the VCS revision the Go
// toolchain records in the binary, and then to "unknown".
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the release number.
	Version = "0.1.0-dev"

	// Commit is the git revision, with "-dirty" appended for builds
	// from a modified tree.
	Commit = ""

	// BuildTime is when the binary was built, UTC.
	BuildTime = "unknown"
)

// revision returns Commit, or the toolchain-recorded VCS revision.
func revision() string {
	if Commit != "" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var hash string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			hash = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if hash == "" {
		return "unknown"
	}
	if len(hash) > 12 {
		hash = hash[:12]
	}
	if modified {
		hash += "-dirty"
	}
	return hash
}

// String is the one-line version: "0.1.0-dev (abc1234, 2026-03-01T09:00:00Z)".
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, revision(), BuildTime)
}

// UserAgent returns the User-Agent value program sends to the API.
func UserAgent(program string) string {
	return fmt.Sprintf("%s/%s (%s)", program, Version, revision())
}

// Fprint writes program's --version output to w: the version line,
// then the Go release and platform.
func Fprint(w io.Writer, program string) {
	fmt.Fprintf(w, "%s %s\n  go: %s %s/%s\n", program, String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
