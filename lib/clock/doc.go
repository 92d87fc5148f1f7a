// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for the job poll
// loop.
//
// Production code holds a [Clock] and calls its methods instead of
// time.Now and time.After. [Real] is backed by the time package. [Fake]
// is for tests of single-goroutine code: its After fires immediately
// and advances the fake time by the requested duration, so a poll loop
// with minutes of backoff runs instantly while still observing elapsed
// time. Every requested wait is recorded and can be inspected with
// [FakeClock.Waits].
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	orchestrator, _ := traveltime.New(traveltime.Config{Clock: fake, ...})
//	// ... run ...
//	fake.Waits() // []time.Duration{500ms, 1s, 2s}
package clock
