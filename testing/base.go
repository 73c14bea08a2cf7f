// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package testing provides the base suite and helpers shared by package
// tests across the repository.
package testing

import (
	"time"

	"github.com/juju/testing"
)

// BaseSuite isolates tests from the environment and restores any patched
// package variables on teardown. Package test suites embed it.
type BaseSuite struct {
	testing.IsolationSuite
}

const (
	// LongWait is the upper bound for events that are expected to
	// happen; only a broken test reaches it.
	LongWait = 10 * time.Second

	// ShortWait is how long to wait for something that should not
	// happen, before declaring that it did not.
	ShortWait = 50 * time.Millisecond
)
