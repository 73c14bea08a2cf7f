// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cluster

import (
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/coralsearch/coral/core/blocks"
	"github.com/coralsearch/coral/core/severity"
)

// Violation is the error reported when an operation is rejected by active
// blocks. It carries the complete set of blocks that caused the rejection;
// the operation layer translates it into a client-facing response using
// the carried descriptions and the worst severity.
type Violation struct {
	blocks blocks.Set
}

// newViolation takes ownership of the given set, which is never empty.
func newViolation(set blocks.Set) *Violation {
	return &Violation{blocks: set}
}

// Blocks returns the blocks that caused the rejection. Order within the
// set carries no meaning.
func (v *Violation) Blocks() blocks.Set {
	return v.blocks
}

// Status returns the worst severity among the carried blocks. Ties are
// broken arbitrarily; callers key off the severity class only.
func (v *Violation) Status() severity.Severity {
	var status severity.Severity
	for _, b := range v.blocks {
		status = severity.Worst(status, b.Status)
	}
	return status
}

// RetryAll reports whether every carried block is marked retryable, in
// which case the caller may retry the whole operation once conditions
// clear.
func (v *Violation) RetryAll() bool {
	for _, b := range v.blocks {
		if !b.Retryable {
			return false
		}
	}
	return true
}

// Error is part of the error interface.
func (v *Violation) Error() string {
	parts := make([]string, 0, v.blocks.Size())
	for _, b := range v.blocks.SortedValues() {
		parts = append(parts, fmt.Sprintf("[%s/%d/%s]", b.Status, b.ID, b.Description))
	}
	return "blocked by: " + strings.Join(parts, ", ")
}

// IsViolation reports whether err was caused by active cluster blocks.
func IsViolation(err error) bool {
	_, ok := errors.Cause(err).(*Violation)
	return ok
}
