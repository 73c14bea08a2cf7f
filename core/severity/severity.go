// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package severity defines the closed set of severity codes a cluster block
// can carry, and the ordering used to pick the worst of several.
package severity

import (
	"fmt"
)

// Severity classifies how a rejected operation should be reported back to
// the client. Values are HTTP-shaped so the REST layer can map a rejection
// without translation.
type Severity int

const (
	// Forbidden is the severity of administrative blocks: the operation is
	// disallowed by current settings and retrying will not help.
	Forbidden Severity = 403

	// Conflict marks blocks raised by state transitions in flight.
	Conflict Severity = 409

	// TooManyRequests marks load-shedding blocks.
	TooManyRequests Severity = 429

	// InternalError marks blocks raised by node-local faults.
	InternalError Severity = 500

	// ServiceUnavailable marks cluster-availability blocks; callers may
	// retry once the cluster recovers.
	ServiceUnavailable Severity = 503
)

// Worst returns the more severe of a and b. Severity increases with the
// numeric code.
func Worst(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// String returns the wire-stable upper-case name of the severity.
func (s Severity) String() string {
	switch s {
	case Forbidden:
		return "FORBIDDEN"
	case Conflict:
		return "CONFLICT"
	case TooManyRequests:
		return "TOO_MANY_REQUESTS"
	case InternalError:
		return "INTERNAL_SERVER_ERROR"
	case ServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	return fmt.Sprintf("<unknown severity %d>", int(s))
}
