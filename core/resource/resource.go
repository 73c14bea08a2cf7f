// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package resource defines the descriptor the metadata store supplies for
// each indexed resource. The cluster package derives per-resource blocks
// from it whenever resource metadata changes.
package resource

// State records whether a resource is open for use or administratively
// closed.
type State string

const (
	Open   State = "open"
	Closed State = "closed"
)

// Settings holds the block-related settings from a resource's persisted
// metadata. Each flag independently implies one well-known block.
type Settings struct {
	ReadOnly       bool
	BlocksRead     bool
	BlocksWrite    bool
	BlocksMetadata bool
}

// Metadata is the resource descriptor consumed by the block subsystem.
type Metadata struct {
	Name     string
	State    State
	Settings Settings
}

// Closed reports whether the resource is administratively closed.
func (m Metadata) Closed() bool {
	return m.State == Closed
}
