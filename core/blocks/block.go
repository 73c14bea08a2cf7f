// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package blocks defines the Block value type: a rule forbidding one or more
// classes of operation at some scope of the cluster. Blocks are plain
// immutable values; the cluster package assembles them into scoped
// snapshots and answers the actual "is this operation allowed" questions.
package blocks

import (
	"fmt"

	"github.com/coralsearch/coral/core/severity"
)

// Block describes one forbidden-operation rule. A Block is an immutable
// value; its identity within a cluster epoch is its ID, so two blocks with
// the same ID are the same rule regardless of the remaining fields.
type Block struct {
	// ID uniquely identifies the rule within a cluster epoch. IDs of the
	// well-known blocks below are part of the wire contract.
	ID int

	// Description is the human readable reason reported to clients when
	// the block rejects an operation.
	Description string

	// Levels holds the operation classes this block restricts.
	Levels LevelSet

	// Status is the severity a rejection caused by this block carries.
	Status severity.Severity

	// DisableStatePersistence indicates that while this block is active
	// globally, the node must not persist cluster state to durable
	// storage.
	DisableStatePersistence bool

	// Retryable is advisory metadata: the condition behind the block is
	// expected to clear, so callers may retry the operation.
	Retryable bool
}

// Contains reports whether the block restricts operations at level l.
func (b Block) Contains(l Level) bool {
	return b.Levels.Contains(l)
}

// SameAs reports whether other is the same rule, by identity.
func (b Block) SameAs(other Block) bool {
	return b.ID == other.ID
}

// String returns the log representation of the block.
func (b Block) String() string {
	return fmt.Sprintf("%d,%s, blocks %s", b.ID, b.Description, b.Levels)
}

// Well-known blocks applied by resource and cluster lifecycle changes.
// IDs are part of the wire contract and must never be reused for new rules.
var (
	// StateNotRecoveredBlock is applied globally until the cluster state
	// has been recovered from the elected master. While it is active no
	// state may be persisted, since a write would clobber the recovered
	// state with an empty one.
	StateNotRecoveredBlock = Block{
		ID:                      1,
		Description:             "state not recovered / initialized",
		Levels:                  AllLevelsSet,
		Status:                  severity.ServiceUnavailable,
		DisableStatePersistence: true,
		Retryable:               true,
	}

	// ResourceClosedBlock marks a resource administratively closed: no
	// reads, writes, or metadata changes until it is reopened.
	ResourceClosedBlock = Block{
		ID:          4,
		Description: "resource closed",
		Levels:      Levels(Read, Write, MetadataWrite),
		Status:      severity.Forbidden,
	}

	// ResourceReadOnlyBlock rejects writes and metadata changes for a
	// resource whose read-only setting is enabled.
	ResourceReadOnlyBlock = Block{
		ID:          5,
		Description: "resource read-only (api)",
		Levels:      Levels(Write, MetadataWrite),
		Status:      severity.Forbidden,
	}

	// ClusterReadOnlyBlock is the cluster-wide variant of
	// ResourceReadOnlyBlock, applied globally by an administrator.
	ClusterReadOnlyBlock = Block{
		ID:          6,
		Description: "cluster read-only (api)",
		Levels:      Levels(Write, MetadataWrite),
		Status:      severity.Forbidden,
	}

	// ResourceReadBlock rejects reads for a resource whose blocks-read
	// setting is enabled.
	ResourceReadBlock = Block{
		ID:          7,
		Description: "resource read (api)",
		Levels:      Levels(Read),
		Status:      severity.Forbidden,
	}

	// ResourceWriteBlock rejects writes for a resource whose blocks-write
	// setting is enabled.
	ResourceWriteBlock = Block{
		ID:          8,
		Description: "resource write (api)",
		Levels:      Levels(Write),
		Status:      severity.Forbidden,
	}

	// ResourceMetadataBlock rejects metadata reads and writes for a
	// resource whose blocks-metadata setting is enabled.
	ResourceMetadataBlock = Block{
		ID:          9,
		Description: "resource metadata (api)",
		Levels:      Levels(MetadataRead, MetadataWrite),
		Status:      severity.Forbidden,
	}
)
