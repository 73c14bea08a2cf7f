// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cluster

import (
	"github.com/coralsearch/coral/core/blocks"
	"github.com/coralsearch/coral/core/resource"
)

// Builder accumulates block additions and removals over a base snapshot
// and produces a new immutable Blocks. A builder lives for one state
// transition and is not safe for concurrent use. Build does not consume
// the builder, though callers conventionally discard it afterwards.
type Builder struct {
	global    blocks.Set
	tenants   map[int64]blocks.Set
	resources map[string]blocks.Set
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		global:    blocks.Set{},
		tenants:   map[int64]blocks.Set{},
		resources: map[string]blocks.Set{},
	}
}

// NewBuilderFrom returns a builder seeded with every block of the given
// snapshot. This is the normal "start from current state" pattern.
func NewBuilderFrom(b *Blocks) *Builder {
	return NewBuilder().Blocks(b)
}

// Blocks merges every block from all three partitions of b into the
// builder's staging containers.
func (bl *Builder) Blocks(b *Blocks) *Builder {
	for _, blk := range b.Global() {
		bl.global.Add(blk)
	}
	for tenantID, tenantSet := range b.Tenants() {
		staged, ok := bl.tenants[tenantID]
		if !ok {
			staged = blocks.Set{}
			bl.tenants[tenantID] = staged
		}
		for _, blk := range tenantSet {
			staged.Add(blk)
		}
	}
	for name, resourceSet := range b.Resources() {
		staged, ok := bl.resources[name]
		if !ok {
			staged = blocks.Set{}
			bl.resources[name] = staged
		}
		for _, blk := range resourceSet {
			staged.Add(blk)
		}
	}
	return bl
}

// AddGlobalBlock applies a block at cluster scope.
func (bl *Builder) AddGlobalBlock(block blocks.Block) *Builder {
	bl.global.Add(block)
	return bl
}

// RemoveGlobalBlock removes a block from cluster scope.
func (bl *Builder) RemoveGlobalBlock(block blocks.Block) *Builder {
	bl.global.Remove(block)
	return bl
}

// AddTenantBlock applies a block to one tenant.
func (bl *Builder) AddTenantBlock(tenantID int64, block blocks.Block) *Builder {
	staged, ok := bl.tenants[tenantID]
	if !ok {
		staged = blocks.Set{}
		bl.tenants[tenantID] = staged
	}
	staged.Add(block)
	return bl
}

// RemoveTenantBlock removes a block from one tenant. The tenant's entry is
// dropped entirely once its set becomes empty.
func (bl *Builder) RemoveTenantBlock(tenantID int64, block blocks.Block) *Builder {
	staged, ok := bl.tenants[tenantID]
	if !ok {
		return bl
	}
	staged.Remove(block)
	if staged.IsEmpty() {
		delete(bl.tenants, tenantID)
	}
	return bl
}

// RemoveAllTenantBlocks removes every block applied to the tenant.
func (bl *Builder) RemoveAllTenantBlocks(tenantID int64) *Builder {
	delete(bl.tenants, tenantID)
	return bl
}

// AddResourceBlock applies a block to one resource.
func (bl *Builder) AddResourceBlock(name string, block blocks.Block) *Builder {
	staged, ok := bl.resources[name]
	if !ok {
		staged = blocks.Set{}
		bl.resources[name] = staged
	}
	staged.Add(block)
	return bl
}

// RemoveResourceBlock removes a block from one resource. The resource's
// entry is dropped entirely once its set becomes empty.
func (bl *Builder) RemoveResourceBlock(name string, block blocks.Block) *Builder {
	staged, ok := bl.resources[name]
	if !ok {
		return bl
	}
	staged.Remove(block)
	if staged.IsEmpty() {
		delete(bl.resources, name)
	}
	return bl
}

// RemoveAllResourceBlocks removes every block applied to the resource.
func (bl *Builder) RemoveAllResourceBlocks(name string) *Builder {
	delete(bl.resources, name)
	return bl
}

// ApplyResourceSettings adds the well-known blocks implied by the
// resource's metadata: the closed block when the resource is closed, and
// one block per enabled setting. Additive only; existing blocks are kept.
func (bl *Builder) ApplyResourceSettings(meta resource.Metadata) *Builder {
	if meta.Closed() {
		bl.AddResourceBlock(meta.Name, blocks.ResourceClosedBlock)
	}
	if meta.Settings.ReadOnly {
		bl.AddResourceBlock(meta.Name, blocks.ResourceReadOnlyBlock)
	}
	if meta.Settings.BlocksRead {
		bl.AddResourceBlock(meta.Name, blocks.ResourceReadBlock)
	}
	if meta.Settings.BlocksWrite {
		bl.AddResourceBlock(meta.Name, blocks.ResourceWriteBlock)
	}
	if meta.Settings.BlocksMetadata {
		bl.AddResourceBlock(meta.Name, blocks.ResourceMetadataBlock)
	}
	return bl
}

// RefreshResourceSettings recomputes the settings-derived blocks for the
// resource from its current metadata: the five well-known kinds are
// removed first, then re-applied. Recomputing from scratch keeps blocks
// from drifting away from settings.
func (bl *Builder) RefreshResourceSettings(meta resource.Metadata) *Builder {
	bl.RemoveResourceBlock(meta.Name, blocks.ResourceClosedBlock)
	bl.RemoveResourceBlock(meta.Name, blocks.ResourceReadOnlyBlock)
	bl.RemoveResourceBlock(meta.Name, blocks.ResourceReadBlock)
	bl.RemoveResourceBlock(meta.Name, blocks.ResourceWriteBlock)
	bl.RemoveResourceBlock(meta.Name, blocks.ResourceMetadataBlock)
	return bl.ApplyResourceSettings(meta)
}

// Build freezes the staging containers into a new immutable snapshot. The
// builder's own containers are copied, so the builder remains usable.
func (bl *Builder) Build() *Blocks {
	tenants := make(map[int64]blocks.Set, len(bl.tenants))
	for tenantID, staged := range bl.tenants {
		tenants[tenantID] = staged.Copy()
	}
	resources := make(map[string]blocks.Set, len(bl.resources))
	for name, staged := range bl.resources {
		resources[name] = staged.Copy()
	}
	return newBlocks(bl.global.Copy(), tenants, resources)
}
