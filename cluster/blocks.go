// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cluster implements the cluster-block coordination subsystem: an
// immutable snapshot of every active block at global, tenant, and resource
// scope, a builder for computing the next snapshot, and the wire codec and
// diff protocol used to distribute snapshots to cluster members.
//
// A Blocks value never changes after construction; the per-level views are
// materialized once so the hot-path checks performed before every operation
// are constant-time lookups. Writers compute a fresh snapshot through a
// Builder and atomically install it, typically via Manager.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/collections/set"

	"github.com/coralsearch/coral/core/blocks"
	"github.com/coralsearch/coral/core/severity"
)

// Blocks is the immutable snapshot of active cluster blocks. It is safe to
// share between any number of concurrent readers without locking.
type Blocks struct {
	global    blocks.Set
	tenants   map[int64]blocks.Set
	resources map[string]blocks.Set

	// levels holds, for every block level, the three partitions filtered
	// down to blocks restricting that level. Indexed by level ordinal.
	levels [blocks.NumLevels]levelHolder
}

type levelHolder struct {
	global    blocks.Set
	tenants   map[int64]blocks.Set
	resources map[string]blocks.Set
}

// EmptyBlocks is the snapshot with no block at any scope.
var EmptyBlocks = newBlocks(nil, nil, nil)

// newBlocks is the single construction path for snapshots; both the
// builder and the codec go through it so the level views are always
// derived the same way. Callers hand over ownership of the containers.
func newBlocks(global blocks.Set, tenants map[int64]blocks.Set, resources map[string]blocks.Set) *Blocks {
	if global == nil {
		global = blocks.Set{}
	}
	if tenants == nil {
		tenants = map[int64]blocks.Set{}
	}
	if resources == nil {
		resources = map[string]blocks.Set{}
	}
	b := &Blocks{
		global:    global,
		tenants:   tenants,
		resources: resources,
	}
	for _, level := range blocks.AllLevels() {
		holder := levelHolder{
			global:    filterLevel(global, level),
			tenants:   make(map[int64]blocks.Set, len(tenants)),
			resources: make(map[string]blocks.Set, len(resources)),
		}
		for tenantID, tenantSet := range tenants {
			holder.tenants[tenantID] = filterLevel(tenantSet, level)
		}
		for name, resourceSet := range resources {
			holder.resources[name] = filterLevel(resourceSet, level)
		}
		b.levels[level] = holder
	}
	return b
}

func filterLevel(in blocks.Set, level blocks.Level) blocks.Set {
	result := blocks.Set{}
	for _, b := range in {
		if b.Contains(level) {
			result.Add(b)
		}
	}
	return result
}

// Global returns the blocks applied at cluster scope. The result is part
// of the immutable snapshot and must not be mutated.
func (b *Blocks) Global() blocks.Set {
	return b.global
}

// Tenants returns the per-tenant block partitions. An absent tenant has no
// blocks. The result must not be mutated.
func (b *Blocks) Tenants() map[int64]blocks.Set {
	return b.tenants
}

// Resources returns the per-resource block partitions. The result must not
// be mutated.
func (b *Blocks) Resources() map[string]blocks.Set {
	return b.resources
}

// GlobalAt returns the global blocks restricting the given level.
func (b *Blocks) GlobalAt(level blocks.Level) blocks.Set {
	return b.levels[level].global
}

// TenantsAt returns the per-tenant blocks restricting the given level.
func (b *Blocks) TenantsAt(level blocks.Level) map[int64]blocks.Set {
	return b.levels[level].tenants
}

// ResourcesAt returns the per-resource blocks restricting the given level.
func (b *Blocks) ResourcesAt(level blocks.Level) map[string]blocks.Set {
	return b.levels[level].resources
}

// DisablesStatePersistence reports whether any global block suppresses
// persistence of cluster state. The state manager skips its durable write
// for the cycle when this is true.
func (b *Blocks) DisablesStatePersistence() bool {
	for _, blk := range b.global {
		if blk.DisableStatePersistence {
			return true
		}
	}
	return false
}

// HasGlobalBlock reports whether the given block is applied at cluster
// scope.
func (b *Blocks) HasGlobalBlock(block blocks.Block) bool {
	return b.global.Contains(block)
}

// HasGlobalBlockID reports whether a block with the given ID is applied at
// cluster scope.
func (b *Blocks) HasGlobalBlockID(id int) bool {
	return b.global.ContainsID(id)
}

// HasGlobalBlockAt reports whether any global block restricts the given
// level.
func (b *Blocks) HasGlobalBlockAt(level blocks.Level) bool {
	return !b.GlobalAt(level).IsEmpty()
}

// HasGlobalBlockAtLeast reports whether any global block carries a status
// at least as severe as the given one.
func (b *Blocks) HasGlobalBlockAtLeast(status severity.Severity) bool {
	for _, blk := range b.global {
		if blk.Status >= status {
			return true
		}
	}
	return false
}

// HasTenantBlockAt reports whether the tenant has any block restricting
// the given level. Global blocks are not considered.
func (b *Blocks) HasTenantBlockAt(level blocks.Level, tenantID int64) bool {
	return !b.levels[level].tenants[tenantID].IsEmpty()
}

// HasTenantBlock reports whether the given block is applied to the tenant.
func (b *Blocks) HasTenantBlock(tenantID int64, block blocks.Block) bool {
	return b.tenants[tenantID].Contains(block)
}

// HasResourceBlock reports whether the given block is applied to the
// resource.
func (b *Blocks) HasResourceBlock(name string, block blocks.Block) bool {
	return b.resources[name].Contains(block)
}

// ResourceBlocked reports whether operations at the given level are
// blocked for the resource. A global block at the level blocks every
// resource, regardless of per-resource state.
func (b *Blocks) ResourceBlocked(level blocks.Level, name string) bool {
	if !b.GlobalAt(level).IsEmpty() {
		return true
	}
	return !b.levels[level].resources[name].IsEmpty()
}

// CheckGlobal returns a *Violation carrying the global blocks at the given
// level, or nil when the level is unrestricted at cluster scope.
func (b *Blocks) CheckGlobal(level blocks.Level) error {
	global := b.GlobalAt(level)
	if global.IsEmpty() {
		return nil
	}
	return newViolation(global.Copy())
}

// CheckTenant returns a *Violation when the tenant is blocked at the given
// level. The violation carries the union of the global blocks and the
// tenant's own blocks at that level, so callers see the full reason set.
func (b *Blocks) CheckTenant(level blocks.Level, tenantID int64) error {
	global := b.GlobalAt(level)
	tenant := b.levels[level].tenants[tenantID]
	if global.IsEmpty() && tenant.IsEmpty() {
		return nil
	}
	return newViolation(global.Union(tenant))
}

// CheckResource returns a *Violation when the resource is blocked at the
// given level, carrying the union of the global and per-resource blocks.
func (b *Blocks) CheckResource(level blocks.Level, name string) error {
	if !b.ResourceBlocked(level, name) {
		return nil
	}
	return newViolation(b.GlobalAt(level).Union(b.levels[level].resources[name]))
}

// CheckResources checks every named resource at the given level. On
// failure the violation carries the union of the global blocks and the
// blocks of every blocked resource in the list, not just the first
// violator.
func (b *Blocks) CheckResources(level blocks.Level, names ...string) error {
	blocked := false
	for _, name := range names {
		if b.ResourceBlocked(level, name) {
			blocked = true
			break
		}
	}
	if !blocked {
		return nil
	}
	union := b.GlobalAt(level).Copy()
	for _, name := range set.NewStrings(names...).SortedValues() {
		for _, blk := range b.levels[level].resources[name] {
			union.Add(blk)
		}
	}
	return newViolation(union)
}

// Equal reports whether both snapshots hold exactly the same blocks at
// every scope. The derived level views are ignored; they are a function of
// the partitions.
func (b *Blocks) Equal(other *Blocks) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil {
		return false
	}
	if !b.global.Equal(other.global) {
		return false
	}
	if len(b.tenants) != len(other.tenants) {
		return false
	}
	for tenantID, tenantSet := range b.tenants {
		if !tenantSet.Equal(other.tenants[tenantID]) {
			return false
		}
	}
	if len(b.resources) != len(other.resources) {
		return false
	}
	for name, resourceSet := range b.resources {
		if !resourceSet.Equal(other.resources[name]) {
			return false
		}
	}
	return true
}

// String returns a multi-line description of the three partitions, for
// logs. The empty snapshot renders as the empty string.
func (b *Blocks) String() string {
	if b.global.IsEmpty() && len(b.tenants) == 0 && len(b.resources) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("blocks:\n")
	if !b.global.IsEmpty() {
		sb.WriteString("   _global_:\n")
		for _, blk := range b.global.SortedValues() {
			fmt.Fprintf(&sb, "      %s\n", blk)
		}
	}
	tenantIDs := make([]int64, 0, len(b.tenants))
	for tenantID := range b.tenants {
		tenantIDs = append(tenantIDs, tenantID)
	}
	sort.Slice(tenantIDs, func(i, j int) bool { return tenantIDs[i] < tenantIDs[j] })
	for _, tenantID := range tenantIDs {
		fmt.Fprintf(&sb, "   tenant %d:\n", tenantID)
		for _, blk := range b.tenants[tenantID].SortedValues() {
			fmt.Fprintf(&sb, "      %s\n", blk)
		}
	}
	for _, name := range set.NewStrings(resourceNames(b.resources)...).SortedValues() {
		fmt.Fprintf(&sb, "   %s:\n", name)
		for _, blk := range b.resources[name].SortedValues() {
			fmt.Fprintf(&sb, "      %s\n", blk)
		}
	}
	return sb.String()
}

func resourceNames(partitions map[string]blocks.Set) []string {
	names := make([]string, 0, len(partitions))
	for name := range partitions {
		names = append(names, name)
	}
	return names
}
