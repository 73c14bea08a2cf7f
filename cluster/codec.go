// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cluster

import (
	"sort"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/coralsearch/coral/core/blocks"
	"github.com/coralsearch/coral/core/severity"
	"github.com/coralsearch/coral/internal/wire"
)

// WriteBlocks serializes the snapshot: the global set, then the tenant
// partitions, then the resource partitions, each count-prefixed. Sets are
// written in ascending block ID order and maps in ascending key order, so
// equal snapshots always produce identical bytes.
func WriteBlocks(w *wire.Writer, b *Blocks) error {
	if err := writeBlockSet(w, b.global); err != nil {
		return errors.Trace(err)
	}
	if err := w.WriteUvarint(uint64(len(b.tenants))); err != nil {
		return errors.Trace(err)
	}
	tenantIDs := make([]int64, 0, len(b.tenants))
	for tenantID := range b.tenants {
		tenantIDs = append(tenantIDs, tenantID)
	}
	sort.Slice(tenantIDs, func(i, j int) bool { return tenantIDs[i] < tenantIDs[j] })
	for _, tenantID := range tenantIDs {
		if err := w.WriteInt64(tenantID); err != nil {
			return errors.Trace(err)
		}
		if err := writeBlockSet(w, b.tenants[tenantID]); err != nil {
			return errors.Trace(err)
		}
	}
	if err := w.WriteUvarint(uint64(len(b.resources))); err != nil {
		return errors.Trace(err)
	}
	for _, name := range set.NewStrings(resourceNames(b.resources)...).SortedValues() {
		if err := w.WriteString(name); err != nil {
			return errors.Trace(err)
		}
		if err := writeBlockSet(w, b.resources[name]); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// ReadBlocks is the exact inverse of WriteBlocks. The snapshot is
// reconstructed through the shared construction path, so the per-level
// views come out identical to a locally built one.
func ReadBlocks(r *wire.Reader) (*Blocks, error) {
	global, err := readBlockSet(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	tenantCount, err := r.ReadUvarint()
	if err != nil {
		return nil, errors.Trace(err)
	}
	tenants := make(map[int64]blocks.Set, tenantCount)
	for i := uint64(0); i < tenantCount; i++ {
		tenantID, err := r.ReadInt64()
		if err != nil {
			return nil, errors.Trace(err)
		}
		tenantSet, err := readBlockSet(r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		tenants[tenantID] = tenantSet
	}
	resourceCount, err := r.ReadUvarint()
	if err != nil {
		return nil, errors.Trace(err)
	}
	resources := make(map[string]blocks.Set, resourceCount)
	for i := uint64(0); i < resourceCount; i++ {
		name, err := r.ReadString()
		if err != nil {
			return nil, errors.Trace(err)
		}
		resourceSet, err := readBlockSet(r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		resources[name] = resourceSet
	}
	return newBlocks(global, tenants, resources), nil
}

// WriteTo makes Blocks satisfy the Diffable contract.
func (b *Blocks) WriteTo(w *wire.Writer) error {
	return WriteBlocks(w, b)
}

func writeBlockSet(w *wire.Writer, bs blocks.Set) error {
	if err := w.WriteUvarint(uint64(bs.Size())); err != nil {
		return errors.Trace(err)
	}
	for _, blk := range bs.SortedValues() {
		if err := writeBlock(w, blk); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func readBlockSet(r *wire.Reader) (blocks.Set, error) {
	count, err := r.ReadUvarint()
	if err != nil {
		return nil, errors.Trace(err)
	}
	result := blocks.Set{}
	for i := uint64(0); i < count; i++ {
		blk, err := readBlock(r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		result.Add(blk)
	}
	return result, nil
}

func writeBlock(w *wire.Writer, b blocks.Block) error {
	if err := w.WriteUvarint(uint64(b.ID)); err != nil {
		return errors.Trace(err)
	}
	if err := w.WriteString(b.Description); err != nil {
		return errors.Trace(err)
	}
	if err := w.WriteByte(byte(b.Levels)); err != nil {
		return errors.Trace(err)
	}
	if err := w.WriteUvarint(uint64(b.Status)); err != nil {
		return errors.Trace(err)
	}
	if err := w.WriteBool(b.DisableStatePersistence); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(w.WriteBool(b.Retryable))
}

func readBlock(r *wire.Reader) (blocks.Block, error) {
	var b blocks.Block
	id, err := r.ReadUvarint()
	if err != nil {
		return b, errors.Trace(err)
	}
	b.ID = int(id)
	if b.Description, err = r.ReadString(); err != nil {
		return b, errors.Trace(err)
	}
	mask, err := r.ReadByte()
	if err != nil {
		return b, errors.Trace(err)
	}
	b.Levels = blocks.LevelSet(mask)
	status, err := r.ReadUvarint()
	if err != nil {
		return b, errors.Trace(err)
	}
	b.Status = severity.Severity(status)
	if b.DisableStatePersistence, err = r.ReadBool(); err != nil {
		return b, errors.Trace(err)
	}
	if b.Retryable, err = r.ReadBool(); err != nil {
		return b, errors.Trace(err)
	}
	return b, nil
}
