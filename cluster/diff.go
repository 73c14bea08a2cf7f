// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cluster

import (
	"github.com/juju/errors"

	"github.com/coralsearch/coral/internal/wire"
)

// Diffable is implemented by cluster-state fragments that can be
// propagated incrementally between nodes. The contract is shared by every
// fragment of the cluster state, not just blocks.
type Diffable[T any] interface {
	// Equal reports whether the fragment matches another version.
	Equal(T) bool

	// WriteTo serializes the complete fragment.
	WriteTo(*wire.Writer) error
}

// A Diff transforms one version of a state fragment into the next.
// Applying the diff of (old, new) to old reproduces new exactly.
type Diff[T any] interface {
	// Apply produces the new fragment from the old one.
	Apply(old T) (T, error)

	// WriteTo serializes the diff for transmission.
	WriteTo(*wire.Writer) error
}

const (
	diffUnchanged byte = 0
	diffComplete  byte = 1
)

// completeDiff carries either an "unchanged" marker or the full new
// fragment. It is the baseline diff for fragments without a cheaper
// incremental form; the marker alone keeps unchanged fragments off the
// wire on every state transition.
type completeDiff[T Diffable[T]] struct {
	changed bool
	after   T
}

// DiffOf computes the diff that turns before into after.
func DiffOf[T Diffable[T]](before, after T) Diff[T] {
	if after.Equal(before) {
		return &completeDiff[T]{}
	}
	return &completeDiff[T]{changed: true, after: after}
}

// Apply is part of the Diff interface.
func (d *completeDiff[T]) Apply(old T) (T, error) {
	if !d.changed {
		return old, nil
	}
	return d.after, nil
}

// WriteTo is part of the Diff interface.
func (d *completeDiff[T]) WriteTo(w *wire.Writer) error {
	if !d.changed {
		return errors.Trace(w.WriteByte(diffUnchanged))
	}
	if err := w.WriteByte(diffComplete); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(d.after.WriteTo(w))
}

// ReadDiff deserializes a diff written by WriteTo, using read to decode a
// complete fragment payload when one is present.
func ReadDiff[T Diffable[T]](r *wire.Reader, read func(*wire.Reader) (T, error)) (Diff[T], error) {
	marker, err := r.ReadByte()
	if err != nil {
		return nil, errors.Trace(err)
	}
	switch marker {
	case diffUnchanged:
		return &completeDiff[T]{}, nil
	case diffComplete:
		after, err := read(r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return &completeDiff[T]{changed: true, after: after}, nil
	}
	return nil, errors.Errorf("unknown diff marker 0x%02x", marker)
}

// ReadBlocksDiff reads a diff of the cluster block state.
func ReadBlocksDiff(r *wire.Reader) (Diff[*Blocks], error) {
	return ReadDiff(r, ReadBlocks)
}
