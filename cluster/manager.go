// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cluster

import (
	"sync"

	"github.com/juju/loggo"
	"github.com/juju/pubsub/v2"

	"github.com/coralsearch/coral/core/resource"
)

var logger = loggo.GetLogger("coral.cluster")

// BlocksChangedTopic is published on the manager's hub whenever a new
// snapshot is installed.
const BlocksChangedTopic = "cluster.blocks.changed"

// ChangedEvent is the payload published with BlocksChangedTopic.
type ChangedEvent struct {
	Before *Blocks
	After  *Blocks
}

// Manager owns the current block snapshot for a node. It is the single
// writer: readers take the immutable snapshot via Current and check blocks
// against it without any locking, while every update computes a fresh
// snapshot under the manager's mutex and installs it atomically.
type Manager struct {
	hub *pubsub.SimpleHub

	mu      sync.Mutex
	current *Blocks
}

// NewManager returns a manager seeded with the empty snapshot. The hub may
// be nil when no subscriber cares about transitions.
func NewManager(hub *pubsub.SimpleHub) *Manager {
	return &Manager{
		hub:     hub,
		current: EmptyBlocks,
	}
}

// Current returns the live snapshot. The result is immutable and safe to
// share between any number of goroutines.
func (m *Manager) Current() *Blocks {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Update rebuilds the block state: modify receives a builder seeded from
// the current snapshot and the result is installed atomically. The
// installed snapshot is returned; when nothing changed the previous
// snapshot is kept and no event is published.
func (m *Manager) Update(modify func(*Builder)) *Blocks {
	m.mu.Lock()
	defer m.mu.Unlock()
	builder := NewBuilderFrom(m.current)
	modify(builder)
	return m.install(builder.Build())
}

// Restore replaces the current snapshot wholesale, as happens when a full
// cluster state arrives from another node.
func (m *Manager) Restore(next *Blocks) *Blocks {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.install(next)
}

// install expects m.mu to be held.
func (m *Manager) install(next *Blocks) *Blocks {
	before := m.current
	if next.Equal(before) {
		return before
	}
	m.current = next
	if logger.IsDebugEnabled() {
		logger.Debugf("installed cluster block state:\n%s", next)
	}
	if before.DisablesStatePersistence() != next.DisablesStatePersistence() {
		if next.DisablesStatePersistence() {
			logger.Infof("cluster state persistence disabled by global block")
		} else {
			logger.Infof("cluster state persistence re-enabled")
		}
	}
	if m.hub != nil {
		_ = m.hub.Publish(BlocksChangedTopic, ChangedEvent{Before: before, After: next})
	}
	return next
}

// ApplyResourceChange reconciles the settings-derived blocks for a
// resource after its metadata changed.
func (m *Manager) ApplyResourceChange(meta resource.Metadata) *Blocks {
	return m.Update(func(b *Builder) {
		b.RefreshResourceSettings(meta)
	})
}

// RemoveResource drops every block scoped to a deleted resource.
func (m *Manager) RemoveResource(name string) *Blocks {
	return m.Update(func(b *Builder) {
		b.RemoveAllResourceBlocks(name)
	})
}

// ShouldPersistState reports whether the state store may write cluster
// state durably this cycle.
func (m *Manager) ShouldPersistState() bool {
	return !m.Current().DisablesStatePersistence()
}
