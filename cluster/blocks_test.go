// Copyright 2026 Coral Search Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cluster_test

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/coralsearch/coral/cluster"
	"github.com/coralsearch/coral/core/blocks"
	"github.com/coralsearch/coral/core/severity"
)

type blocksSuite struct{}

var _ = gc.Suite(&blocksSuite{})

var (
	writeBlock = blocks.Block{
		ID:          50,
		Description: "writes disabled",
		Levels:      blocks.Levels(blocks.Write),
		Status:      severity.Forbidden,
	}
	readBlock = blocks.Block{
		ID:          51,
		Description: "reads disabled",
		Levels:      blocks.Levels(blocks.Read),
		Status:      severity.Forbidden,
	}
	outageBlock = blocks.Block{
		ID:                      52,
		Description:             "cluster unavailable",
		Levels:                  blocks.AllLevelsSet,
		Status:                  severity.ServiceUnavailable,
		DisableStatePersistence: true,
		Retryable:               true,
	}
)

func (*blocksSuite) TestEmptyBlocks(c *gc.C) {
	b := cluster.EmptyBlocks
	for _, level := range blocks.AllLevels() {
		c.Check(b.CheckGlobal(level), jc.ErrorIsNil)
		c.Check(b.ResourceBlocked(level, "r1"), jc.IsFalse)
	}
	c.Check(b.DisablesStatePersistence(), jc.IsFalse)
	c.Check(b.String(), gc.Equals, "")
}

func (*blocksSuite) TestLevelViewsAreExactFilters(c *gc.C) {
	b := cluster.NewBuilder().
		AddGlobalBlock(writeBlock).
		AddGlobalBlock(outageBlock).
		AddTenantBlock(1, readBlock).
		AddTenantBlock(1, writeBlock).
		AddResourceBlock("idx1", readBlock).
		Build()

	for _, level := range blocks.AllLevels() {
		want := blocks.MakeSet()
		for _, blk := range b.Global() {
			if blk.Contains(level) {
				want.Add(blk)
			}
		}
		c.Check(b.GlobalAt(level).Equal(want), jc.IsTrue)

		for tenantID, tenantSet := range b.Tenants() {
			want := blocks.MakeSet()
			for _, blk := range tenantSet {
				if blk.Contains(level) {
					want.Add(blk)
				}
			}
			c.Check(b.TenantsAt(level)[tenantID].Equal(want), jc.IsTrue)
		}
		for name, resourceSet := range b.Resources() {
			want := blocks.MakeSet()
			for _, blk := range resourceSet {
				if blk.Contains(level) {
					want.Add(blk)
				}
			}
			c.Check(b.ResourcesAt(level)[name].Equal(want), jc.IsTrue)
		}
	}
}

func (*blocksSuite) TestHasGlobalBlock(c *gc.C) {
	b := cluster.NewBuilder().AddGlobalBlock(writeBlock).Build()
	c.Check(b.HasGlobalBlock(writeBlock), jc.IsTrue)
	c.Check(b.HasGlobalBlock(readBlock), jc.IsFalse)
	c.Check(b.HasGlobalBlockID(50), jc.IsTrue)
	c.Check(b.HasGlobalBlockID(51), jc.IsFalse)
	c.Check(b.HasGlobalBlockAt(blocks.Write), jc.IsTrue)
	c.Check(b.HasGlobalBlockAt(blocks.Read), jc.IsFalse)
}

func (*blocksSuite) TestHasGlobalBlockAtLeast(c *gc.C) {
	b := cluster.NewBuilder().AddGlobalBlock(writeBlock).Build()
	c.Check(b.HasGlobalBlockAtLeast(severity.Forbidden), jc.IsTrue)
	c.Check(b.HasGlobalBlockAtLeast(severity.ServiceUnavailable), jc.IsFalse)

	b = cluster.NewBuilderFrom(b).AddGlobalBlock(outageBlock).Build()
	c.Check(b.HasGlobalBlockAtLeast(severity.ServiceUnavailable), jc.IsTrue)
}

func (*blocksSuite) TestCheckGlobal(c *gc.C) {
	b := cluster.NewBuilder().AddGlobalBlock(writeBlock).Build()

	c.Check(b.CheckGlobal(blocks.Read), jc.ErrorIsNil)

	err := b.CheckGlobal(blocks.Write)
	c.Assert(err, gc.NotNil)
	c.Check(err, jc.Satisfies, cluster.IsViolation)
	violation := err.(*cluster.Violation)
	c.Check(violation.Blocks().Equal(blocks.MakeSet(writeBlock)), jc.IsTrue)
}

func (*blocksSuite) TestTenantIsolation(c *gc.C) {
	b := cluster.NewBuilder().AddTenantBlock(42, readBlock).Build()

	c.Check(b.HasTenantBlockAt(blocks.Read, 42), jc.IsTrue)
	c.Check(b.HasTenantBlockAt(blocks.Read, 99), jc.IsFalse)
	c.Check(b.HasTenantBlock(42, readBlock), jc.IsTrue)
	c.Check(b.HasTenantBlock(99, readBlock), jc.IsFalse)

	err := b.CheckTenant(blocks.Read, 42)
	c.Assert(err, jc.Satisfies, cluster.IsViolation)
	c.Check(err.(*cluster.Violation).Blocks().Equal(blocks.MakeSet(readBlock)), jc.IsTrue)

	c.Check(b.CheckTenant(blocks.Read, 99), jc.ErrorIsNil)
	c.Check(b.CheckTenant(blocks.Write, 42), jc.ErrorIsNil)
}

func (*blocksSuite) TestCheckTenantIncludesGlobalBlocks(c *gc.C) {
	b := cluster.NewBuilder().
		AddGlobalBlock(readBlock).
		AddTenantBlock(42, outageBlock).
		Build()

	err := b.CheckTenant(blocks.Read, 42)
	c.Assert(err, jc.Satisfies, cluster.IsViolation)
	c.Check(err.(*cluster.Violation).Blocks().Equal(blocks.MakeSet(readBlock, outageBlock)), jc.IsTrue)

	// A tenant with no blocks of its own still fails on the global block.
	err = b.CheckTenant(blocks.Read, 7)
	c.Assert(err, jc.Satisfies, cluster.IsViolation)
	c.Check(err.(*cluster.Violation).Blocks().Equal(blocks.MakeSet(readBlock)), jc.IsTrue)
}

func (*blocksSuite) TestResourceBlockedGlobalDominates(c *gc.C) {
	b := cluster.NewBuilder().AddResourceBlock("idx1", writeBlock).Build()
	c.Check(b.ResourceBlocked(blocks.Write, "idx1"), jc.IsTrue)
	c.Check(b.ResourceBlocked(blocks.Write, "idx2"), jc.IsFalse)
	c.Check(b.ResourceBlocked(blocks.Read, "idx1"), jc.IsFalse)

	// Adding any global block at a level blocks every resource at that
	// level, whatever its own state.
	b = cluster.NewBuilderFrom(b).AddGlobalBlock(readBlock).Build()
	c.Check(b.ResourceBlocked(blocks.Read, "idx1"), jc.IsTrue)
	c.Check(b.ResourceBlocked(blocks.Read, "idx2"), jc.IsTrue)
	c.Check(b.ResourceBlocked(blocks.Read, "never-seen"), jc.IsTrue)
}

func (*blocksSuite) TestCheckResourceUnionsGlobalAndScoped(c *gc.C) {
	b := cluster.NewBuilder().
		AddGlobalBlock(writeBlock).
		AddResourceBlock("idx1", outageBlock).
		Build()

	err := b.CheckResource(blocks.Write, "idx1")
	c.Assert(err, jc.Satisfies, cluster.IsViolation)
	c.Check(err.(*cluster.Violation).Blocks().Equal(blocks.MakeSet(writeBlock, outageBlock)), jc.IsTrue)
}

func (*blocksSuite) TestCheckResourcesCollectsAllViolators(c *gc.C) {
	b := cluster.NewBuilder().
		AddResourceBlock("idx1", writeBlock).
		AddResourceBlock("idx2", outageBlock).
		Build()

	c.Check(b.CheckResources(blocks.Write, "idx3", "idx4"), jc.ErrorIsNil)

	err := b.CheckResources(blocks.Write, "idx1", "idx2", "idx3")
	c.Assert(err, jc.Satisfies, cluster.IsViolation)
	c.Check(err.(*cluster.Violation).Blocks().Equal(blocks.MakeSet(writeBlock, outageBlock)), jc.IsTrue)
}

func (*blocksSuite) TestCheckResourcesNoNames(c *gc.C) {
	b := cluster.NewBuilder().AddGlobalBlock(writeBlock).Build()
	c.Check(b.CheckResources(blocks.Write), jc.ErrorIsNil)
}

func (*blocksSuite) TestDisablesStatePersistence(c *gc.C) {
	c.Check(cluster.NewBuilder().AddGlobalBlock(writeBlock).Build().DisablesStatePersistence(), jc.IsFalse)
	c.Check(cluster.NewBuilder().AddGlobalBlock(outageBlock).Build().DisablesStatePersistence(), jc.IsTrue)
	// Only global blocks gate persistence.
	c.Check(cluster.NewBuilder().AddResourceBlock("idx1", outageBlock).Build().DisablesStatePersistence(), jc.IsFalse)
}

func (*blocksSuite) TestEqual(c *gc.C) {
	build := func() *cluster.Blocks {
		return cluster.NewBuilder().
			AddGlobalBlock(writeBlock).
			AddTenantBlock(1, readBlock).
			AddResourceBlock("idx1", outageBlock).
			Build()
	}
	a, b := build(), build()
	c.Check(a.Equal(b), jc.IsTrue)
	c.Check(a.Equal(cluster.EmptyBlocks), jc.IsFalse)
	c.Check(cluster.EmptyBlocks.Equal(cluster.NewBuilder().Build()), jc.IsTrue)

	c.Check(a.Equal(cluster.NewBuilderFrom(a).AddTenantBlock(2, readBlock).Build()), jc.IsFalse)
	c.Check(a.Equal(cluster.NewBuilderFrom(a).RemoveAllResourceBlocks("idx1").Build()), jc.IsFalse)
}

func (*blocksSuite) TestStringListsPartitions(c *gc.C) {
	b := cluster.NewBuilder().
		AddGlobalBlock(writeBlock).
		AddTenantBlock(42, readBlock).
		AddResourceBlock("idx1", readBlock).
		Build()
	s := b.String()
	c.Check(s, gc.Matches, "(?s)blocks:\n   _global_:\n.*tenant 42:\n.*idx1:\n.*")
}
